package retrieval

import "math"

// cosineSimilarity 计算两个向量的余弦相似度
// 维度不一致或零向量时返回 0
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// maximalMarginalRelevance 对候选集做 MMR 重排，返回入选下标
// lambda 取 1 时退化为纯相关性排序，取 0 时只看多样性
func maximalMarginalRelevance(queryVector []float32, candidates [][]float32, lambda float64, k int) []int {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}
	if k > len(candidates) {
		k = len(candidates)
	}

	// 预计算每个候选与查询的相似度
	queryScores := make([]float64, len(candidates))
	for i, c := range candidates {
		queryScores[i] = cosineSimilarity(queryVector, c)
	}

	selected := make([]int, 0, k)
	picked := make([]bool, len(candidates))

	for len(selected) < k {
		best := -1
		bestScore := math.Inf(-1)

		// 按下标升序遍历，同分时取下标最小的候选，保证结果确定
		for i := range candidates {
			if picked[i] {
				continue
			}

			// 与已选集合的最大相似度作为冗余惩罚
			maxSim := 0.0
			for _, s := range selected {
				if sim := cosineSimilarity(candidates[i], candidates[s]); sim > maxSim {
					maxSim = sim
				}
			}

			score := lambda*queryScores[i] - (1-lambda)*maxSim
			if score > bestScore {
				bestScore = score
				best = i
			}
		}

		if best < 0 {
			break
		}
		selected = append(selected, best)
		picked[best] = true
	}

	return selected
}
