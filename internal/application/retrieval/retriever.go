package retrieval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bookchat/backend/internal/infrastructure/config"
	"github.com/bookchat/backend/internal/infrastructure/log"
	"github.com/bookchat/backend/internal/infrastructure/vector"
)

// VectorSearcher 向量检索能力
type VectorSearcher interface {
	Search(ctx context.Context, queryVector []float32, limit int) ([]vector.ScoredBook, error)
}

// QueryEmbedder 查询向量化能力
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Retriever 书目检索门面
// 先取 fetchK 个相关候选，再用 MMR 重排出 topK 个兼顾多样性的结果
type Retriever struct {
	searcher VectorSearcher
	embedder QueryEmbedder

	topK   int
	fetchK int
	lambda float64

	logger *slog.Logger
}

// NewRetriever 创建检索门面
func NewRetriever(cfg *config.Config, searcher VectorSearcher, embedder QueryEmbedder) *Retriever {
	topK := cfg.Retrieval.TopK
	if topK <= 0 {
		topK = 4
	}
	fetchK := cfg.Retrieval.FetchK
	if fetchK < topK {
		fetchK = topK * 5
	}
	lambda := cfg.Retrieval.Lambda
	if lambda <= 0 || lambda > 1 {
		lambda = 0.5
	}

	return &Retriever{
		searcher: searcher,
		embedder: embedder,
		topK:     topK,
		fetchK:   fetchK,
		lambda:   lambda,
		logger:   log.NewModuleLogger("retrieval", "retriever"),
	}
}

// Retrieve 按自然语言查询检索书目
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]vector.ScoredBook, error) {
	queryVector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	candidates, err := r.searcher.Search(ctx, queryVector, r.fetchK)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, len(candidates))
	for i, c := range candidates {
		vectors[i] = c.Vector
	}

	picked := maximalMarginalRelevance(queryVector, vectors, r.lambda, r.topK)

	results := make([]vector.ScoredBook, 0, len(picked))
	for _, idx := range picked {
		results = append(results, candidates[idx])
	}

	r.logger.Debug("retrieval completed",
		slog.Int("candidates", len(candidates)),
		slog.Int("selected", len(results)))

	return results, nil
}

// TopK 最终返回的结果数
func (r *Retriever) TopK() int {
	return r.topK
}
