package ingest

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookchat/backend/internal/application/retrieval"
	"github.com/bookchat/backend/internal/domain/catalog"
	"github.com/bookchat/backend/internal/infrastructure/config"
	"github.com/bookchat/backend/internal/infrastructure/vector"
)

// vocabEmbedder 按归一化词表生成向量
// 同一标题的大小写/声调变体归一化后相同，映射到同一方向
type vocabEmbedder struct {
	vocab []string
}

func (e *vocabEmbedder) embed(text string) []float32 {
	normalized := catalog.Normalize(text)
	v := make([]float32, len(e.vocab)+1)
	matched := false
	for i, term := range e.vocab {
		if strings.Contains(normalized, term) {
			v[i] = 1
			matched = true
		}
	}
	if !matched {
		v[len(e.vocab)] = 1
	}
	return v
}

func (e *vocabEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.embed(t)
	}
	return out, nil
}

func (e *vocabEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.embed(text), nil
}

// memIndex 内存索引，同时充当同步写入端和检索端
type memIndex struct {
	ids  map[string]struct{}
	docs []catalog.Document
	vecs [][]float32
}

func newMemIndex() *memIndex {
	return &memIndex{ids: make(map[string]struct{})}
}

func (m *memIndex) ExistingIDs(ctx context.Context) (map[string]struct{}, error) {
	out := make(map[string]struct{}, len(m.ids))
	for id := range m.ids {
		out[id] = struct{}{}
	}
	return out, nil
}

func (m *memIndex) Upsert(ctx context.Context, docs []catalog.Document, vectors [][]float32) error {
	for i, d := range docs {
		m.ids[d.ID] = struct{}{}
		m.docs = append(m.docs, d)
		m.vecs = append(m.vecs, vectors[i])
	}
	return nil
}

func (m *memIndex) Search(ctx context.Context, queryVector []float32, limit int) ([]vector.ScoredBook, error) {
	results := make([]vector.ScoredBook, 0, len(m.docs))
	for i, d := range m.docs {
		results = append(results, vector.ScoredBook{
			Meta:   d.Meta,
			Text:   d.Text,
			Score:  dotProduct(queryVector, m.vecs[i]),
			Vector: m.vecs[i],
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func dotProduct(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func TestSyncThenRetrieve_TitleVariants(t *testing.T) {
	target := doc("Nhà Giả Kim", "Tiểu thuyết", "https://example.com/nha-gia-kim")
	docs := []catalog.Document{
		target,
		doc("Đắc Nhân Tâm", "Kỹ năng sống", "https://example.com/dac-nhan-tam"),
		doc("Tuổi Trẻ Đáng Giá Bao Nhiêu", "Kỹ năng sống", "https://example.com/tuoi-tre"),
	}

	embedder := &vocabEmbedder{vocab: []string{
		catalog.Normalize("Nhà Giả Kim"),
		catalog.Normalize("Đắc Nhân Tâm"),
		catalog.Normalize("Tuổi Trẻ Đáng Giá Bao Nhiêu"),
	}}
	index := newMemIndex()
	repo := newMemRunRepo()
	sync := NewSynchronizer(&fakeLoader{docs: docs}, index, embedder, repo, nil)

	run, err := sync.Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, run.NewUnits)

	cfg := &config.Config{Retrieval: config.RetrievalConfig{TopK: 1, FetchK: 10, Lambda: 0.5}}
	retriever := retrieval.NewRetriever(cfg, index, embedder)

	// 同步入库后，标题的任意大小写/声调变体都应检回同一本书
	for _, query := range []string{"Nhà Giả Kim", "NHÀ GIẢ KIM", "nha gia kim", "NhA GiA KiM"} {
		books, err := retriever.Retrieve(context.Background(), query)
		require.NoError(t, err, query)
		require.NotEmpty(t, books, query)
		assert.Equal(t, target.Meta.Title, books[0].Meta.Title, query)
	}
}
