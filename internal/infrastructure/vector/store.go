package vector

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/bookchat/backend/internal/domain/catalog"
	"github.com/bookchat/backend/internal/infrastructure/config"
	"github.com/bookchat/backend/internal/infrastructure/log"
)

// pointNamespace 书目单元 ID 到 Qdrant point UUID 的派生命名空间
var pointNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// payload 字段名
const (
	payloadUnitID    = "unit_id"
	payloadTitle     = "title"
	payloadGenre     = "genre"
	payloadURL       = "url"
	payloadImageURL  = "image_url"
	payloadViews     = "views"
	payloadDownloads = "downloads"
	payloadCategory  = "category"
	payloadText      = "text"
)

// ScoredBook 向量检索命中的书目
type ScoredBook struct {
	Meta   catalog.BookMeta
	Text   string
	Score  float32
	Vector []float32
}

// Store Qdrant 书目向量库
type Store struct {
	host       string
	port       int
	collection string
	dimension  uint64

	mu     sync.RWMutex
	client *qdrant.Client

	logger *slog.Logger
}

// NewStore 创建向量库
func NewStore(cfg *config.Config) *Store {
	host, port := parseAddr(cfg.Vector.Addr)
	return &Store{
		host:       host,
		port:       port,
		collection: cfg.Vector.Collection,
		dimension:  uint64(cfg.Embedding.Dimension),
		logger:     log.NewModuleLogger("vector", "store"),
	}
}

// parseAddr 解析 host:port 地址
func parseAddr(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 6334
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, 6334
	}
	return host, port
}

// Connect 建立到 Qdrant 的连接并确保集合存在
func (s *Store) Connect(ctx context.Context) error {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: s.host,
		Port: s.port,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to qdrant: %w", err)
	}

	s.mu.Lock()
	s.client = client
	s.mu.Unlock()

	if err := s.ensureCollection(ctx); err != nil {
		return err
	}

	s.logger.Info("qdrant connected",
		slog.String("host", s.host),
		slog.Int("port", s.port),
		slog.String("collection", s.collection))
	return nil
}

// Close 关闭连接
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		err := s.client.Close()
		s.client = nil
		return err
	}
	return nil
}

// Ready 向量库是否可用
func (s *Store) Ready(ctx context.Context) bool {
	client := s.getClient()
	if client == nil {
		return false
	}
	_, err := client.ListCollections(ctx)
	return err == nil
}

func (s *Store) getClient() *qdrant.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

// ensureCollection 确保集合存在
func (s *Store) ensureCollection(ctx context.Context) error {
	client := s.getClient()
	if client == nil {
		return fmt.Errorf("%w: qdrant client not initialized", catalog.ErrIndexUnavailable)
	}

	existing, err := client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("%w: list collections: %v", catalog.ErrIndexUnavailable, err)
	}

	for _, name := range existing {
		if name == s.collection {
			return nil
		}
	}

	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("%w: create collection %s: %v", catalog.ErrIndexUnavailable, s.collection, err)
	}

	s.logger.Info("collection created",
		slog.String("collection", s.collection),
		slog.Uint64("dimension", s.dimension))
	return nil
}

// PointID 由书目单元 ID 派生稳定的 Qdrant point UUID
func PointID(unitID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(unitID)).String()
}

// Upsert 批量写入书目向量，等待写入落盘后返回
func (s *Store) Upsert(ctx context.Context, docs []catalog.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("documents and vectors length mismatch: %d vs %d", len(docs), len(vectors))
	}
	if len(docs) == 0 {
		return nil
	}

	client := s.getClient()
	if client == nil {
		return fmt.Errorf("%w: qdrant client not initialized", catalog.ErrIndexUnavailable)
	}

	points := make([]*qdrant.PointStruct, len(docs))
	for i, doc := range docs {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(PointID(doc.ID)),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				payloadUnitID:    doc.ID,
				payloadTitle:     doc.Meta.Title,
				payloadGenre:     doc.Meta.Genre,
				payloadURL:       doc.Meta.URL,
				payloadImageURL:  doc.Meta.ImageURL,
				payloadViews:     doc.Meta.Views,
				payloadDownloads: doc.Meta.Downloads,
				payloadCategory:  doc.Meta.Category,
				payloadText:      doc.Text,
			}),
		}
	}

	wait := true
	_, err := client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
		Wait:           &wait,
	})
	if err != nil {
		return fmt.Errorf("%w: upsert %d points: %v", catalog.ErrIndexUnavailable, len(points), err)
	}

	return nil
}

// ExistingIDs 遍历集合，返回已入库的书目单元 ID 集合
func (s *Store) ExistingIDs(ctx context.Context) (map[string]struct{}, error) {
	client := s.getClient()
	if client == nil {
		return nil, fmt.Errorf("%w: qdrant client not initialized", catalog.ErrIndexUnavailable)
	}

	ids := make(map[string]struct{})
	limit := uint32(1024)
	var offset *qdrant.PointId

	for {
		resp, err := client.GetPointsClient().Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: s.collection,
			Limit:          &limit,
			Offset:         offset,
			WithPayload:    qdrant.NewWithPayloadInclude(payloadUnitID),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: scroll points: %v", catalog.ErrIndexUnavailable, err)
		}

		for _, point := range resp.GetResult() {
			if unitID := extractStringValue(point.GetPayload(), payloadUnitID); unitID != "" {
				ids[unitID] = struct{}{}
			}
		}

		offset = resp.GetNextPageOffset()
		if offset == nil {
			break
		}
	}

	return ids, nil
}

// Search 按查询向量检索，返回带原始向量的候选集
func (s *Store) Search(ctx context.Context, queryVector []float32, limit int) ([]ScoredBook, error) {
	client := s.getClient()
	if client == nil {
		return nil, fmt.Errorf("%w: qdrant client not initialized", catalog.ErrIndexUnavailable)
	}

	qLimit := uint64(limit)
	hits, err := client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          &qLimit,
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", catalog.ErrIndexUnavailable, err)
	}

	results := make([]ScoredBook, 0, len(hits))
	for _, hit := range hits {
		results = append(results, hitToBook(hit))
	}
	return results, nil
}

// Count 集合中的向量数
func (s *Store) Count(ctx context.Context) (uint64, error) {
	client := s.getClient()
	if client == nil {
		return 0, fmt.Errorf("%w: qdrant client not initialized", catalog.ErrIndexUnavailable)
	}

	count, err := client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: count points: %v", catalog.ErrIndexUnavailable, err)
	}
	return count, nil
}

// hitToBook 将命中点转换为书目结果
func hitToBook(hit *qdrant.ScoredPoint) ScoredBook {
	payload := hit.GetPayload()

	book := ScoredBook{
		Meta: catalog.BookMeta{
			Title:     extractStringValue(payload, payloadTitle),
			Genre:     extractStringValue(payload, payloadGenre),
			URL:       extractStringValue(payload, payloadURL),
			ImageURL:  extractStringValue(payload, payloadImageURL),
			Views:     extractIntValue(payload, payloadViews),
			Downloads: extractIntValue(payload, payloadDownloads),
			Category:  extractStringValue(payload, payloadCategory),
		},
		Text:  extractStringValue(payload, payloadText),
		Score: hit.GetScore(),
	}

	if vectors := hit.GetVectors(); vectors != nil {
		if v := vectors.GetVector(); v != nil {
			book.Vector = v.GetData()
		}
	}

	return book
}

// extractStringValue 从 payload 中提取字符串值
func extractStringValue(payload map[string]*qdrant.Value, key string) string {
	if payload == nil {
		return ""
	}
	value, ok := payload[key]
	if !ok || value == nil {
		return ""
	}
	return strings.TrimSpace(value.GetStringValue())
}

// extractIntValue 从 payload 中提取整数值
func extractIntValue(payload map[string]*qdrant.Value, key string) int {
	if payload == nil {
		return 0
	}
	value, ok := payload[key]
	if !ok || value == nil {
		return 0
	}
	return int(value.GetIntegerValue())
}
