package vector

import (
	"testing"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
)

func TestPointID_Stable(t *testing.T) {
	id1 := PointID("abc123")
	id2 := PointID("abc123")
	id3 := PointID("def456")

	assert.Equal(t, id1, id2)
	assert.NotEqual(t, id1, id3)

	// 必须是合法 UUID，Qdrant 不接受任意字符串 ID
	_, err := uuid.Parse(id1)
	assert.NoError(t, err)
}

func TestParseAddr(t *testing.T) {
	tests := []struct {
		in       string
		wantHost string
		wantPort int
	}{
		{"localhost:6334", "localhost", 6334},
		{"qdrant.internal:7000", "qdrant.internal", 7000},
		{"noport", "noport", 6334},
	}
	for _, tt := range tests {
		host, port := parseAddr(tt.in)
		assert.Equal(t, tt.wantHost, host)
		assert.Equal(t, tt.wantPort, port)
	}
}

func TestHitToBook(t *testing.T) {
	hit := &qdrant.ScoredPoint{
		Score: 0.87,
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"unit_id":   "u1",
			"title":     "Nhà Giả Kim",
			"genre":     "Tiểu thuyết",
			"url":       "https://example.com/nha-gia-kim",
			"image_url": "/img/x.jpg",
			"views":     1200,
			"downloads": 300,
			"category":  "ebook-hay",
			"text":      "Nhà Giả Kim\nnha gia kim",
		}),
	}

	book := hitToBook(hit)
	assert.Equal(t, "Nhà Giả Kim", book.Meta.Title)
	assert.Equal(t, 1200, book.Meta.Views)
	assert.Equal(t, "ebook-hay", book.Meta.Category)
	assert.InDelta(t, 0.87, book.Score, 1e-6)
}
