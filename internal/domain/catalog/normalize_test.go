package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestStripDiacritics 越南语声调与 đ 的处理
func TestStripDiacritics(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Tiếng Việt", "Tieng Viet"},
		{"Đắc Nhân Tâm", "Dac Nhan Tam"},
		{"đỉnh", "dinh"},
		{"plain ascii", "plain ascii"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripDiacritics(tt.in))
	}
}

// TestNormalize 小写、去声调、标点折叠
func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Đắc Nhân Tâm", "dac nhan tam"},
		{"  Kỹ Năng -- Sống!  ", "ky nang song"},
		{"Sách: Hay, Nhất.", "sach hay nhat"},
		{"ABC123", "abc123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in))
	}
}

// TestUnitID_StableAcrossVariants 大小写与声调变体得到相同 ID
func TestUnitID_StableAcrossVariants(t *testing.T) {
	id1 := UnitID("Đắc Nhân Tâm", "Kỹ năng sống", "https://example.com/dac-nhan-tam")
	id2 := UnitID("đắc nhân tâm", "kỹ năng sống", "https://example.com/dac-nhan-tam")
	id3 := UnitID("DAC NHAN TAM", "Ky Nang Song", "https://example.com/dac-nhan-tam")

	assert.Equal(t, id1, id2)
	assert.Equal(t, id1, id3)
	assert.Len(t, id1, 64)
}

// TestUnitID_DistinctRecords 不同记录得到不同 ID
func TestUnitID_DistinctRecords(t *testing.T) {
	id1 := UnitID("Sách A", "Tiểu thuyết", "https://example.com/a")
	id2 := UnitID("Sách A", "Tiểu thuyết", "https://example.com/b")
	id3 := UnitID("Sách B", "Tiểu thuyết", "https://example.com/a")

	assert.NotEqual(t, id1, id2)
	assert.NotEqual(t, id1, id3)
}

// TestNewDocument_Defaults 缺失字段使用占位值而非失败
func TestNewDocument_Defaults(t *testing.T) {
	doc := NewDocument(BookRecord{URL: "https://example.com/x"})

	assert.Equal(t, UnknownField, doc.Meta.Title)
	assert.Equal(t, UnknownField, doc.Meta.Genre)
	assert.Equal(t, UnknownField, doc.Meta.Category)
	assert.Equal(t, 0, doc.Meta.Views)
	assert.NotEmpty(t, doc.ID)
}

// TestNewDocument_CombinedText 向量化文本包含三种形态
func TestNewDocument_CombinedText(t *testing.T) {
	doc := NewDocument(BookRecord{
		Title:    "Đắc Nhân Tâm",
		Genre:    "Kỹ năng sống",
		URL:      "https://example.com/dac-nhan-tam",
		Category: "ebook-hay",
	})

	assert.Contains(t, doc.Text, "Đắc Nhân Tâm")
	assert.Contains(t, doc.Text, "đắc nhân tâm")
	assert.Contains(t, doc.Text, "dac nhan tam")
}
