package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// 去声调转换器：NFD 分解后移除所有组合记号，再合成回 NFC
var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// đ/Đ 不是组合记号，NFD 分解不会拆出来，需要单独映射
var dReplacer = strings.NewReplacer("đ", "d", "Đ", "D")

var punctRe = regexp.MustCompile(`[^\pL\pN]+`)

// Normalize 小写 + 去声调 + 标点折叠为单个空格
// 用于计算稳定 ID 和构建检索文本的规范化副本
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = StripDiacritics(s)
	s = punctRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// StripDiacritics 移除声调与变音符号（Tiếng Việt -> Tieng Viet）
func StripDiacritics(s string) string {
	out, _, err := transform.String(diacriticStripper, dReplacer.Replace(s))
	if err != nil {
		return s
	}
	return out
}

// UnitID 内容单元的稳定标识
// 对规范化后的 title+genre 与原始 url 做 sha256，同一条目录记录永远得到同一 ID
func UnitID(title, genre, url string) string {
	h := sha256.New()
	h.Write([]byte(Normalize(title)))
	h.Write([]byte{'|'})
	h.Write([]byte(Normalize(genre)))
	h.Write([]byte{'|'})
	h.Write([]byte(url))
	return hex.EncodeToString(h.Sum(nil))
}

// CombinedText 构建向量化文本
// 原始字段 + 小写副本 + 去声调折叠副本，三种形态拼接
func CombinedText(fields ...string) string {
	original := strings.Join(fields, " ")
	lowered := strings.ToLower(original)
	normalized := Normalize(original)

	var b strings.Builder
	b.WriteString(original)
	if lowered != original {
		b.WriteString("\n")
		b.WriteString(lowered)
	}
	if normalized != lowered {
		b.WriteString("\n")
		b.WriteString(normalized)
	}
	return b.String()
}
