package catalog

// BookRecord 从语料 CSV 读出的原始一行
// 列顺序与爬虫输出保持一致：title, genre, url, img_path, views, downloads
type BookRecord struct {
	Title     string
	Genre     string
	URL       string
	ImagePath string
	Views     int
	Downloads int
	Category  string // 由子目录名推导，不在 CSV 列中
}

// UnknownField 缺失字符串字段的占位值
const UnknownField = "Unknown"

// BookMeta 可检索单元的元数据
type BookMeta struct {
	Title     string `json:"title"`
	Genre     string `json:"genre"`
	URL       string `json:"url"`
	ImageURL  string `json:"image_url"`
	Views     int    `json:"views"`
	Downloads int    `json:"downloads"`
	Category  string `json:"category"`
}

// Document 一个可嵌入、可检索的内容单元
// ID 由规范化后的 title+genre+url 哈希得到，创建后不可变
type Document struct {
	ID   string   `json:"id"`
	Text string   `json:"text"`
	Meta BookMeta `json:"meta"`
}

// NewDocument 从一条目录记录构建内容单元
// Text 将原始字段、小写副本与去声调副本拼接，提升大小写/声调变体查询的召回
func NewDocument(rec BookRecord) Document {
	title := rec.Title
	if title == "" {
		title = UnknownField
	}
	genre := rec.Genre
	if genre == "" {
		genre = UnknownField
	}
	category := rec.Category
	if category == "" {
		category = UnknownField
	}

	return Document{
		ID:   UnitID(title, genre, rec.URL),
		Text: CombinedText(title, genre, category),
		Meta: BookMeta{
			Title:     title,
			Genre:     genre,
			URL:       rec.URL,
			ImageURL:  rec.ImagePath,
			Views:     rec.Views,
			Downloads: rec.Downloads,
			Category:  category,
		},
	}
}
