package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bookchat/backend/internal/domain/catalog"
	"github.com/bookchat/backend/internal/infrastructure/config"
	logging "github.com/bookchat/backend/internal/infrastructure/log"
)

// 语料 CSV 的列名
const (
	colTitle     = "title"
	colGenre     = "genre"
	colURL       = "url"
	colImagePath = "img_path"
	colViews     = "views"
	colDownloads = "downloads"
)

// Loader 从磁盘加载书目语料
// 根目录下每个子目录是一个类目，子目录内的 *.csv 按文件名排序读取
type Loader struct {
	dir    string
	logger *slog.Logger
}

// NewLoader 创建语料加载器
func NewLoader(cfg *config.CorpusConfig) *Loader {
	return &Loader{
		dir:    cfg.Dir,
		logger: logging.NewModuleLogger("corpus", "loader"),
	}
}

// Dir 返回语料根目录
func (l *Loader) Dir() string {
	return l.dir
}

// Load 加载全部语料并去重
// 任何一个文件读取失败都会使整次加载失败，避免半份语料进入索引
func (l *Loader) Load() ([]catalog.Document, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read corpus dir %s: %v", catalog.ErrCorpusRead, l.dir, err)
	}

	var categories []string
	for _, e := range entries {
		if e.IsDir() {
			categories = append(categories, e.Name())
		}
	}
	sort.Strings(categories)

	seen := make(map[string]struct{})
	var docs []catalog.Document

	for _, category := range categories {
		files, err := l.listCSVs(filepath.Join(l.dir, category))
		if err != nil {
			return nil, err
		}

		for _, file := range files {
			records, err := l.readFile(file, category)
			if err != nil {
				return nil, err
			}

			for _, rec := range records {
				doc := catalog.NewDocument(rec)
				if _, ok := seen[doc.ID]; ok {
					continue
				}
				seen[doc.ID] = struct{}{}
				docs = append(docs, doc)
			}
		}
	}

	l.logger.Info("corpus loaded",
		slog.Int("categories", len(categories)),
		slog.Int("documents", len(docs)))

	return docs, nil
}

// listCSVs 列出目录下的 CSV 文件，按文件名排序
func (l *Loader) listCSVs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read category dir %s: %v", catalog.ErrCorpusRead, dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// readFile 读取单个 CSV 文件
func (l *Loader) readFile(path, category string) ([]catalog.BookRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", catalog.ErrCorpusRead, path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			// 空文件跳过
			return nil, nil
		}
		return nil, fmt.Errorf("%w: read header %s: %v", catalog.ErrCorpusRead, path, err)
	}

	idx := headerIndex(header)

	var records []catalog.BookRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read %s line %d: %v", catalog.ErrCorpusRead, path, line, err)
		}

		records = append(records, catalog.BookRecord{
			Title:     field(row, idx, colTitle),
			Genre:     field(row, idx, colGenre),
			URL:       field(row, idx, colURL),
			ImagePath: field(row, idx, colImagePath),
			Views:     intField(row, idx, colViews),
			Downloads: intField(row, idx, colDownloads),
			Category:  category,
		})
	}

	return records, nil
}

// headerIndex 建立列名到下标的映射，列名不区分大小写
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

// field 取指定列的值，缺列返回空串
func field(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// intField 取指定列的整数值，无法解析时归零
func intField(row []string, idx map[string]int, name string) int {
	v := field(row, idx, name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(v, ",", ""))
	if err != nil {
		return 0
	}
	return n
}
