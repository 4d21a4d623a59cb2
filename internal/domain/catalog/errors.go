package catalog

import "errors"

// 语料与索引相关错误
var (
	// ErrCorpusRead 语料文件不可读或不可解析，整次加载失败
	ErrCorpusRead = errors.New("corpus read failed")
	// ErrIndexUnavailable 持久向量索引不可达，本次同步不做任何写入
	ErrIndexUnavailable = errors.New("vector index unavailable")
)
