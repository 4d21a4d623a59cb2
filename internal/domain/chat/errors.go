package chat

import "errors"

// 调用方输入错误
var (
	// ErrEmptyUserID user_id 为空
	ErrEmptyUserID = errors.New("user_id is required")
	// ErrEmptyQuestion 问题为空
	ErrEmptyQuestion = errors.New("question is required")
)

// 引擎状态错误
var (
	// ErrEngineNotReady 检索或生成能力尚未初始化完成，调用方应稍后重试
	ErrEngineNotReady = errors.New("answer engine is not ready")
)
