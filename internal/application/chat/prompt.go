package chat

import (
	"fmt"
	"strings"

	domainChat "github.com/bookchat/backend/internal/domain/chat"
	"github.com/bookchat/backend/internal/infrastructure/llm"
	"github.com/bookchat/backend/internal/infrastructure/token"
	"github.com/bookchat/backend/internal/infrastructure/vector"
)

// systemPrompt 图书管理员人设
const systemPrompt = `Bạn là một thủ thư thân thiện, am hiểu kho sách của thư viện.
Chỉ dựa vào danh sách sách được cung cấp bên dưới để trả lời.
Nếu danh sách không có sách phù hợp, hãy nói thẳng là chưa tìm thấy, đừng bịa ra sách không tồn tại.
Trả lời ngắn gọn bằng tiếng Việt, kèm tên sách, thể loại và đường dẫn khi gợi ý.`

// PromptBuilder 组装带检索上下文与会话历史的提示词
// 历史超出 token 预算时从最早一轮开始丢弃
type PromptBuilder struct {
	estimator *token.Estimator
	maxTokens int
}

// NewPromptBuilder 创建提示词组装器
// 估算器加载失败时退化为不裁剪（历史本身有窗口上限兜底）
func NewPromptBuilder(maxTokens int) *PromptBuilder {
	estimator, err := token.GetEstimator()
	if err != nil {
		estimator = nil
	}
	return &PromptBuilder{
		estimator: estimator,
		maxTokens: maxTokens,
	}
}

// Build 组装一次提问的完整消息序列
func (b *PromptBuilder) Build(question string, books []vector.ScoredBook, history []domainChat.QAPair) []llm.Message {
	context := formatBooks(books)

	system := llm.Message{
		Role:    "system",
		Content: systemPrompt + "\n\nDanh sách sách liên quan:\n" + context,
	}
	userMsg := llm.Message{Role: "user", Content: question}

	// 预算扣除固定部分后，历史从最近往前装入
	budget := b.maxTokens
	if b.estimator != nil && budget > 0 {
		budget -= b.estimator.CountTokens(system.Content)
		budget -= b.estimator.CountTokens(question)
	}

	kept := history
	if b.estimator != nil && b.maxTokens > 0 {
		kept = b.trimHistory(history, budget)
	}

	messages := make([]llm.Message, 0, len(kept)*2+2)
	messages = append(messages, system)
	for _, pair := range kept {
		messages = append(messages,
			llm.Message{Role: "user", Content: pair.Question},
			llm.Message{Role: "assistant", Content: pair.Answer},
		)
	}
	messages = append(messages, userMsg)

	return messages
}

// trimHistory 从最近一轮往前保留，塞不下的更早轮次丢弃
func (b *PromptBuilder) trimHistory(history []domainChat.QAPair, budget int) []domainChat.QAPair {
	if budget <= 0 {
		return nil
	}

	used := 0
	start := len(history)
	for i := len(history) - 1; i >= 0; i-- {
		cost := b.estimator.CountTokens(history[i].Question) + b.estimator.CountTokens(history[i].Answer)
		if used+cost > budget {
			break
		}
		used += cost
		start = i
	}

	return history[start:]
}

// formatBooks 将检索结果格式化为提示词上下文
func formatBooks(books []vector.ScoredBook) string {
	if len(books) == 0 {
		return "(không có sách phù hợp)"
	}

	var sb strings.Builder
	for i, book := range books {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, book.Meta.Title)
		fmt.Fprintf(&sb, "   Thể loại: %s | Mục: %s\n", book.Meta.Genre, book.Meta.Category)
		if book.Meta.URL != "" {
			fmt.Fprintf(&sb, "   Link: %s\n", book.Meta.URL)
		}
		fmt.Fprintf(&sb, "   Lượt xem: %d | Lượt tải: %d\n", book.Meta.Views, book.Meta.Downloads)
	}
	return sb.String()
}
