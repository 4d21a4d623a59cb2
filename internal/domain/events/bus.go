package events

// Handler 事件处理器
type Handler interface {
	// HandleEvent 处理单个事件
	// 返回的 error 只用于记录，总线不会重试
	HandleEvent(event Event) error
}

// HandlerFunc 把函数适配成 Handler
type HandlerFunc func(event Event) error

// HandleEvent 实现 Handler 接口
func (f HandlerFunc) HandleEvent(event Event) error {
	return f(event)
}

// EventBus 进程内事件总线
// 语料文件变更和同步完成事件都经由它分发
type EventBus interface {
	// Subscribe 订阅一种事件，返回取消订阅函数
	Subscribe(eventType EventType, handler Handler) (unsubscribe func())

	// SubscribeMultiple 用同一个处理器订阅多种事件
	// 返回的函数一次性取消全部订阅
	SubscribeMultiple(eventTypes []EventType, handler Handler) (unsubscribe func())

	// Publish 异步发布事件到所有匹配的订阅者
	Publish(event Event)

	// Close 停止接收新事件并等待已发布事件处理完成
	Close()
}
