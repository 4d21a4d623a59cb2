package handler

import (
	"github.com/bookchat/backend/internal/infrastructure/vector"
	"github.com/google/wire"
)

// ProviderSet 处理器层 ProviderSet
var ProviderSet = wire.NewSet(
	NewChatHandler,
	NewStreamHandler,
	NewSyncHandler,
	wire.Bind(new(IndexCounter), new(*vector.Store)),
)
