package application

import (
	"github.com/bookchat/backend/internal/application/chat"
	"github.com/bookchat/backend/internal/application/ingest"
	"github.com/bookchat/backend/internal/application/retrieval"
	"github.com/google/wire"
)

// ProviderSet Application 层总 ProviderSet
var ProviderSet = wire.NewSet(
	retrieval.ProviderSet,
	ingest.ProviderSet,
	chat.ProviderSet,
)
