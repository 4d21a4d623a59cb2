package corpus

import "github.com/google/wire"

// ProviderSet 语料基础设施 ProviderSet
var ProviderSet = wire.NewSet(
	NewLoader,
)
