package vector

import "github.com/google/wire"

// ProviderSet 向量库 ProviderSet
var ProviderSet = wire.NewSet(
	NewStore,
)
