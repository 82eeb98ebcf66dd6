package constants

import "time"

const (
	RoomTypesCacheKey  = "room_types" // Catalog cache key (CacheBuilder adds colon)
	CatalogCachePrefix = "catalog"
	CatalogCacheExpiry = 12 * time.Hour
)
