package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for TTL key/value storage
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// SearchClient defines the interface for the image similarity search backend
type SearchClient interface {
	Search(ctx context.Context, file *SelectedFile) ([]SearchResult, error)
}

// Notifier surfaces notices to the user.
type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}
