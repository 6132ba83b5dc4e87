package settings

import (
	"context"
)

// Store defines point reads and writes of application settings.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	GetInt(ctx context.Context, key string) (int, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
