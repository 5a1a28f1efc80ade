package storage

import "context"

// Storage is scoped key/value persistence with an explicit flush. Set buffers
// locally; Save makes the buffered writes durable. The wallet awaits Save
// before reporting a mutation as complete.
type Storage interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Save(ctx context.Context) error
}
