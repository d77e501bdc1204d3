package ports

import "context"

type EventSourcePort interface {
	// ListKeys returns every record key. When a paginated listing fails
	// part-way it returns the keys gathered so far together with the error.
	ListKeys(ctx context.Context) ([]string, error)
	FetchObject(ctx context.Context, key string) ([]byte, error)
}
