package interfaces

import (
	"context"
	"time"
)

// PutOptions carries the content type and the free-form metadata stored
// alongside an object.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, opts PutOptions) error
}

// Authorizer decides whether a request token is allowed to ingest.
type Authorizer interface {
	Authorize(token string) bool
}

// Clock is injected so key construction is testable with a fixed date.
type Clock interface {
	Now() time.Time
}
