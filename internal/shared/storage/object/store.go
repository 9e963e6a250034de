package object

import (
	"context"
	"io"
)

// ObjectStore opens stored documents by key.
type ObjectStore interface {
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
