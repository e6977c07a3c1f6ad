package store

import (
	"context"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// SnapshotMirror keeps an off-host copy of the persisted document. The
// store treats it as best-effort: upload failures are logged, never fatal.
type SnapshotMirror interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	GetPublicURL(key string) string
}
