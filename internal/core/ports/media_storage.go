package ports

import (
	"context"
	"io"
)

// UploadedMedia is the result of a successful upload to the media provider.
type UploadedMedia struct {
	PublicID string
	URL      string
}

// MediaStorage abstracts the external media-hosting API.
type MediaStorage interface {
	Upload(ctx context.Context, filename string, r io.Reader) (*UploadedMedia, error)
	Delete(ctx context.Context, publicID string) error
}

// MediaCleanup accepts public ids of replaced assets for best-effort
// asynchronous deletion. Enqueue must not block request handling.
type MediaCleanup interface {
	Enqueue(publicID string)
}
