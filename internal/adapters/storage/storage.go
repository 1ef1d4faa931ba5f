package storage

import "context"

// ImageRef is the stable locator an upload produces. Key is the object name
// inside the backend; URL is resolvable later to the same bytes (for
// S3-compatible backends it is the object URL, for the filesystem backend it
// is empty and the image endpoint serves the bytes).
type ImageRef struct {
	Key string
	URL string
}

// Store persists raw image bytes and serves them back. Put must be durable
// before it returns: the ingestion pipeline treats a successful Put as the
// audit-trail guarantee and will not classify an image it could not keep.
type Store interface {
	Put(ctx context.Context, data []byte) (ImageRef, error)
	Get(ctx context.Context, key string) ([]byte, error)
}
