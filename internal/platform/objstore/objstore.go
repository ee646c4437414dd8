package objstore

import "context"

// ObjectStorage stores raw image bytes outside the database. Put returns a
// publicly reachable URL; Delete accepts a URL previously returned by Put.
type ObjectStorage interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}
