package port

import "context"

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
}

// ObjectStorage is the read-only view of cloud storage the pipeline needs.
type ObjectStorage interface {
	Stat(ctx context.Context, bucket, key string) (*ObjectInfo, error)
	Download(ctx context.Context, bucket, key string) ([]byte, error)
}
