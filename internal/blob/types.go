// Package blob provides the storage backends for item image attachments.
package blob

import (
	"context"
	"errors"
)

// Driver identifies a concrete blob storage backend implementation.
type Driver string

const (
	// DriverFilesystem represents the local filesystem implementation.
	DriverFilesystem Driver = "fs"
	// DriverS3 represents an S3 / MinIO compatible implementation.
	DriverS3 Driver = "s3"
	// DriverMemory represents an in-memory implementation typically used in tests.
	DriverMemory Driver = "memory"
)

// Store holds binary attachments keyed by opaque string keys. It satisfies
// the editor service's image store seam.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
	Driver() Driver
}

// ErrNotFound is returned by Get for keys with no stored blob.
var ErrNotFound = errors.New("blob: not found")
