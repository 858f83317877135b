// Package storage holds the blob store adapters. File bytes live outside the
// relational store; items only keep the reference returned by Store.
package storage

import (
	"Drivebox/internal/config"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrBlobNotFound is returned by Delete when the reference no longer exists.
// Callers treat it as success.
var ErrBlobNotFound = errors.New("blob not found")

type Blob struct {
	Ref    string
	Size   int64
	SHA256 string
}

type BlobStore interface {
	Store(ctx context.Context, r io.Reader, name string, contentType string) (Blob, error)
	Delete(ctx context.Context, ref string) error
}

func NewBlobStore(ctx context.Context, configuration *config.Configuration) (BlobStore, error) {
	switch configuration.Storage.Type {
	case "local":
		return NewLocalStore(configuration.Storage.Path)
	case "s3":
		return NewS3Store(ctx, configuration.Storage.S3)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", configuration.Storage.Type)
	}
}

// newObjectKey returns ab/cd/<uuid>-<name>, sharded on the uuid prefix.
func newObjectKey(name string) string {
	id := uuid.NewString()
	return path.Join(id[:2], id[2:4], id+"-"+sanitizeName(name))
}

func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "blob"
	}
	return name
}
