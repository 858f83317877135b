package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const localRefScheme = "local://"

type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0750); err != nil {
		return nil, err
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Store(ctx context.Context, r io.Reader, name string, _ string) (Blob, error) {
	if err := ctx.Err(); err != nil {
		return Blob{}, err
	}
	key := newObjectKey(name)
	destinationPath := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(destinationPath), 0750); err != nil {
		return Blob{}, err
	}

	dst, err := os.Create(destinationPath)
	if err != nil {
		return Blob{}, err
	}

	sha256Hasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(dst, sha256Hasher), r)
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(destinationPath)
		return Blob{}, fmt.Errorf("failed to write blob: %w", err)
	}

	return Blob{
		Ref:    localRefScheme + key,
		Size:   written,
		SHA256: hex.EncodeToString(sha256Hasher.Sum(nil)),
	}, nil
}

func (s *LocalStore) Delete(_ context.Context, ref string) error {
	fullPath, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrBlobNotFound
		}
		return err
	}
	return nil
}

func (s *LocalStore) resolve(ref string) (string, error) {
	if !strings.HasPrefix(ref, localRefScheme) {
		return "", fmt.Errorf("not a local blob reference: %q", ref)
	}
	key := filepath.FromSlash(strings.TrimPrefix(ref, localRefScheme))
	fullPath := filepath.Join(s.root, key)
	rel, err := filepath.Rel(s.root, fullPath)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("blob reference escapes storage root: %q", ref)
	}
	return fullPath, nil
}
