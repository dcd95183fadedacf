package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// LocalStore keeps blobs in a directory served as static files. It is the
// storage variant for single-node deployments without a cloud bucket.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir string, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "blob: creating local store dir")
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *LocalStore) Upload(ctx context.Context, contentType string, data []byte) (string, error) {
	key := Key(contentType, data)
	path := filepath.Join(s.dir, key)

	if _, err := os.Stat(path); err != nil {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", errors.Wrap(err, "blob: writing local object")
		}
	}

	return s.baseURL + "/" + key, nil
}
