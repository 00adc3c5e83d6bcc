package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// アップロード画像をローカルディスクに置く（冗長化はしない）
type LocalImageStore struct {
	dir       string
	urlPrefix string
}

func NewLocalImageStore(dir string, urlPrefix string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalImageStore{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (s *LocalImageStore) Save(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// ディレクトリ外へは書かせない
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid file name %q", name)
	}
	return os.WriteFile(filepath.Join(s.dir, name), data, 0o644)
}

func (s *LocalImageStore) URL(name string) string {
	return path.Join(s.urlPrefix, name)
}
