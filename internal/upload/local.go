package upload

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStorage writes uploads below a root directory on disk. Returned
// paths are prefix/dir/name using forward slashes.
type LocalStorage struct {
	root   string
	prefix string
}

func NewLocalStorage(root, prefix string) *LocalStorage {
	return &LocalStorage{root: root, prefix: strings.Trim(prefix, "/")}
}

func (s *LocalStorage) Store(ctx context.Context, dir, name string, data []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target := filepath.Join(s.root, filepath.FromSlash(dir))
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	// O_EXCL so a name collision never overwrites an existing file.
	f, err := os.OpenFile(filepath.Join(target, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close upload file: %w", err)
	}

	return path.Join(s.prefix, dir, name), nil
}

func (s *LocalStorage) Remove(_ context.Context, relPath string) error {
	rel := strings.TrimPrefix(strings.TrimPrefix(relPath, s.prefix), "/")
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
