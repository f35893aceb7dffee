package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/segmentio/ksuid"
)

var ErrInvalidPath = errors.New("invalid media path")

// LocalMediaStore keeps uploads below Root and serves them under BaseURL.
// Stored paths are slash separated and relative to Root.
type LocalMediaStore struct {
	Root    string
	BaseURL string
}

func NewLocalMediaStore(root, baseURL string) *LocalMediaStore {
	return &LocalMediaStore{
		Root:    root,
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *LocalMediaStore) Save(ctx context.Context, folder string, filename string, content io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rel := path.Join(cleanFolder(folder), ksuid.New().String()+safeExtension(filename))

	full, err := s.resolve(rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	file, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	if _, err := io.Copy(file, content); err != nil {
		file.Close()
		os.Remove(full)
		return "", fmt.Errorf("write media file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("close media file: %w", err)
	}
	return rel, nil
}

func (s *LocalMediaStore) Delete(_ context.Context, rel string) error {
	if rel == "" {
		return nil
	}
	full, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// URL returns the public address of a stored path, or "" for an empty path.
func (s *LocalMediaStore) URL(rel string) string {
	if rel == "" {
		return ""
	}
	return s.BaseURL + "/" + strings.TrimLeft(rel, "/")
}

func (s *LocalMediaStore) resolve(rel string) (string, error) {
	cleaned := path.Clean("/" + rel)
	if cleaned == "/" || strings.Contains(rel, "..") {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.Root, filepath.FromSlash(strings.TrimPrefix(cleaned, "/"))), nil
}

func cleanFolder(folder string) string {
	folder = strings.Trim(path.Clean("/"+folder), "/")
	if folder == "" || folder == "." {
		return "uploads"
	}
	return folder
}

func safeExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
