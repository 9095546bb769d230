package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/AndrewDilley/TenderEvaluation/pkg/lifecycle"
)

// local stores blobs as files beneath <root>/<container>.
type local struct {
	dir    string
	logger *slog.Logger
}

func newLocal(cfg *Config, logger *slog.Logger) *local {
	return &local{
		dir:    filepath.Join(cfg.RootDir, cfg.ContainerName),
		logger: logger,
	}
}

func (l *local) Start(lc *lifecycle.Coordinator) error {
	l.logger.Info("starting storage system")

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("create storage dir %s: %w", l.dir, err)
	}

	l.logger.Info("storage container ready", "dir", l.dir)
	return nil
}

func (l *local) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	target := l.path(key)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("upload blob %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return fmt.Errorf("upload blob %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		return fmt.Errorf("upload blob %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("upload blob %s: %w", key, err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("upload blob %s: %w", key, err)
	}
	return nil
}

func (l *local) Download(ctx context.Context, key string) (*BlobResult, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	f, err := os.Open(l.path(key))
	if err != nil {
		return nil, l.mapErr("download", key, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, l.mapErr("download", key, err)
	}

	return &BlobResult{
		Body:          f,
		ContentType:   contentType(key),
		ContentLength: info.Size(),
	}, nil
}

func (l *local) Find(ctx context.Context, key string) (*BlobMeta, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	info, err := os.Stat(l.path(key))
	if err != nil {
		return nil, l.mapErr("find", key, err)
	}
	if info.IsDir() {
		return nil, ErrNotFound
	}

	return l.meta(key, info), nil
}

func (l *local) List(ctx context.Context, prefix, marker string, maxResults int32) (*BlobList, error) {
	var keys []string

	err := filepath.WalkDir(l.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".upload-") {
			return nil
		}

		rel, err := filepath.Rel(l.dir, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) && key > marker {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("list blobs %q: %w", prefix, err)
	}

	slices.Sort(keys)

	result := &BlobList{Blobs: []BlobMeta{}}
	if maxResults > 0 && len(keys) > int(maxResults) {
		keys = keys[:maxResults]
		result.NextMarker = keys[len(keys)-1]
	}

	for _, key := range keys {
		info, err := os.Stat(l.path(key))
		if err != nil {
			continue
		}
		result.Blobs = append(result.Blobs, *l.meta(key, info))
	}

	return result, nil
}

func (l *local) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if err := os.Remove(l.path(key)); err != nil {
		return l.mapErr("delete", key, err)
	}
	return nil
}

func (l *local) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	_, err := os.Stat(l.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check blob existence %s: %w", key, err)
	}
	return true, nil
}

func (l *local) path(key string) string {
	return filepath.Join(l.dir, filepath.FromSlash(key))
}

func (l *local) meta(key string, info fs.FileInfo) *BlobMeta {
	return &BlobMeta{
		Name:          key,
		ContentType:   contentType(key),
		ContentLength: info.Size(),
		LastModified:  info.ModTime().UTC(),
	}
}

func (l *local) mapErr(op, key string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return fmt.Errorf("%s blob %s: %w", op, key, err)
}

func contentType(key string) string {
	if strings.EqualFold(path.Ext(key), ".txt") {
		return "text/plain; charset=utf-8"
	}
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
