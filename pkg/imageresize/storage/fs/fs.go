package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/tendant/simple-resize/pkg/imageresize"
	"github.com/tendant/simple-resize/pkg/imageresize/urlstrategy"
)

// tempPrefix marks in-flight uploads; Watch ignores them
const tempPrefix = ".upload-"

// Backend is a filesystem implementation of the imageresize.Backend interface.
// Metadata is reported stat-style through ObjectMeta.Info.
type Backend struct {
	baseDir       string
	publicBaseURL string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir       string // Base directory for storing files
	PublicBaseURL string // Base URL the directory is served under, e.g. "/storage"
}

// New creates a new filesystem storage backend
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{
		baseDir:       filepath.Clean(config.BaseDir),
		publicBaseURL: strings.TrimRight(config.PublicBaseURL, "/"),
	}, nil
}

// Kind tags the backend for URL construction
func (b *Backend) Kind() urlstrategy.Kind {
	return urlstrategy.KindLocal
}

// PublicBaseURL returns the base URL the directory is served under
func (b *Backend) PublicBaseURL() string {
	return b.publicBaseURL
}

// BaseDir returns the root directory of the backend
func (b *Backend) BaseDir() string {
	return b.baseDir
}

func (b *Backend) path(objectKey string) (string, error) {
	key, err := sanitizeKey(objectKey)
	if err != nil {
		return "", storageError(objectKey, "path", err)
	}
	return filepath.Join(b.baseDir, filepath.FromSlash(key)), nil
}

// GetObjectMeta retrieves metadata for an object in the filesystem
func (b *Backend) GetObjectMeta(ctx context.Context, objectKey string) (*imageresize.ObjectMeta, error) {
	filePath, err := b.path(objectKey)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, storageError(objectKey, "meta", imageresize.ErrObjectNotFound)
	} else if err != nil {
		return nil, storageError(objectKey, "meta", fmt.Errorf("failed to get file info: %w", err))
	}
	if info.IsDir() {
		return nil, storageError(objectKey, "meta", imageresize.ErrObjectNotFound)
	}

	// Detect content type
	contentType := "application/octet-stream"
	if file, err := os.Open(filePath); err == nil {
		defer file.Close()
		buffer := make([]byte, 512)
		if n, err := file.Read(buffer); err == nil {
			contentType = http.DetectContentType(buffer[:n])
		}
	}

	return &imageresize.ObjectMeta{
		Key:         objectKey,
		Size:        info.Size(),
		ContentType: contentType,
		Info: &imageresize.FileInfo{
			FileTime: info.ModTime(),
			Mode:     uint32(info.Mode().Perm()),
		},
	}, nil
}

// Exists reports whether a regular file is stored under objectKey
func (b *Backend) Exists(ctx context.Context, objectKey string) (bool, error) {
	filePath, err := b.path(objectKey)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, storageError(objectKey, "exists", fmt.Errorf("failed to get file info: %w", err))
	}
	return !info.IsDir(), nil
}

// Upload uploads content directly to the filesystem
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	filePath, err := b.path(objectKey)
	if err != nil {
		return err
	}

	// Create directory structure if it doesn't exist
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return storageError(objectKey, "upload", fmt.Errorf("failed to create directory: %w", err))
	}

	// Write to a temporary file and rename so readers never see partial content
	tmp := filepath.Join(dir, tempPrefix+uuid.NewString())
	file, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return storageError(objectKey, "upload", fmt.Errorf("failed to create file: %w", err))
	}

	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		os.Remove(tmp)
		return storageError(objectKey, "upload", fmt.Errorf("failed to write file: %w", err))
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return storageError(objectKey, "upload", fmt.Errorf("failed to close file: %w", err))
	}

	if err := os.Rename(tmp, filePath); err != nil {
		os.Remove(tmp)
		return storageError(objectKey, "upload", fmt.Errorf("failed to move file into place: %w", err))
	}
	return nil
}

// UploadWithParams uploads content with additional parameters. Headers are
// not persisted; the content type is detected on read.
func (b *Backend) UploadWithParams(ctx context.Context, reader io.Reader, params imageresize.UploadParams) error {
	return b.Upload(ctx, params.ObjectKey, reader)
}

// Download downloads content directly from the filesystem
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	filePath, err := b.path(objectKey)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return nil, storageError(objectKey, "download", imageresize.ErrObjectNotFound)
	} else if err != nil {
		return nil, storageError(objectKey, "download", fmt.Errorf("failed to open file: %w", err))
	}

	return file, nil
}

// Delete deletes content from the filesystem
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	filePath, err := b.path(objectKey)
	if err != nil {
		return err
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return storageError(objectKey, "delete", imageresize.ErrObjectNotFound)
	} else if err != nil {
		return storageError(objectKey, "delete", fmt.Errorf("failed to get file info: %w", err))
	}

	if err := os.Remove(filePath); err != nil {
		return storageError(objectKey, "delete", fmt.Errorf("failed to delete file: %w", err))
	}

	b.cleanupEmptyDirectories(filepath.Dir(filePath))
	return nil
}

func storageError(objectKey, op string, err error) error {
	return &imageresize.StorageError{Backend: "fs", Key: objectKey, Op: op, Err: err}
}

// cleanupEmptyDirectories recursively removes empty directories up to baseDir
func (b *Backend) cleanupEmptyDirectories(dir string) {
	if dir == b.baseDir {
		return
	}

	if entries, err := os.ReadDir(dir); err == nil && len(entries) == 0 {
		if os.Remove(dir) == nil {
			b.cleanupEmptyDirectories(filepath.Dir(dir))
		}
	}
}

func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := filepath.ToSlash(filepath.Clean(key))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("invalid key")
	}
	return cleaned, nil
}
