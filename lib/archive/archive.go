package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// Store keeps the raw files behind imported statements and member lists.
type Store interface {
	// Save stores r under a fresh object name derived from fileName and
	// returns the location recorded on the owning row.
	Save(ctx context.Context, folder, fileName string, r io.Reader) (string, error)
	Open(ctx context.Context, location string) (io.ReadCloser, error)
	Delete(ctx context.Context, location string) error
}

// ObjectName builds a unique, date-prefixed object name that keeps the
// original file extension.
func ObjectName(folder, fileName string, now time.Time) string {
	ext := strings.ToLower(path.Ext(fileName))
	return path.Join(folder, now.UTC().Format("2006/01"), uuid.NewString()+ext)
}

type LocalStore struct {
	Root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", root, err)
	}
	return &LocalStore{Root: root}, nil
}

func (s *LocalStore) Save(ctx context.Context, folder, fileName string, r io.Reader) (string, error) {
	name := ObjectName(folder, fileName, time.Now())
	full := filepath.Join(s.Root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", err
	}
	f, err := os.Create(full)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write %q: %w", full, err)
	}
	return name, f.Close()
}

func (s *LocalStore) resolve(location string) (string, error) {
	clean := path.Clean("/" + location)
	if clean == "/" {
		return "", fmt.Errorf("invalid archive location %q", location)
	}
	return filepath.Join(s.Root, filepath.FromSlash(clean)), nil
}

func (s *LocalStore) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	full, err := s.resolve(location)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

func (s *LocalStore) Delete(ctx context.Context, location string) error {
	full, err := s.resolve(location)
	if err != nil {
		return err
	}
	err = os.Remove(full)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// GCSStore writes to a Google Cloud Storage bucket using Application Default Credentials.
type GCSStore struct {
	client *storage.Client
	bucket string
}

func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) Save(ctx context.Context, folder, fileName string, r io.Reader) (string, error) {
	name := ObjectName(folder, fileName, time.Now())
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("copy file to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}
	return fmt.Sprintf("gs://%s/%s", s.bucket, name), nil
}

func (s *GCSStore) objectName(location string) (string, error) {
	prefix := fmt.Sprintf("gs://%s/", s.bucket)
	if !strings.HasPrefix(location, prefix) {
		return "", fmt.Errorf("invalid GCS URI: %s", location)
	}
	return strings.TrimPrefix(location, prefix), nil
}

func (s *GCSStore) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	name, err := s.objectName(location)
	if err != nil {
		return nil, err
	}
	return s.client.Bucket(s.bucket).Object(name).NewReader(ctx)
}

func (s *GCSStore) Delete(ctx context.Context, location string) error {
	name, err := s.objectName(location)
	if err != nil {
		return err
	}
	err = s.client.Bucket(s.bucket).Object(name).Delete(ctx)
	if err == storage.ErrObjectNotExist {
		return nil
	}
	return err
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

// New picks the GCS store when a bucket is configured and local disk otherwise.
func New(ctx context.Context, bucket, uploadDir string) (Store, error) {
	if bucket != "" {
		return NewGCSStore(ctx, bucket)
	}
	return NewLocalStore(uploadDir)
}
