package util

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

type ObjectInfo struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
	URL       string    `json:"url"`
}

// GCSStore writes and lists objects in a single bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
}

func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

// Upload stores data under objectName and returns its gs:// URL.
func (s *GCSStore) Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	w := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	return fmt.Sprintf("gs://%s/%s", s.bucket, objectName), nil
}

func (s *GCSStore) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	out := []ObjectInfo{}

	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, ObjectInfo{
			Name:      attrs.Name,
			Size:      attrs.Size,
			UpdatedAt: attrs.Updated,
			URL:       PublicGCSURL(s.bucket, attrs.Name),
		})
	}
	return out, nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

var unsafePart = regexp.MustCompile(`[^a-z0-9_\-]`)

func SanitizePart(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = unsafePart.ReplaceAllString(s, "")
	if s == "" {
		return "unknown"
	}
	return s
}

// ExportObjectName is the archive path of a workbook exported at t.
func ExportObjectName(contentType string, t time.Time) string {
	return fmt.Sprintf("exports/%s/%s_%s.xlsx",
		SanitizePart(contentType),
		SanitizePart(contentType),
		t.UTC().Format("20060102T150405Z"),
	)
}

func PublicGCSURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}
