package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Source yields the raw catalog CSV.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// Seeder is implemented by sources that can be initialised with the seed table.
type Seeder interface {
	Exists(ctx context.Context) (bool, error)
	Seed(ctx context.Context) error
}

// FileSource reads the catalog from a local CSV file.
type FileSource struct {
	Path string
}

func (s FileSource) String() string { return s.Path }

func (s FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, s.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", s.Path, err)
	}
	return f, nil
}

func (s FileSource) Exists(_ context.Context) (bool, error) {
	_, err := os.Stat(s.Path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("catalog: stat %s: %w", s.Path, err)
}

// Seed writes the seed table to Path, creating parent directories.
func (s FileSource) Seed(_ context.Context) error {
	if dir := filepath.Dir(s.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("catalog: create dir %s: %w", dir, err)
		}
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, seedEntries); err != nil {
		return err
	}
	if err := os.WriteFile(s.Path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("catalog: write seed %s: %w", s.Path, err)
	}
	return nil
}

// S3API is the subset of the S3 client used by S3Source.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads the catalog from an object in S3. It never seeds.
type S3Source struct {
	Client S3API
	Bucket string
	Key    string
}

func (s S3Source) String() string { return "s3://" + s.Bucket + "/" + s.Key }

func (s S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	if s.Client == nil {
		return nil, errors.New("catalog: s3 client not configured")
	}
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, s)
		}
		return nil, fmt.Errorf("catalog: s3 get %s: %w", s, err)
	}
	return out.Body, nil
}

// ParseS3URI splits s3://bucket/key. ok is false for anything else.
func ParseS3URI(uri string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(uri, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
