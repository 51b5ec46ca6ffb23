// Package storage wraps S3 object operations behind a narrow interface
// so the rest of the service never touches the AWS SDK directly.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/awsaruna451/onetoolsbox-be/internal/config"
	"github.com/awsaruna451/onetoolsbox-be/pkg/log"
)

// Store is the object storage surface the handlers and the voice
// pipeline depend on.
type Store interface {
	Upload(ctx context.Context, folder, filename string, data []byte) (UploadResult, error)
	Download(ctx context.Context, key string) (Object, error)
	Delete(ctx context.Context, key string) error
	Presign(ctx context.Context, key string, expires time.Duration) (string, error)
	List(ctx context.Context, folder string) ([]ObjectInfo, error)
}

// UploadResult describes a stored object right after upload.
type UploadResult struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Object is a downloaded object body with its content type.
type Object struct {
	Data        []byte
	ContentType string
}

// ObjectInfo is one listing row.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	URL          string    `json:"url"`
}

// s3API is the subset of the SDK client the store calls. Tests swap in
// a fake.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

type presignAPI interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*signedRequest, error)
}

// signedRequest mirrors the SDK's presigned request; only the URL is
// consumed.
type signedRequest struct {
	URL string
}

// presignAdapter bridges the SDK presign client to the presignAPI
// shape.
type presignAdapter struct {
	client *s3.PresignClient
}

func (a presignAdapter) PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*signedRequest, error) {
	req, err := a.client.PresignGetObject(ctx, in, optFns...)
	if err != nil {
		return nil, err
	}
	return &signedRequest{URL: req.URL}, nil
}

// S3Store implements Store against a single bucket.
type S3Store struct {
	api      s3API
	presign  presignAPI
	bucket   string
	uploadNS string
}

// NewS3Store loads the default AWS credential chain for the configured
// region and binds the store to cfg.Bucket.
func NewS3Store(ctx context.Context, cfg config.StorageConfig) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET is not configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Store{
		api:      client,
		presign:  presignAdapter{client: s3.NewPresignClient(client)},
		bucket:   cfg.Bucket,
		uploadNS: cfg.UploadFolder,
	}, nil
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// objectKey builds a collision-proof key: millisecond timestamp plus a
// short uuid plus the sanitized original name.
func objectKey(folder, filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)
	base = unsafeKeyChars.ReplaceAllString(base, "_")
	if base == "" {
		base = "file"
	}
	shortID := uuid.NewString()[:8]
	return fmt.Sprintf("%s/%d_%s_%s%s", strings.Trim(folder, "/"), time.Now().UnixMilli(), shortID, base, ext)
}

func (s *S3Store) objectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}

func contentTypeFor(filename string) string {
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Upload stores data under a generated key in folder. An empty folder
// falls back to the configured default prefix.
func (s *S3Store) Upload(ctx context.Context, folder, filename string, data []byte) (UploadResult, error) {
	if folder == "" {
		folder = s.uploadNS
	}
	key := objectKey(folder, filename)
	contentType := contentTypeFor(filename)

	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return UploadResult{}, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	log.Info("Uploaded %s (%d bytes) to s3://%s/%s", filename, len(data), s.bucket, key)
	return UploadResult{
		Key:         key,
		URL:         s.objectURL(key),
		Size:        int64(len(data)),
		ContentType: contentType,
	}, nil
}

func (s *S3Store) Download(ctx context.Context, key string) (Object, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return Object{}, fmt.Errorf("failed to download %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return Object{}, fmt.Errorf("failed to read %s: %w", key, err)
	}

	contentType := "application/octet-stream"
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	return Object{Data: data, ContentType: contentType}, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	log.Info("Deleted s3://%s/%s", s.bucket, key)
	return nil
}

// Presign returns a time-limited GET URL for key.
func (s *S3Store) Presign(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expires
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return req.URL, nil
}

// List returns the objects under a folder prefix, paging through the
// bucket as needed.
func (s *S3Store) List(ctx context.Context, folder string) ([]ObjectInfo, error) {
	prefix := strings.Trim(folder, "/")
	if prefix != "" {
		prefix += "/"
	}

	var infos []ObjectInfo
	var continuation *string
	for {
		out, err := s.api.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: continuation,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
		}
		for _, obj := range out.Contents {
			info := ObjectInfo{Key: aws.ToString(obj.Key), URL: s.objectURL(aws.ToString(obj.Key))}
			if obj.Size != nil {
				info.Size = *obj.Size
			}
			if obj.LastModified != nil {
				info.LastModified = *obj.LastModified
			}
			infos = append(infos, info)
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		continuation = out.NextContinuationToken
	}
	return infos, nil
}
