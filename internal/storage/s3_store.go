package storage

import (
	"Drivebox/internal/config"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// s3API is the subset of *s3.Client the store needs.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Store struct {
	client    s3API
	bucket    string
	keyPrefix string
	refPrefix string
}

func NewS3Store(ctx context.Context, cfg config.S3Config) (*S3Store, error) {
	options := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		options = append(options, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	endpoint := cfg.Endpoint
	if endpoint != "" && !strings.HasPrefix(endpoint, "http") {
		endpoint = "https://" + endpoint
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(strings.TrimSuffix(endpoint, "/"))
			o.UsePathStyle = true
		}
	})

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.Bucket)}); err != nil {
		return nil, fmt.Errorf("failed to access bucket %q: %w", cfg.Bucket, err)
	}
	return newS3Store(client, cfg), nil
}

func newS3Store(client s3API, cfg config.S3Config) *S3Store {
	refPrefix := "s3://" + cfg.Bucket + "/"
	if cfg.PublicBaseURL != "" {
		refPrefix = strings.TrimSuffix(cfg.PublicBaseURL, "/") + "/"
	}
	return &S3Store{
		client:    client,
		bucket:    cfg.Bucket,
		keyPrefix: cfg.KeyPrefix,
		refPrefix: refPrefix,
	}
}

func (s *S3Store) Store(ctx context.Context, r io.Reader, name string, contentType string) (Blob, error) {
	body, size, sum, err := hashBody(r)
	if err != nil {
		return Blob{}, err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := s.keyPrefix + newObjectKey(name)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return Blob{}, fmt.Errorf("failed to upload %q: %w", key, err)
	}
	return Blob{Ref: s.refPrefix + key, Size: size, SHA256: sum}, nil
}

func (s *S3Store) Delete(ctx context.Context, ref string) error {
	if !strings.HasPrefix(ref, s.refPrefix) {
		return fmt.Errorf("not a blob reference of bucket %q: %q", s.bucket, ref)
	}
	key := strings.TrimPrefix(ref, s.refPrefix)

	// DeleteObject succeeds on missing keys, so probe first to report not-found.
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return ErrBlobNotFound
		}
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil && isNotFound(err) {
		return ErrBlobNotFound
	}
	return err
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}

// hashBody computes size and sha256 up front; PutObject needs a known length.
func hashBody(r io.Reader) (io.ReadSeeker, int64, string, error) {
	hasher := sha256.New()
	if seeker, ok := r.(io.ReadSeeker); ok {
		start, err := seeker.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, 0, "", err
		}
		size, err := io.Copy(hasher, seeker)
		if err != nil {
			return nil, 0, "", err
		}
		if _, err := seeker.Seek(start, io.SeekStart); err != nil {
			return nil, 0, "", err
		}
		return seeker, size, hex.EncodeToString(hasher.Sum(nil)), nil
	}

	var buf bytes.Buffer
	size, err := io.Copy(io.MultiWriter(&buf, hasher), r)
	if err != nil {
		return nil, 0, "", err
	}
	return bytes.NewReader(buf.Bytes()), size, hex.EncodeToString(hasher.Sum(nil)), nil
}
