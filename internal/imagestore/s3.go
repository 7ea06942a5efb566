package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config selects the bucket and, for S3-compatible servers such as MinIO,
// the endpoint and static credentials.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	// PublicURL is the base used in image URLs. Empty derives one from the
	// endpoint (path style) or the AWS virtual-host name.
	PublicURL string
}

// objectAPI is the part of *s3.Client the store uses.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3 stores images as objects keyed by their relative path.
type S3 struct {
	client  objectAPI
	bucket  string
	baseURL string
	policy  Policy
	log     *slog.Logger
}

// NewS3 builds an S3 client from cfg.
func NewS3(ctx context.Context, cfg S3Config, policy Policy, log *slog.Logger) (*S3, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("imagestore.NewS3: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3(client, cfg, policy, log), nil
}

func newS3(client objectAPI, cfg S3Config, policy Policy, log *slog.Logger) *S3 {
	base := cfg.PublicURL
	switch {
	case base != "":
	case cfg.Endpoint != "":
		base = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &S3{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(base, "/"),
		policy:  policy,
		log:     log,
	}
}

func (s *S3) Save(ctx context.Context, file Upload, folder string) (string, error) {
	img, err := s.policy.read(file)
	if err != nil {
		return "", err
	}
	key, err := objectKey(folder, img.ext)
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(img.data),
		ContentLength: aws.Int64(int64(len(img.data))),
		ContentType:   aws.String(img.contentType),
	})
	if err != nil {
		return "", fmt.Errorf("imagestore.S3.Save: %w", err)
	}
	return key, nil
}

func (s *S3) Delete(ctx context.Context, p string) bool {
	if strings.TrimSpace(p) == "" {
		return false
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(strings.TrimLeft(p, "/")),
	})
	if err != nil {
		s.log.WarnContext(ctx, "image delete failed", "path", p, "bucket", s.bucket, "error", err)
		return false
	}
	return true
}

// URL returns an absolute object URL.
func (s *S3) URL(p string) string {
	if p == "" {
		return ""
	}
	return s.baseURL + rootRelative(p)
}
