// Package storage keeps uploaded change request files in an S3 compatible
// bucket (Cloudflare R2 in production) and hands back their public URLs.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dgallion1/poolproposal/internal/config"
)

// Uploader stores an object and returns the URL it can be fetched from.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)
}

type R2Client struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewR2Client builds a client from the S3_* settings. The endpoint may be
// empty for plain AWS S3.
func NewR2Client(ctx context.Context, cfg config.Config) (*R2Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := cfg.S3PublicBaseURL
	if baseURL == "" {
		baseURL = strings.TrimRight(cfg.S3Endpoint, "/") + "/" + cfg.S3Bucket
	}
	return &R2Client{
		client:  client,
		bucket:  cfg.S3Bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (r *R2Client) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return PublicURL(r.baseURL, key), nil
}

// ObjectKey places an upload under its proposal with a random prefix so two
// files with the same name never collide.
func ObjectKey(proposalID, filename string) string {
	return path.Join("proposals", safeName(proposalID), "attachments",
		uuid.NewString()+"-"+safeName(path.Base(filename)))
}

// ThumbnailKey is where the preview for an object key lives.
func ThumbnailKey(key string) string {
	ext := path.Ext(key)
	return strings.TrimSuffix(key, ext) + ".thumb.jpg"
}

func PublicURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + "/" + key
}

// safeName keeps letters, digits, dot, dash and underscore.
func safeName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		case unicode.IsSpace(r):
			return '_'
		}
		return -1
	}, s)
	s = strings.TrimLeft(s, ".")
	if s == "" {
		return "file"
	}
	return s
}
