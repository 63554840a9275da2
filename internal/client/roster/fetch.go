package roster

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/teamdeck/internal/netx"
)

// DefaultMaxImageBytes caps a single image download.
const DefaultMaxImageBytes = 8 << 20

var ErrUnsupportedScheme = errors.New("unsupported image source scheme")

// Fetcher retrieves the raw bytes of an image source.
type Fetcher interface {
	Fetch(ctx context.Context, src string) ([]byte, error)
}

type FetcherFunc func(ctx context.Context, src string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, src string) ([]byte, error) { return f(ctx, src) }

// HTTPFetcher downloads http(s) sources.
type HTTPFetcher struct {
	Client   *http.Client
	MaxBytes int64
}

func (f HTTPFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	return netx.Download(ctx, f.Client, src, maxBytes(f.MaxBytes))
}

// FileFetcher reads file:// URLs and bare paths.
type FileFetcher struct {
	MaxBytes int64
}

func (f FileFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	path := src
	if u, err := url.Parse(src); err == nil && u.Scheme == "file" {
		path = u.Path
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return netx.ReadAll(file, maxBytes(f.MaxBytes))
}

// S3API is the subset of the S3 client used by S3Fetcher.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Fetcher reads s3://bucket/key sources.
type S3Fetcher struct {
	Client   S3API
	MaxBytes int64
}

type S3Config struct {
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// NewS3Fetcher builds an S3 client from cfg. Static credentials are used
// when an access key is set; otherwise the default AWS credential chain
// applies. A base endpoint switches to path-style addressing for
// S3-compatible stores.
func NewS3Fetcher(ctx context.Context, cfg S3Config) (*S3Fetcher, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Fetcher{Client: client}, nil
}

func (f *S3Fetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	bucket, key, err := parseS3URL(src)
	if err != nil {
		return nil, err
	}

	out, err := f.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3 object %s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	return netx.ReadAll(out.Body, maxBytes(f.MaxBytes))
}

func parseS3URL(src string) (bucket, key string, err error) {
	u, err := url.Parse(src)
	if err != nil {
		return "", "", err
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Scheme != "s3" || u.Host == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 url %q", src)
	}
	return u.Host, key, nil
}

// SchemeFetcher dispatches on the source's URL scheme. Sources without a
// scheme are treated as file paths.
type SchemeFetcher map[string]Fetcher

// DefaultFetchers handles http, https and file sources.
func DefaultFetchers(client *http.Client) SchemeFetcher {
	web := HTTPFetcher{Client: client}
	return SchemeFetcher{
		"http":  web,
		"https": web,
		"file":  FileFetcher{},
	}
}

func (f SchemeFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	scheme := "file"
	if u, err := url.Parse(src); err == nil && u.Scheme != "" {
		scheme = strings.ToLower(u.Scheme)
	}

	fetcher, ok := f[scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
	return fetcher.Fetch(ctx, src)
}

func maxBytes(n int64) int64 {
	if n == 0 {
		return DefaultMaxImageBytes
	}
	return n
}
