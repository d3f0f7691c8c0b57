package sink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/file-or-pattern/fop/fop"
)

// S3Config configures S3Sink, mirroring the teacher's lode.S3Config
// shape (region, custom endpoint, and path-style addressing for
// S3-compatible providers like Cloudflare R2 or MinIO).
type S3Config struct {
	Bucket   string
	Prefix   string
	Region   string
	Endpoint string
	// UsePathStyle forces path-style addressing; required by most
	// S3-compatible providers that aren't AWS itself.
	UsePathStyle bool
}

// Validate checks that required S3 configuration is present.
func (c S3Config) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("sink: s3 sink requires a bucket")
	}
	return nil
}

// ParseS3Path parses a "bucket/prefix" or bare "bucket" path, the same
// convention the teacher's CLI accepts for --storage-path.
func ParseS3Path(path string) (bucket, prefix string) {
	parts := strings.SplitN(path, "/", 2)
	bucket = parts[0]
	if len(parts) > 1 {
		prefix = parts[1]
	}
	return bucket, prefix
}

// S3Sink persists each Fop's content as an object under cfg.Bucket,
// keyed by cfg.Prefix joined with the Fop's sanitized identity.
type S3Sink struct {
	cfg    S3Config
	client *s3.Client
}

// NewS3Sink loads AWS credentials from the default chain (env vars,
// shared config, IAM role) and constructs an S3Sink.
func NewS3Sink(ctx context.Context, cfg S3Config) (*S3Sink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sink: load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) { o.BaseEndpoint = &endpoint })
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) { o.UsePathStyle = true })
	}

	return &S3Sink{cfg: cfg, client: s3.NewFromConfig(awsCfg, s3Opts...)}, nil
}

// Put implements Sink.
func (s *S3Sink) Put(ctx context.Context, f fop.Fop) error {
	data, err := contentBytes(f)
	if err != nil {
		return err
	}

	key := keyFor(f)
	if s.cfg.Prefix != "" {
		key = strings.TrimSuffix(s.cfg.Prefix, "/") + "/" + key
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.cfg.Bucket,
		Key:    &key,
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("sink: put object %q: %w", key, err)
	}
	return nil
}

// Close implements Sink. The AWS SDK's http.Client manages its own
// connection pool; nothing to release here.
func (s *S3Sink) Close() error { return nil }

var _ Sink = (*S3Sink)(nil)
