package s3

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrymomot/httpbody/core/body"
)

// S3Client defines the S3 operations used by Storage.
type S3Client interface {
	GetObject(ctx context.Context, params *s3aws.GetObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3aws.PutObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3aws.HeadObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3aws.DeleteObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3aws.HeadBucketInput, optFns ...func(*s3aws.Options)) (*s3aws.HeadBucketOutput, error)

	// Multipart operations carry uploads whose size is not known upfront.
	CreateMultipartUpload(ctx context.Context, params *s3aws.CreateMultipartUploadInput, optFns ...func(*s3aws.Options)) (*s3aws.CreateMultipartUploadOutput, error)
	UploadPart(ctx context.Context, params *s3aws.UploadPartInput, optFns ...func(*s3aws.Options)) (*s3aws.UploadPartOutput, error)
	CompleteMultipartUpload(ctx context.Context, params *s3aws.CompleteMultipartUploadInput, optFns ...func(*s3aws.Options)) (*s3aws.CompleteMultipartUploadOutput, error)
	AbortMultipartUpload(ctx context.Context, params *s3aws.AbortMultipartUploadInput, optFns ...func(*s3aws.Options)) (*s3aws.AbortMultipartUploadOutput, error)
}

// Storage streams objects in and out of a bucket as bodies.
// Safe for concurrent use.
type Storage struct {
	client         S3Client
	uploader       *manager.Uploader
	bucket         string
	region         string
	endpoint       string
	baseURL        string
	forcePathStyle bool
	uploadTimeout  time.Duration
}

// Config contains configuration for S3 storage.
type Config struct {
	Bucket         string `env:"S3_BUCKET"`
	Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	Endpoint       string `env:"S3_ENDPOINT"` // MinIO, Wasabi and other compatible services
	BaseURL        string `env:"S3_BASE_URL"` // CDN or public URL base
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`
}

// Option configures Storage.
type Option func(*options)

type options struct {
	httpClient      *http.Client
	s3Client        S3Client
	s3ConfigOptions []func(*config.LoadOptions) error
	s3ClientOptions []func(*s3aws.Options)
	uploadTimeout   time.Duration
	partSize        int64
}

// WithS3Client sets a pre-configured client, typically a mock in tests.
func WithS3Client(client S3Client) Option {
	return func(o *options) { o.s3Client = client }
}

// WithHTTPClient sets the HTTP client used for S3 requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithS3ConfigOption adds a custom AWS config option.
func WithS3ConfigOption(option func(*config.LoadOptions) error) Option {
	return func(o *options) { o.s3ConfigOptions = append(o.s3ConfigOptions, option) }
}

// WithS3ClientOption adds a custom S3 client option.
func WithS3ClientOption(option func(*s3aws.Options)) Option {
	return func(o *options) { o.s3ClientOptions = append(o.s3ClientOptions, option) }
}

// WithUploadTimeout bounds each Put. Without it only the caller's context
// deadline applies.
func WithUploadTimeout(timeout time.Duration) Option {
	return func(o *options) { o.uploadTimeout = timeout }
}

// WithUploadPartSize sets the part size for uploads of unknown length, which
// are buffered one part at a time. Values below the S3 minimum of 5 MiB are
// raised to it.
func WithUploadPartSize(size int64) Option {
	return func(o *options) { o.partSize = size }
}

// New creates a Storage. Static credentials are used when both keys are
// set; otherwise the default AWS credential chain applies.
func New(ctx context.Context, cfg Config, opts ...Option) (*Storage, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	client := o.s3Client
	if client == nil {
		awsOptions := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
			))
		}
		if o.httpClient != nil {
			awsOptions = append(awsOptions, config.WithHTTPClient(o.httpClient))
		}
		awsOptions = append(awsOptions, o.s3ConfigOptions...)

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client = s3aws.NewFromConfig(awsConfig, func(so *s3aws.Options) {
			if cfg.Endpoint != "" {
				so.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			so.UsePathStyle = cfg.ForcePathStyle
			for _, opt := range o.s3ClientOptions {
				opt(so)
			}
		})
	}

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		if o.partSize > 0 {
			u.PartSize = max(o.partSize, manager.MinUploadPartSize)
		}
	})

	return &Storage{
		client:         client,
		uploader:       uploader,
		bucket:         cfg.Bucket,
		region:         cfg.Region,
		endpoint:       cfg.Endpoint,
		baseURL:        cfg.BaseURL,
		forcePathStyle: cfg.ForcePathStyle,
		uploadTimeout:  o.uploadTimeout,
	}, nil
}

// Object is an object opened for reading.
type Object struct {
	Key         string
	ContentType string
	ETag        string
	// Size is -1 when S3 did not report a length.
	Size int64
	Body *body.Body
}

// Open starts a download and returns the object payload as a streaming
// body. The response headers are awaited so a missing object fails here,
// before anything reaches the client. The body reports the object size as
// its hint; read failures surface as source errors. Closing the body
// releases the S3 connection.
func (s *Storage) Open(ctx context.Context, key string) (*Object, error) {
	key, err := cleanKey(key)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3aws.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classifyS3Error(err, "get object")
	}

	obj := &Object{
		Key:         key,
		ContentType: aws.ToString(out.ContentType),
		ETag:        aws.ToString(out.ETag),
		Size:        -1,
	}

	opts := []body.StreamOption{
		body.WithErrorMapper(func(err error) error { return classifyS3Error(err, "read object") }),
	}
	if out.ContentLength != nil {
		obj.Size = *out.ContentLength
		opts = append(opts, body.WithSizeHint(body.Exact(uint64(obj.Size))))
	}
	if out.Body == nil {
		obj.Body = body.Empty()
		return obj, nil
	}
	obj.Body = body.FromReader(out.Body, opts...)
	return obj, nil
}

// PutResult describes a stored object.
type PutResult struct {
	Key  string
	ETag string
	Size int64
}

// Put streams b into the object at key. b is closed when Put returns.
//
// An exact size hint is sent as the Content-Length of a single PutObject.
// S3 rejects uploads without a length, so a body of unknown size goes
// through the multipart uploader instead: it is buffered one part at a time
// and sent as a plain PutObject when it fits in the first part.
func (s *Storage) Put(ctx context.Context, key string, b *body.Body, contentType string) (*PutResult, error) {
	defer b.Close()

	key, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	cr := &countingReader{r: b.ByteStream().Reader(ctx)}
	in := &s3aws.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        cr,
		ContentType: aws.String(contentType),
	}

	n, sized := b.SizeHint().Exact()
	if !sized {
		out, err := s.uploader.Upload(ctx, in)
		if err != nil {
			return nil, classifyS3Error(err, "upload object")
		}
		return &PutResult{Key: key, ETag: aws.ToString(out.ETag), Size: cr.n}, nil
	}

	in.ContentLength = aws.Int64(int64(n))
	out, err := s.client.PutObject(ctx, in)
	if err != nil {
		return nil, classifyS3Error(err, "put object")
	}
	return &PutResult{Key: key, ETag: aws.ToString(out.ETag), Size: cr.n}, nil
}

// Delete removes the object at key.
func (s *Storage) Delete(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3aws.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return classifyS3Error(err, "delete object")
}

// Exists reports whether an object exists at key.
func (s *Storage) Exists(ctx context.Context, key string) bool {
	key, err := cleanKey(key)
	if err != nil {
		return false
	}
	_, err = s.client.HeadObject(ctx, &s3aws.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err == nil
}

// Ping checks that the bucket is reachable with the configured credentials.
func (s *Storage) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3aws.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return classifyS3Error(err, "head bucket")
}

// URL returns the public URL for key: the base URL when configured, the
// custom endpoint otherwise, and the AWS regional endpoint as fallback.
func (s *Storage) URL(key string) string {
	key = strings.TrimPrefix(key, "/")

	if s.baseURL != "" {
		return strings.TrimSuffix(s.baseURL, "/") + "/" + key
	}

	if s.endpoint != "" {
		endpoint := strings.TrimSuffix(s.endpoint, "/")
		scheme := "https://"
		if after, ok := strings.CutPrefix(endpoint, "http://"); ok {
			scheme, endpoint = "http://", after
		} else if after, ok := strings.CutPrefix(endpoint, "https://"); ok {
			endpoint = after
		}
		if s.forcePathStyle {
			return fmt.Sprintf("%s%s/%s/%s", scheme, endpoint, s.bucket, key)
		}
		return fmt.Sprintf("%s%s.%s/%s", scheme, s.bucket, endpoint, key)
	}

	if s.forcePathStyle {
		return fmt.Sprintf("https://s3.%s.amazonaws.com/%s/%s", s.region, s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return key, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
