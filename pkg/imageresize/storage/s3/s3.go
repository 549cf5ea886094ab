package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/tendant/simple-resize/pkg/imageresize"
	"github.com/tendant/simple-resize/pkg/imageresize/urlstrategy"
)

// Config options for the S3 backend
type Config struct {
	Region          string // AWS region
	Bucket          string // S3 bucket name
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UseSSL          bool   // Scheme of public URLs when Endpoint has none
	UsePathStyle    bool   // Use path-style addressing (default: false)
	PathPrefix      string // Prefix applied to every object key
	CustomDomain    string // Optional public domain (CDN) for object URLs
	DisableACL      bool   // Do not send a public-read ACL on upload

	// Server-side encryption options
	EnableSSE    bool   // Enable server-side encryption
	SSEAlgorithm string // SSE algorithm (AES256 or aws:kms)
	SSEKMSKeyID  string // Optional KMS key ID for aws:kms algorithm

	// MinIO/S3-compatible service options
	CreateBucketIfNotExist bool // Create bucket if it doesn't exist
}

// Backend is an S3-compatible implementation of the imageresize.Backend interface
type Backend struct {
	client   *s3.Client
	bucket   string
	endpoint *url.URL
	config   Config
}

// New creates a new S3-compatible storage backend
func New(config Config) (*Backend, error) {
	if config.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}

	if config.Region == "" {
		config.Region = "us-east-1"
	}

	endpoint, err := publicEndpoint(config)
	if err != nil {
		return nil, err
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	loadOpts = append(loadOpts, awsconfig.WithRegion(config.Region))
	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			config.AccessKeyID,
			config.SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Custom endpoint for S3-compatible services (MinIO, etc.)
	var s3Options []func(*s3.Options)
	if config.Endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint.String())
			o.UsePathStyle = config.UsePathStyle
		})
	}

	backend := &Backend{
		client:   s3.NewFromConfig(awsCfg, s3Options...),
		bucket:   config.Bucket,
		endpoint: endpoint,
		config:   config,
	}

	if config.CreateBucketIfNotExist {
		if err := backend.createBucketIfNotExists(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return backend, nil
}

// publicEndpoint returns the endpoint used for URL construction. A custom
// endpoint without a scheme gets one from UseSSL.
func publicEndpoint(config Config) (*url.URL, error) {
	raw := config.Endpoint
	if raw == "" {
		raw = fmt.Sprintf("https://s3.%s.amazonaws.com", config.Region)
	} else if !strings.Contains(raw, "://") {
		scheme := "http"
		if config.UseSSL {
			scheme = "https"
		}
		raw = scheme + "://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", config.Endpoint, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q: missing host", config.Endpoint)
	}
	return u, nil
}

// createBucketIfNotExists creates the bucket if it doesn't exist
func (b *Backend) createBucketIfNotExists(ctx context.Context) error {
	_, err := b.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(b.bucket),
	})
	if err == nil {
		return nil
	}

	var noSuchBucket *types.NoSuchBucket
	if !isNotFound(err) && !errors.As(err, &noSuchBucket) &&
		!strings.Contains(err.Error(), "BadRequest") {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	createInput := &s3.CreateBucketInput{
		Bucket: aws.String(b.bucket),
	}
	if b.config.Region != "us-east-1" {
		createInput.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(b.config.Region),
		}
	}

	_, err = b.client.CreateBucket(ctx, createInput)
	if err != nil {
		if strings.Contains(err.Error(), "BucketAlreadyExists") ||
			strings.Contains(err.Error(), "BucketAlreadyOwnedByYou") {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	return nil
}

// Kind tags the backend for URL construction
func (b *Backend) Kind() urlstrategy.Kind {
	return urlstrategy.KindObjectStore
}

// Bucket returns the bucket name
func (b *Backend) Bucket() string {
	return b.bucket
}

// Endpoint returns the endpoint public URLs are built from
func (b *Backend) Endpoint() *url.URL {
	return b.endpoint
}

// PathPrefix returns the prefix applied to object keys
func (b *Backend) PathPrefix() string {
	return b.config.PathPrefix
}

// CustomDomain returns the configured public domain, if any
func (b *Backend) CustomDomain() string {
	return b.config.CustomDomain
}

func (b *Backend) key(objectKey string) string {
	return objectKeyWithPrefix(b.config.PathPrefix, objectKey)
}

func objectKeyWithPrefix(prefix, objectKey string) string {
	return strings.TrimLeft(prefix+objectKey, "/")
}

// isNotFound reports whether err is a missing-object response. S3-compatible
// services differ in which typed error they return.
func isNotFound(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "404":
			return true
		}
	}
	return false
}

// GetObjectMeta retrieves metadata for an object in S3
func (b *Backend) GetObjectMeta(ctx context.Context, objectKey string) (*imageresize.ObjectMeta, error) {
	result, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(objectKey)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, &imageresize.StorageError{Backend: "s3", Key: objectKey, Op: "meta", Err: imageresize.ErrObjectNotFound}
		}
		return nil, &imageresize.StorageError{Backend: "s3", Key: objectKey, Op: "meta", Err: err}
	}

	meta := &imageresize.ObjectMeta{
		Key:         objectKey,
		ContentType: aws.ToString(result.ContentType),
		Size:        aws.ToInt64(result.ContentLength),
	}
	if result.LastModified != nil {
		meta.Timestamp = *result.LastModified
	}
	return meta, nil
}

// Exists reports whether an object is present
func (b *Backend) Exists(ctx context.Context, objectKey string) (bool, error) {
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(objectKey)),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, &imageresize.StorageError{Backend: "s3", Key: objectKey, Op: "exists", Err: err}
	}
	return true, nil
}

// UploadWithParams uploads content with visibility and response headers
func (b *Backend) UploadWithParams(ctx context.Context, reader io.Reader, params imageresize.UploadParams) error {
	uploader := manager.NewUploader(b.client)

	input := &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(params.ObjectKey)),
		Body:   reader,
	}
	if params.MimeType != "" {
		input.ContentType = aws.String(params.MimeType)
	}
	if params.CacheControl != "" {
		input.CacheControl = aws.String(params.CacheControl)
	}
	if !params.Expires.IsZero() {
		input.Expires = aws.Time(params.Expires)
	}
	if params.ContentDisposition != "" {
		input.ContentDisposition = aws.String(params.ContentDisposition)
	}
	if params.Public && !b.config.DisableACL {
		input.ACL = types.ObjectCannedACLPublicRead
	}

	// Add server-side encryption if enabled
	if b.config.EnableSSE {
		switch b.config.SSEAlgorithm {
		case "AES256":
			input.ServerSideEncryption = types.ServerSideEncryptionAes256
		case "aws:kms":
			input.ServerSideEncryption = types.ServerSideEncryptionAwsKms
			if b.config.SSEKMSKeyID != "" {
				input.SSEKMSKeyId = aws.String(b.config.SSEKMSKeyID)
			}
		}
	}

	if _, err := uploader.Upload(ctx, input); err != nil {
		return &imageresize.StorageError{Backend: "s3", Key: params.ObjectKey, Op: "upload", Err: err}
	}
	return nil
}

// Download downloads content directly from S3
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	result, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(objectKey)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, &imageresize.StorageError{Backend: "s3", Key: objectKey, Op: "download", Err: imageresize.ErrObjectNotFound}
		}
		return nil, &imageresize.StorageError{Backend: "s3", Key: objectKey, Op: "download", Err: err}
	}

	return result.Body, nil
}

// Delete deletes content from S3
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(objectKey)),
	})
	if err != nil {
		return &imageresize.StorageError{Backend: "s3", Key: objectKey, Op: "delete", Err: err}
	}
	return nil
}
