package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"tracemap/internal/config"
	"tracemap/internal/models"
)

const presignTTL = 15 * time.Minute

// allowed image content types for trace attachments
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Presigner issues time-limited upload URLs for an object storage bucket.
type Presigner interface {
	PresignPutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*V4PresignedRequest, error)
}

// V4PresignedRequest mirrors the fields we need from the SDK's presigned
// request so tests can stub the presigner without an S3 endpoint.
type V4PresignedRequest struct {
	URL string
}

type sdkPresigner struct {
	client *s3.PresignClient
}

func (p *sdkPresigner) PresignPutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*V4PresignedRequest, error) {
	req, err := p.client.PresignPutObject(ctx, in, optFns...)
	if err != nil {
		return nil, err
	}
	return &V4PresignedRequest{URL: req.URL}, nil
}

// UploadService hands out presigned PUT URLs so clients upload images
// directly to the bucket instead of through the API.
type UploadService struct {
	presigner Presigner
	bucket    string
	publicURL string
}

type PresignUploadInput struct {
	UserID      string
	ContentType string
}

type PresignedUpload struct {
	UploadURL string    `json:"upload_url"`
	PublicURL string    `json:"public_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewUploadService builds the S3 presign client from config. R2 and MinIO
// endpoints work through BaseEndpoint. Returns nil when no bucket is
// configured, which disables the upload endpoint.
func NewUploadService(cfg *config.Config) (*UploadService, error) {
	if cfg.UploadBucket == "" {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.UploadRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.UploadAccessKey,
			cfg.UploadSecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("loading object storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.UploadEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.UploadEndpoint)
		}
	})

	return &UploadService{
		presigner: &sdkPresigner{client: s3.NewPresignClient(client)},
		bucket:    cfg.UploadBucket,
		publicURL: strings.TrimRight(cfg.UploadPublicURL, "/"),
	}, nil
}

// NewUploadServiceWithPresigner wires a custom presigner, used by tests.
func NewUploadServiceWithPresigner(p Presigner, bucket, publicURL string) *UploadService {
	return &UploadService{presigner: p, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

// PresignUpload validates the content type and returns a PUT URL the client
// can upload to, plus the public URL the stored object will be served from.
func (s *UploadService) PresignUpload(ctx context.Context, in PresignUploadInput) (*PresignedUpload, error) {
	ext, ok := allowedImageTypes[in.ContentType]
	if !ok {
		return nil, models.NewValidationError("Unsupported content type (jpeg, png, webp or gif)")
	}

	key := path.Join("traces", in.UserID, uuid.NewString()+ext)

	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(in.ContentType),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return nil, models.NewStoreUnavailableError(err)
	}

	return &PresignedUpload{
		UploadURL: req.URL,
		PublicURL: s.publicURL + "/" + key,
		Key:       key,
		ExpiresAt: time.Now().Add(presignTTL),
	}, nil
}
