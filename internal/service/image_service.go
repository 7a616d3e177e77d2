package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_market/internal/config"
	"github.com/GTDGit/gtd_market/internal/utils"
)

// MaxProductImageSize is the upload limit for product images.
const MaxProductImageSize = 5 << 20

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ObjectPutter is the subset of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImageService uploads product images and returns their public URL.
type ImageService struct {
	client        ObjectPutter
	bucket        string
	region        string
	publicBaseURL string
}

// NewImageService builds an S3-backed ImageService. It returns (nil, nil)
// when uploads are not configured.
func NewImageService(cfg *config.S3Config) (*ImageService, error) {
	if cfg == nil || !cfg.Enabled() {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewImageServiceWithClient(client, cfg.Bucket, cfg.Region, cfg.PublicBaseURL), nil
}

// NewImageServiceWithClient creates an ImageService around an existing client.
func NewImageServiceWithClient(client ObjectPutter, bucket, region, publicBaseURL string) *ImageService {
	return &ImageService{
		client:        client,
		bucket:        bucket,
		region:        region,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

// UploadProductImage stores data under products/<shopID>/<uuid><ext>.
func (s *ImageService) UploadProductImage(ctx context.Context, shopID string, data []byte, contentType string) (string, error) {
	if s == nil {
		return "", utils.ErrImageStorageOff
	}
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported image type %q", contentType)
	}
	if len(data) == 0 {
		return "", errors.New("image is empty")
	}
	if len(data) > MaxProductImageSize {
		return "", fmt.Errorf("image exceeds %d bytes", MaxProductImageSize)
	}

	key := ProductImageKey(shopID, uuid.New().String(), ext)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to upload product image")
		return "", fmt.Errorf("failed to upload: %w", err)
	}

	log.Info().Str("key", key).Msg("Product image uploaded")
	return s.ObjectURL(key), nil
}

// ObjectURL returns the public URL of key.
func (s *ImageService) ObjectURL(key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// ProductImageKey builds the object key for a product image. Characters
// outside [A-Za-z0-9_-] are dropped from shopID.
func ProductImageKey(shopID, name, ext string) string {
	shopID = unsafeKeyChars.ReplaceAllString(shopID, "")
	if shopID == "" {
		shopID = "unassigned"
	}
	return path.Join("products", shopID, name+ext)
}
