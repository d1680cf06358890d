package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"studio/internal/logutil"
	"studio/internal/models"
)

// objectUploader is the subset of manager.Uploader the S3 host needs.
type objectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Host stores images in a bucket whose objects are publicly readable,
// either directly or through a CDN in front of it.
type S3Host struct {
	bucket    string
	prefix    string
	publicURL string
	uploader  objectUploader
}

// NewS3Host loads AWS credentials from the environment (AWS_REGION,
// AWS_PROFILE, AWS_ACCESS_KEY_ID...) and builds an uploader for bucket.
func NewS3Host(ctx context.Context, bucket, prefix, publicURL string) (*S3Host, error) {
	if bucket == "" {
		return nil, MissingConfigError{Provider: "s3", Variables: []string{"IMAGE_S3_BUCKET"}}
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, cfg.Region)
	}
	return newS3Host(bucket, prefix, publicURL, manager.NewUploader(client)), nil
}

func newS3Host(bucket, prefix, publicURL string, uploader objectUploader) *S3Host {
	return &S3Host{
		bucket:    bucket,
		prefix:    strings.Trim(prefix, "/"),
		publicURL: strings.TrimSuffix(publicURL, "/"),
		uploader:  uploader,
	}
}

func (h *S3Host) Upload(ctx context.Context, payload string) (models.HostedImage, error) {
	data, err := base64.StdEncoding.DecodeString(StripDataURL(payload))
	if err != nil {
		logutil.Errorf("image payload is not base64: %v", err)
		return models.HostedImage{}, uploadError("decode payload: %v", err)
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		logutil.Errorf("image payload has unsupported content type %s", contentType)
		return models.HostedImage{}, uploadError("unsupported content type %s", contentType)
	}

	key := path.Join(h.prefix, uuid.NewString()+ext)
	_, err = h.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(h.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		logutil.Errorf("s3 upload of %s failed: %v", key, err)
		return models.HostedImage{}, uploadError("s3 upload: %v", err)
	}

	hosted := h.publicURL + "/" + key
	logutil.Debugf("image hosted at %s", hosted)
	return models.HostedImage{URL: hosted}, nil
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}
