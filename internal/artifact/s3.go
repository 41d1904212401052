package artifact

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/vigila-io/vigilfetch/internal/utils"
)

// S3Sink exports artifacts to an S3 bucket, for dashboards that archive
// pulled footage off-box.
type S3Sink struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
	log      zerolog.Logger
}

func NewS3Sink(ctx context.Context, bucket, prefix string) (*S3Sink, error) {
	profile := os.Getenv("AWS_PROFILE")
	if profile == "" {
		profile = "default"
	}
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithSharedConfigProfile(profile),
		config.WithRetryMode("adaptive"),
	)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %v", err)
	}
	uploader := manager.NewUploader(s3.NewFromConfig(cfg), func(u *manager.Uploader) {
		u.PartSize = 2 * utils.DefaultBufferSize
		u.Concurrency = 4
	})
	return &S3Sink{
		uploader: uploader,
		bucket:   bucket,
		prefix:   prefix,
		log:      utils.GetLogger("artifact"),
	}, nil
}

func (s *S3Sink) Store(ctx context.Context, name string, data []byte) (string, error) {
	if name == "" {
		return "", fmt.Errorf("artifact name is empty")
	}
	key := name
	if s.prefix != "" {
		key = path.Join(s.prefix, name)
	}
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/zip"),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading to S3: %v", err)
	}
	location := fmt.Sprintf("s3://%s/%s", s.bucket, key)
	s.log.Debug().Str("location", location).Int("bytes", len(data)).Msg("Artifact exported")
	return location, nil
}

// ParseS3Target splits "bucket" or "bucket/some/prefix", with an optional
// s3:// scheme, into bucket and key prefix.
func ParseS3Target(target string) (string, string, error) {
	target = strings.TrimPrefix(target, "s3://")
	parts := strings.SplitN(target, "/", 2)
	if len(parts) < 1 || parts[0] == "" {
		return "", "", fmt.Errorf("invalid S3 target format")
	}
	if len(parts) == 1 {
		return parts[0], "", nil
	}
	return parts[0], strings.Trim(parts[1], "/"), nil
}
