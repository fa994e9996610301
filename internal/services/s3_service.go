package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go/logging"
	"github.com/catalogbench/backend/internal/config"
)

var ErrArchiveDisabled = errors.New("report archive not configured")

const reportPrefix = "reports/"

type ArchivedReport struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// S3Service stores benchmark reports in an S3 compatible bucket.
type S3Service struct {
	client *s3.Client
	bucket string
	ttl    time.Duration
}

// NewS3Service returns nil without error when no bucket is configured.
func NewS3Service(cfg *config.Config, log *slog.Logger) (*S3Service, error) {
	if cfg.ReportBucket == "" {
		log.Info("Report archive disabled, REPORT_S3_BUCKET not set")
		return nil, nil
	}
	client, err := buildClient(cfg.ReportS3Endpoint, cfg.ReportS3Region, cfg.ReportS3AccessKeyID, cfg.ReportS3SecretAccessKey, cfg.ReportS3UsePathStyle)
	if err != nil {
		return nil, err
	}
	log.Info("Report archive enabled", "bucket", cfg.ReportBucket, "endpoint", cfg.ReportS3Endpoint)
	return &S3Service{client: client, bucket: cfg.ReportBucket, ttl: cfg.ReportURLTTL}, nil
}

func buildClient(endpoint, region, key, secret string, pathStyle bool) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
		awsconfig.WithLogger(logging.Nop{}),
	}
	// fall back to the default credential chain when no static key is given
	if key != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(), opts...)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = pathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return client, nil
}

// UploadReport stores data under reports/<name> and returns the object key.
func (s *S3Service) UploadReport(ctx context.Context, name string, data []byte, ctype string) (string, error) {
	if s == nil {
		return "", ErrArchiveDisabled
	}
	key := reportPrefix + name
	uploader := manager.NewUploader(s.client)
	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(ctype),
		ACL:         s3types.ObjectCannedACLPrivate,
	}, func(u *manager.Uploader) { u.PartSize = 10 * 1024 * 1024 })
	if err != nil {
		return "", err
	}
	return key, nil
}

// PresignReport returns a time limited download URL for key.
func (s *S3Service) PresignReport(ctx context.Context, key string) (string, error) {
	if s == nil {
		return "", ErrArchiveDisabled
	}
	presigner := s3.NewPresignClient(s.client)
	out, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", err
	}
	return out.URL, nil
}

// ListReports lists archived reports, newest keys last.
func (s *S3Service) ListReports(ctx context.Context, max int32) ([]ArchivedReport, error) {
	if s == nil {
		return nil, ErrArchiveDisabled
	}
	reports := []ArchivedReport{}
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(reportPrefix),
			ContinuationToken: token,
			MaxKeys:           aws.Int32(max),
		})
		if err != nil {
			return nil, err
		}
		for _, o := range out.Contents {
			reports = append(reports, ArchivedReport{
				Key:          aws.ToString(o.Key),
				Size:         aws.ToInt64(o.Size),
				LastModified: aws.ToTime(o.LastModified),
			})
		}
		if aws.ToBool(out.IsTruncated) && out.NextContinuationToken != nil {
			token = out.NextContinuationToken
			continue
		}
		break
	}
	return reports, nil
}
