package objectstore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"booking-attribution-service/internal/bookings/core/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// API is the subset of the S3 client the source needs.
type API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Source lists and reads webhook records stored one JSON document per key.
type Source struct {
	client API
	bucket string
	prefix string
	log    *zap.Logger
}

var _ ports.EventSourcePort = (*Source)(nil)

func NewSource(client API, bucket, prefix string, log *zap.Logger) *Source {
	if log == nil {
		log = zap.NewNop()
	}
	return &Source{client: client, bucket: bucket, prefix: prefix, log: log}
}

// ListKeys walks every page under the prefix. Keys that are not .json
// documents are skipped. A page failure returns the keys gathered so far.
func (s *Source) ListKeys(ctx context.Context) ([]string, error) {
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	var keys []string
	pages := 0
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return keys, fmt.Errorf("list s3://%s/%s page %d: %w", s.bucket, s.prefix, pages+1, err)
		}
		pages++
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(strings.ToLower(key), ".json") {
				continue
			}
			keys = append(keys, key)
		}
	}

	s.log.Debug("s3 listing done", zap.String("bucket", s.bucket), zap.Int("pages", pages), zap.Int("keys", len(keys)))
	return keys, nil
}

func (s *Source) FetchObject(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", s.bucket, key, err)
	}
	return body, nil
}
