// Package photos archives prepared meal photos in S3-compatible storage.
package photos

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archive uploads JPEG bytes to a single bucket.
type Archive struct {
	client objectPutter
	bucket string
}

// NewArchive loads the default AWS credential chain. A non-empty endpoint
// switches to path-style addressing for MinIO and similar stores.
func NewArchive(ctx context.Context, bucket, region, endpoint string) (*Archive, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return &Archive{client: client, bucket: bucket}, nil
}

// MealKey is the object key for a meal's photo.
func MealKey(username, mealID string) string {
	return fmt.Sprintf("meals/%s/%s.jpg", username, mealID)
}

func (a *Archive) Put(ctx context.Context, key string, jpeg []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(jpeg),
		ContentType:   aws.String("image/jpeg"),
		ContentLength: aws.Int64(int64(len(jpeg))),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
