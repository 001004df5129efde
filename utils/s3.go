// utils/s3.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var snapshotClient *s3.Client
var snapshotBucket string

// InitSnapshotStore configures the S3 client used for leaderboard exports.
// Returns false (and no error) when SNAPSHOT_BUCKET is unset, which disables
// exports entirely.
func InitSnapshotStore() (bool, error) {
	snapshotBucket = os.Getenv("SNAPSHOT_BUCKET")
	if snapshotBucket == "" {
		return false, nil
	}

	accessKeyID := os.Getenv("SNAPSHOT_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("SNAPSHOT_ACCESS_KEY_SECRET")
	region := os.Getenv("SNAPSHOT_REGION")
	if region == "" {
		region = "auto"
	}
	endpoint := os.Getenv("SNAPSHOT_ENDPOINT") // set for R2/MinIO style stores

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if accessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)))
	}
	if endpoint != "" {
		opts = append(opts, config.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{URL: endpoint}, nil
			}),
		))
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(), opts...)
	if err != nil {
		return false, fmt.Errorf("failed to load snapshot store config: %w", err)
	}

	snapshotClient = s3.NewFromConfig(cfg)
	return true, nil
}

// SnapshotEnabled reports whether InitSnapshotStore configured a client.
func SnapshotEnabled() bool {
	return snapshotClient != nil
}

// UploadSnapshot writes a JSON document to the snapshot bucket.
func UploadSnapshot(ctx context.Context, key string, body []byte) error {
	if snapshotClient == nil {
		return fmt.Errorf("snapshot store not initialized")
	}

	_, err := snapshotClient.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(snapshotBucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot %s: %w", key, err)
	}
	return nil
}
