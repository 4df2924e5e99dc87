// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package bucket

import (
	"context"
	"errors"
	"os/exec"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/dustin/go-humanize"

	"github.com/tfboot/tfboot/internal/log"
)

// deleteBatchMax is the S3 DeleteObjects limit per request.
const deleteBatchMax = 1000

// ObjectAPI is the slice of the S3 client the manager needs. It satisfies
// s3.ListObjectVersionsAPIClient so the SDK paginator can drive it.
type ObjectAPI interface {
	ListObjectVersions(ctx context.Context, params *s3v2.ListObjectVersionsInput, optFns ...func(*s3v2.Options)) (*s3v2.ListObjectVersionsOutput, error)
	DeleteObjects(ctx context.Context, params *s3v2.DeleteObjectsInput, optFns ...func(*s3v2.Options)) (*s3v2.DeleteObjectsOutput, error)
	DeleteBucket(ctx context.Context, params *s3v2.DeleteBucketInput, optFns ...func(*s3v2.Options)) (*s3v2.DeleteBucketOutput, error)
}

// Manager empties and deletes the bootstrap state bucket. Both operations are
// best-effort cleanup, not a transactional guarantee.
type Manager struct {
	api    ObjectAPI
	region string

	// fastPath runs the shell-level recursive delete before the API-level
	// versioned sweep. Swappable for tests.
	fastPath func(ctx context.Context, bucket, region string)
}

// Option customizes a Manager.
type Option func(*Manager)

// WithFastPath replaces the shell-level delete used before the API sweep.
func WithFastPath(f func(ctx context.Context, bucket, region string)) Option {
	return func(m *Manager) { m.fastPath = f }
}

// New returns a Manager for the given region.
func New(api ObjectAPI, region string, opts ...Option) *Manager {
	m := &Manager{api: api, region: region, fastPath: cliRemoveAll}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Empty removes every object, object version and delete marker from the
// bucket. A failure to list versions is treated as "already empty or gone".
// An empty bucket name is a logged no-op.
func (m *Manager) Empty(ctx context.Context, bucket string) {
	if bucket == "" {
		log.Infof("No bucket name provided; skipping bucket empty")
		return
	}

	log.Infof("Emptying S3 bucket %s in region %s", bucket, m.region)

	// Fast path first. It is redundant with the versioned sweep below, which
	// is the authoritative one, so its failures are suppressed.
	m.fastPath(ctx, bucket, m.region)

	var deleted int64
	paginator := s3v2.NewListObjectVersionsPaginator(m.api, &s3v2.ListObjectVersionsInput{
		Bucket: awsv2.String(bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			log.Infof("list-object-versions failed or no versions; continuing: %v", err)
			break
		}

		objects := make([]s3types.ObjectIdentifier, 0, len(page.Versions)+len(page.DeleteMarkers))
		for _, v := range page.Versions {
			objects = append(objects, s3types.ObjectIdentifier{Key: v.Key, VersionId: v.VersionId})
		}
		for _, d := range page.DeleteMarkers {
			objects = append(objects, s3types.ObjectIdentifier{Key: d.Key, VersionId: d.VersionId})
		}

		for start := 0; start < len(objects); start += deleteBatchMax {
			end := min(start+deleteBatchMax, len(objects))
			chunk := objects[start:end]
			if _, err := m.api.DeleteObjects(ctx, &s3v2.DeleteObjectsInput{
				Bucket: awsv2.String(bucket),
				Delete: &s3types.Delete{Objects: chunk, Quiet: awsv2.Bool(false)},
			}); err != nil {
				log.Errorf("delete-objects failed for %s: %v", bucket, err)
				break
			}
			deleted += int64(len(chunk))
		}
	}

	log.Infof("Emptied S3 bucket %s (%s object versions removed)", bucket, humanize.Comma(deleted))
}

// Delete removes the bucket itself. The caller must have emptied it first;
// deleting a non-empty bucket fails on the service side and is reported as
// needing manual cleanup. The returned error is informational only.
func (m *Manager) Delete(ctx context.Context, bucket string) error {
	log.Infof("Deleting S3 bucket %s", bucket)
	if _, err := m.api.DeleteBucket(ctx, &s3v2.DeleteBucketInput{Bucket: awsv2.String(bucket)}); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			log.Errorf("Failed to delete S3 bucket %s (%s). Please delete it manually if it still exists.", bucket, apiErr.ErrorCode())
		} else {
			log.Errorf("Failed to delete S3 bucket %s. Please delete it manually if it still exists.", bucket)
		}
		return err
	}
	log.Infof("Deleted S3 bucket %s", bucket)
	return nil
}

// cliRemoveAll shells out to the AWS CLI for a recursive delete. Fire and
// forget: the versioned sweep that follows guarantees complete removal, so
// any failure here (including a missing aws binary) is only a debug note.
func cliRemoveAll(ctx context.Context, bucket, region string) {
	if _, err := exec.LookPath("aws"); err != nil {
		log.Debugf("aws cli not found; skipping fast path")
		return
	}
	cmd := exec.CommandContext(ctx, "aws", "s3", "rm", "s3://"+bucket, "--recursive", "--region", region)
	log.Infof("CMD: %s", cmd.String())
	if err := cmd.Run(); err != nil {
		log.Debugf("fast path rm failed: err=%v", err)
	}
}
