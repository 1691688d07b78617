package blob

import (
	"context"

	infraS3 "recipebook/internal/infra/blob/s3"
)

// S3Config re-exports the S3 backend configuration.
type S3Config = infraS3.Config

// NewS3 constructs an S3-backed Store from cfg.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) {
	store, err := infraS3.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewMockS3ForTests returns an S3 Store served by an in-process fake bucket.
func NewMockS3ForTests() Store { return infraS3.NewMockForTests(0) }
