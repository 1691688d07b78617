package blob

import (
	"context"
	"fmt"
	"strings"
)

// DefaultRoot is the filesystem driver root when none is configured.
const DefaultRoot = "./blobdata"

// Config selects and parameterizes a blob backend.
type Config struct {
	Driver string
	Root   string
	S3     S3Config
}

// Open returns the Store described by cfg. The driver defaults to fs.
func Open(ctx context.Context, cfg Config) (Store, error) {
	driver := Driver(strings.ToLower(strings.TrimSpace(cfg.Driver)))
	if driver == "" {
		driver = DriverFilesystem
	}
	switch driver {
	case DriverFilesystem:
		root := cfg.Root
		if root == "" {
			root = DefaultRoot
		}
		return NewFilesystem(root)
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
	}
}
