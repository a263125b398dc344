package blob

import (
	"context"
	"fmt"

	"github.com/brokerbase/polisdesk/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Provide selects the blob driver from configuration.
func Provide(cfg config.Config, log *zap.Logger) (Store, error) {
	switch cfg.BlobDriver {
	case "memory":
		return NewMemoryStore(), nil
	case "s3":
		store, err := NewS3Store(context.Background(), S3Config{
			Region:        cfg.BlobS3Region,
			Bucket:        cfg.BlobS3Bucket,
			Endpoint:      cfg.BlobS3Endpoint,
			PathStyle:     cfg.BlobS3PathStyle,
			PublicBaseURL: cfg.BlobPublicBaseURL,
		})
		if err != nil {
			return nil, err
		}
		log.Info("blob store ready",
			zap.String("driver", "s3"),
			zap.String("bucket", cfg.BlobS3Bucket),
		)
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported blob driver %q", cfg.BlobDriver)
	}
}

var Module = fx.Module("blob",
	fx.Provide(Provide),
)
