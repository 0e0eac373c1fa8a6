package bootstrap

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/wolfman30/inkstudio-ai/internal/catalog"
	appconfig "github.com/wolfman30/inkstudio-ai/internal/config"
	"github.com/wolfman30/inkstudio-ai/pkg/logging"
)

// BuildCatalogSource resolves CATALOG_PATH to a local file or an S3 object.
func BuildCatalogSource(cfg *appconfig.Config, awsCfg *aws.Config) (catalog.Source, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	bucket, key, isS3 := parseCatalogURI(cfg.CatalogPath)
	if !isS3 {
		return catalog.FileSource{Path: cfg.CatalogPath}, nil
	}
	if awsCfg == nil {
		return nil, fmt.Errorf("bootstrap: s3 catalog requires aws config")
	}
	return catalog.S3Source{Client: newS3Client(cfg, *awsCfg), Bucket: bucket, Key: key}, nil
}

// BuildCatalog loads the tattoo catalog, seeding a missing local file when
// CATALOG_SEED is set.
func BuildCatalog(ctx context.Context, cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) (*catalog.Catalog, error) {
	source, err := BuildCatalogSource(cfg, awsCfg)
	if err != nil {
		return nil, err
	}
	return catalog.NewLoader(source, cfg.CatalogSeed, logger).Load(ctx)
}

func parseCatalogURI(path string) (bucket, key string, ok bool) {
	return catalog.ParseS3URI(path)
}
