package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/wolfman30/inkstudio-ai/internal/app/bootstrap"
	"github.com/wolfman30/inkstudio-ai/internal/catalog"
)

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect or seed the tattoo style catalog",
	}

	var (
		seedPath string
		force    bool
	)
	seed := &cobra.Command{
		Use:   "seed",
		Short: "Write the seed catalog CSV",
		Long: `Write the seed catalog (type,price) to --path, or CATALOG_PATH when
omitted. An existing file is left alone unless --force is given.

Examples:
  studioctl catalog seed
  studioctl catalog seed --path data/tattoo_type.csv --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := seedPath
			if path == "" {
				path = a.cfg.CatalogPath
			}
			if _, _, isS3 := catalog.ParseS3URI(path); isS3 {
				return fmt.Errorf("seeding S3 catalogs is not supported: %s", path)
			}
			src := catalog.FileSource{Path: path}
			exists, err := src.Exists(cmd.Context())
			if err != nil {
				return err
			}
			if exists && !force {
				fmt.Fprintf(a.out, "Catalog already exists at %s (use --force to overwrite).\n", path)
				return nil
			}
			if err := src.Seed(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Seeded %d styles to %s\n", len(catalog.SeedEntries()), path)
			return nil
		},
	}
	seed.Flags().StringVarP(&seedPath, "path", "p", "", "catalog file (defaults to CATALOG_PATH)")
	seed.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the catalog the server would load",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *a.cfg
			cfg.CatalogSeed = false
			cat, err := bootstrap.BuildCatalog(cmd.Context(), &cfg, nil, a.logger)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			fmt.Fprintf(a.out, "Styles (%d):\n\n", cat.Len())
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			for _, e := range cat.Entries() {
				fmt.Fprintf(tw, "%s\t%s\n", catalog.DisplayName(e.Type), e.Price)
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(seed, show)
	return cmd
}
