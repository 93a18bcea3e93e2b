package cmd

import (
	"context"
	"fmt"
	"os"

	"improved-initiative/core/catalog"
	"improved-initiative/core/storage"
	"improved-initiative/feature/libraries"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	catalogKind  string
	catalogDir   string
	catalogPrune bool
)

// catalogCmd is the parent command for bundled catalog operations.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the bundled server catalog",
}

var catalogPushCmd = &cobra.Command{
	Use:   "push <pattern>...",
	Short: "Publish seed files to the catalog bucket",
	Long: `Reads JSON or YAML seed files matching the glob patterns (relative to
--dir) and publishes them as the catalog of one kind.

Examples:
  catalog push --kind statblocks "statblocks/**/*.yaml"
  catalog push --kind spells --prune "spells/*.json"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCatalogPush,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the published catalog of one kind",
	RunE:  runCatalogList,
}

func init() {
	for _, c := range []*cobra.Command{catalogPushCmd, catalogListCmd} {
		c.Flags().StringVar(&catalogKind, "kind", "statblocks", "Kind slug (statblocks or spells)")
	}
	catalogPushCmd.Flags().StringVar(&catalogDir, "dir", ".", "Directory the patterns are matched in")
	catalogPushCmd.Flags().BoolVar(&catalogPrune, "prune", false, "Remove published items missing from the seeds")

	catalogCmd.AddCommand(catalogPushCmd, catalogListCmd)
	RootCmd.AddCommand(catalogCmd)
}

// catalogCollection resolves --kind to a library that has a catalog.
func catalogCollection() (libraries.Collection, error) {
	coll, err := libraries.New(libraries.Deps{}).Collection(catalogKind)
	if err != nil {
		return nil, err
	}
	if !coll.Kind().HasCatalog() {
		return nil, fmt.Errorf("%s has no server catalog", catalogKind)
	}
	return coll, nil
}

func runCatalogPush(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	e, err := loadEnv()
	if err != nil {
		return err
	}
	l := e.log

	coll, err := catalogCollection()
	if err != nil {
		return err
	}
	raws, err := catalog.LoadSeeds(os.DirFS(catalogDir), args...)
	if err != nil {
		return err
	}
	entries, err := coll.CatalogEntries(raws)
	if err != nil {
		return err
	}
	l.Info("Loaded seeds", zap.String("kind", catalogKind), zap.Int("items", len(entries)))

	client, err := storage.NewClient(e.cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}
	if err := storage.EnsureBucket(ctx, client, e.cfg.Storage.Bucket, e.cfg.Storage.Region); err != nil {
		return err
	}

	if catalogPrune && !confirm("prune published items missing from the seeds") {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	res, err := catalog.NewPublisher(client, e.cfg.Storage.Bucket).Publish(ctx, coll.Kind().CatalogPath, entries, catalogPrune)
	if err != nil {
		return fmt.Errorf("failed to publish catalog: %w", err)
	}
	l.Info("Catalog published", zap.String("kind", catalogKind), zap.Int("written", res.Written), zap.Int("pruned", res.Pruned))
	return nil
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	e, err := loadEnv()
	if err != nil {
		return err
	}
	l := e.log

	coll, err := catalogCollection()
	if err != nil {
		return err
	}
	client, err := storage.NewClient(e.cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}

	metas, err := catalog.NewBucketSource(client, e.cfg.Storage.Bucket).FetchCatalog(ctx, coll.Kind().CatalogPath)
	if err != nil {
		return err
	}
	for _, g := range libraries.GroupBy(metas, "path") {
		for _, m := range g.Listings {
			l.Info("Listing", zap.String("folder", g.Key), zap.String("id", m.ID), zap.String("name", m.Name))
		}
	}
	l.Info("Catalog listed", zap.String("kind", catalogKind), zap.Int("count", len(metas)))
	return nil
}
