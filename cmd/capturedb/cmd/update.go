package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nxshot/capturedb/internal/persistence"
	"github.com/nxshot/capturedb/internal/sources"
	"github.com/nxshot/capturedb/internal/sources/registry"
	"github.com/nxshot/capturedb/pkg/captureid"
	"github.com/nxshot/capturedb/pkg/errors"
	"github.com/nxshot/capturedb/pkg/logging"
	"github.com/nxshot/capturedb/pkg/reconcile"
)

var (
	updateSource string
	updateDryRun bool
	keepExisting bool
	outputDir    string
	sourcesFile  string
)

// updateCmd fetches the catalogs and regenerates the mapping artifacts.
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch catalogs and regenerate the capture ID mapping",
	Long: `Update fetches game data from the configured catalog sources, derives
capture IDs from title IDs, and merges the results into the mapping
artifact.

Source order matters: later sources override earlier ones for duplicate
capture IDs. titledb has the most complete and accurate names, so it is
fetched last by default. The order can be overridden with a sources file.`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateSource, "source", "all", "single source to fetch (switchbrew, nswdb, titledb) or all")
	updateCmd.Flags().BoolVar(&updateDryRun, "dry-run", false, "don't write output files, just show stats")
	updateCmd.Flags().BoolVar(&keepExisting, "keep-existing", false, "merge into the existing mapping instead of replacing it")
	updateCmd.Flags().StringVarP(&outputDir, "output", "o", "public/data", "directory for the mapping artifacts")
	updateCmd.Flags().StringVar(&sourcesFile, "sources-file", "", "YAML file overriding the source precedence order")

	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logging.Default()
	ctx = logging.WithLogger(ctx, log)

	// Validate the key before any network activity. A bad key is fatal;
	// there is no point fetching seventy megabytes to encrypt garbage.
	key, err := captureid.ParseKey(viper.GetString("capture_id_key"), captureid.ExpectedKeyDigest)
	if err != nil {
		return err
	}

	order, err := sources.LoadOrder(sourcesFile)
	if err != nil {
		return err
	}
	order, err = selectSources(order, updateSource)
	if err != nil {
		return err
	}

	srcs, err := registry.Build(order)
	if err != nil {
		return err
	}

	store := persistence.NewStore(outputDir)

	opts := []reconcile.Option{}
	if keepExisting {
		existing, err := store.LoadMapping()
		if err != nil {
			return err
		}
		log.Info().Int("count", len(existing)).Msg("Loaded existing capture IDs")
		opts = append(opts, reconcile.WithSeed(existing))
	}

	// Prior metadata is always carried so sources skipped this run keep
	// their provenance entries.
	prior, err := store.LoadMetadata()
	if err != nil {
		return err
	}
	opts = append(opts, reconcile.WithPriorMetadata(prior))

	batches := fetchAll(ctx, srcs)

	mapping, meta, err := reconcile.New(key, opts...).Reconcile(ctx, batches)
	if err != nil {
		return err
	}

	if updateDryRun {
		log.Info().Int("count", len(mapping)).Msg("[DRY RUN] Would save capture IDs")
		return nil
	}

	if err := store.WriteMapping(mapping); err != nil {
		return err
	}
	if err := store.WriteMetadata(meta); err != nil {
		return err
	}

	log.Info().
		Int("count", len(mapping)).
		Str("path", store.MappingPath()).
		Msg("Saved capture IDs")
	return nil
}

// fetchAll fetches every source sequentially in precedence order. A failed
// source logs a warning and contributes an empty batch with no upstream
// timestamp; the run carries on with the remaining sources.
func fetchAll(ctx context.Context, srcs []sources.Source) []reconcile.Batch {
	batches := make([]reconcile.Batch, 0, len(srcs))
	for _, src := range srcs {
		sctx := logging.WithSource(ctx, src.ID().String())
		log := logging.FromContext(sctx)

		log.Info().Msg("Fetching source")
		batch := reconcile.Batch{
			Source: src.ID().String(),
			Rules:  src.Rules(),
		}

		result, err := src.Fetch(sctx)
		if err != nil {
			log.Warn().Err(err).Msg("Source fetch failed, continuing without it")
		} else {
			batch.Records = result.Records
			batch.UpdatedAt = result.UpdatedAt
			log.Info().Int("records", len(result.Records)).Msg("Fetched source")
		}

		batches = append(batches, batch)
	}
	return batches
}

// selectSources restricts the order to a single source when requested.
func selectSources(order []sources.ID, selection string) ([]sources.ID, error) {
	if selection == "" || selection == "all" {
		return order, nil
	}

	id := sources.ID(selection)
	if !id.IsValid() {
		return nil, errors.NewConfigError("update", "unknown source "+selection, nil)
	}
	for _, candidate := range order {
		if candidate == id {
			return []sources.ID{id}, nil
		}
	}
	return nil, errors.NewConfigError("update", "source "+selection+" not in configured order", nil)
}
