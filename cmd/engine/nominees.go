package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"awardpool-engine/internal/ceremony"
	"awardpool-engine/internal/domain"
	"awardpool-engine/internal/extract"
	"awardpool-engine/internal/store"
)

func newNomineesCommand(ctx *commandContext) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "nominees [url]",
		Short: "Fetch the ceremony page and rebuild the nominee dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			url := cfg.Ceremony.URL
			if len(args) == 1 {
				url = args[0]
			}
			if out == "" {
				out = ctx.datasetPath(cfg)
			}

			page, err := fetchClient(cfg, false).Fetch(cmd.Context(), url)
			if err != nil {
				return err
			}
			strategy := extract.ForKind(page.Kind)
			cats, err := strategy.Nominees(page.Body)
			if err != nil {
				return fmt.Errorf("could not find nominees on the page (%s): %w", strategy.Name(), err)
			}

			// Hand-tuned points and the ceremony date survive a rebuild.
			var existing *domain.Dataset
			if prev, err := ceremony.Load(out); err == nil {
				existing = &prev
			} else if !errors.Is(err, os.ErrNotExist) {
				log.Printf("[nominees] ignoring unreadable %s: %v", out, err)
			}

			ds := ceremony.Build(cats, existing, ceremony.BuildOptions{
				Year:              ceremony.YearFromURL(url, time.Now()),
				DefaultPoints:     cfg.Scoring.DefaultPoints,
				BestPicturePoints: cfg.Scoring.BestPicturePoints,
			})
			if err := ceremony.Validate(ds); err != nil {
				return err
			}
			if err := ceremony.Save(out, ds); err != nil {
				return err
			}

			db, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			if err := store.SaveDataset(cmd.Context(), db.Pool, ds); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d categories for %s to %s (source=%s)\n",
				len(ds.Categories), ds.Year, out, strategy.Name())
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Dataset JSON path (default ceremony.dataset_path)")
	return cmd
}
