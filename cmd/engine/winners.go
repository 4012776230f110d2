package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"awardpool-engine/internal/ceremony"
	"awardpool-engine/internal/domain"
	"awardpool-engine/internal/extract"
	"awardpool-engine/internal/refresh"
	"awardpool-engine/internal/snapshot"
)

func newWinnersCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "winners [url]",
		Short: "Fetch announced winners and store them as the current result",
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

			db, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			ds, err := snapshot.Dataset(cmd.Context(), db.Pool, cfg.Ceremony.Year, ctx.datasetPath(cfg))
			if err != nil {
				return err
			}
			fetcher := fetchClient(cfg, cfg.Fetch.ResultsViaProxy)

			var winners map[string]string
			var unmatched []string
			if dryRun {
				page, err := fetcher.Fetch(cmd.Context(), url)
				if err != nil {
					return err
				}
				byName, err := extract.ForKind(page.Kind).Winners(page.Body)
				if err != nil {
					return err
				}
				winners, unmatched = ceremony.MatchWinners(ds, byName)
			} else {
				r := &refresh.Refresher{DB: db.Pool, Fetcher: fetcher}
				out, err := r.Once(cmd.Context(), "", ds, url)
				switch {
				case errors.Is(err, domain.ErrResultsPending):
					fmt.Fprintln(cmd.OutOrStdout(), "No winners announced yet.")
					return nil
				case err != nil:
					return err
				}
				winners, unmatched = out.Result.WinnersByCategoryID, out.Unmatched
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, renderTable(w, []string{"Category", "Winner", "Points"}, winnerRows(ds, winners), []columnAlignment{alignLeft, alignLeft, alignRight}))
			if len(unmatched) > 0 {
				sort.Strings(unmatched)
				fmt.Fprintf(w, "Unmatched categories: %q\n", unmatched)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print winners without storing them")
	return cmd
}

func winnerRows(ds domain.Dataset, winners map[string]string) [][]string {
	var rows [][]string
	for _, c := range ds.Categories {
		label, ok := winners[c.ID]
		if !ok {
			continue
		}
		rows = append(rows, []string{c.Name, label, fmt.Sprint(ds.PointsFor(c))})
	}
	return rows
}
