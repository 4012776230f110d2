package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"awardpool-engine/internal/domain"
	"awardpool-engine/internal/rank"
	"awardpool-engine/internal/snapshot"
)

func loadSnapshot(cmd *cobra.Command, ctx *commandContext) (snapshot.Snapshot, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	db, err := ctx.openStore()
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	defer db.Close()
	return snapshot.Load(cmd.Context(), db.Pool, cfg.Ceremony.Year, ctx.datasetPath(cfg))
}

func newLeaderboardCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show scores and competition ranks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSnapshot(cmd, ctx)
			if err != nil {
				return err
			}
			rows := s.Leaderboard()

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			if !s.HasResult {
				fmt.Fprintln(w, "No results yet; everyone is at zero.")
			}
			table := make([][]string, 0, len(rows))
			for _, r := range rows {
				table = append(table, []string{
					strconv.Itoa(r.Rank), r.Username, strconv.Itoa(r.Score),
					strconv.Itoa(r.Correct), strconv.Itoa(r.VotedCount),
				})
			}
			fmt.Fprintln(w, renderTable(w,
				[]string{"Rank", "User", "Score", "Correct", "Voted"}, table,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func newSimilarityCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "similarity",
		Short: "Show how often each pair of users picked alike",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSnapshot(cmd, ctx)
			if err != nil {
				return err
			}
			grid := s.Similarity()

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(grid)
			}

			headers := append([]string{""}, grid.Users...)
			aligns := []columnAlignment{alignLeft}
			var rows [][]string
			for _, a := range grid.Users {
				row := []string{a}
				for _, b := range grid.Users {
					row = append(row, similarityLabel(grid.Cell(a, b)))
				}
				rows = append(rows, row)
				aligns = append(aligns, alignRight)
			}
			fmt.Fprintln(w, renderTable(w, headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func similarityLabel(c domain.SimilarityCell, ok bool) string {
	if !ok {
		return "-"
	}
	if c.Percent == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d%% (%d/%d) h%d", *c.Percent, c.Matched, c.Compared, rank.Bucket(*c.Percent))
}
