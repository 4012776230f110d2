package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"awardpool-engine/internal/store"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write datasets, picks and results as one JSON bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			b, err := store.Export(cmd.Context(), db.Pool)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(b, "", "  ")
			if err != nil {
				return err
			}
			data = append(data, '\n')

			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d datasets, %d users, %d results to %s\n",
				len(b.Datasets), len(b.Picks), len(b.Results), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output file (default stdout)")
	return cmd
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load a JSON bundle written by export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			var b store.Bundle
			dec := json.NewDecoder(r)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&b); err != nil {
				return fmt.Errorf("decode bundle: %w", err)
			}

			db, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := store.Import(cmd.Context(), db.Pool, b); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d datasets, %d users, %d results\n",
				len(b.Datasets), len(b.Picks), len(b.Results))
			return nil
		},
	}
}
