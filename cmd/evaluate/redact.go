package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AndrewDilley/TenderEvaluation/internal/scoring"
	"github.com/AndrewDilley/TenderEvaluation/internal/workflow"
)

func redactCmd(opts *options) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "redact <document>...",
		Short: "Write redacted text for each document without scoring",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := readUploads(args)
			if err != nil {
				return err
			}

			cfg, infra, err := opts.setup()
			if err != nil {
				return err
			}

			rt := infra.Workflow(&cfg.Evaluation)
			rt.Storage = nil

			prepared, err := workflow.Prepare(cmd.Context(), rt, workflow.NewSession(opts.exclusions...), docs)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", outDir, err)
			}

			w := cmd.OutOrStdout()
			for _, p := range prepared {
				path := filepath.Join(outDir, scoring.DocumentLabel(p.Filename)+"_redacted.txt")
				if err := os.WriteFile(path, []byte(p.Text), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}

				fmt.Fprintf(w, "%s -> %s\n", p.Filename, path)
				for _, f := range p.Findings {
					fmt.Fprintf(w, "  %-12s %d\n", f.Category, f.Count)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", ".", "Directory for <name>_redacted.txt files")
	return cmd
}
