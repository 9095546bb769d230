package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AndrewDilley/TenderEvaluation/internal/agent"
	"github.com/AndrewDilley/TenderEvaluation/internal/report"
	"github.com/AndrewDilley/TenderEvaluation/internal/workflow"
)

func runCmd(opts *options) *cobra.Command {
	var (
		rubricPath       string
		format           string
		out              string
		instructionsPath string
	)

	cmd := &cobra.Command{
		Use:   "run --criteria <rubric> <document>...",
		Short: "Score documents against a rubric",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			rubric, err := readUpload(rubricPath)
			if err != nil {
				return err
			}

			docs, err := readUploads(args)
			if err != nil {
				return err
			}

			var instructions string
			if instructionsPath != "" {
				data, err := os.ReadFile(instructionsPath)
				if err != nil {
					return fmt.Errorf("read instructions: %w", err)
				}
				instructions = string(data)
			}

			cfg, infra, err := opts.setup()
			if err != nil {
				return err
			}
			if infra.Agent == nil {
				return fmt.Errorf("%w for provider %s", agent.ErrMissingAPIKey, cfg.Agent.Provider)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result, err := workflow.Execute(ctx, infra.Workflow(&cfg.Evaluation), workflow.Batch{
				Rubric:       rubric,
				Documents:    docs,
				Exclusions:   opts.exclusions,
				Instructions: instructions,
			})
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := report.Render(&buf, f, result); err != nil {
				return err
			}
			return write(cmd, out, buf.Bytes())
		},
	}

	cmd.Flags().StringVar(&rubricPath, "criteria", "", "Evaluation criteria file (.xlsx, .csv, .tsv, .txt)")
	cmd.Flags().StringVar(&format, "format", "markdown", "Output format: json, html, markdown, xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&instructionsPath, "instructions", "", "File replacing the evaluator instructions")
	cmd.MarkFlagRequired("criteria")

	return cmd
}

func write(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
	return nil
}
