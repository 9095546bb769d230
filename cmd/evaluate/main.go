// Command evaluate runs tender evaluations, redaction previews, and rubric
// checks against local files.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AndrewDilley/TenderEvaluation/internal/config"
	"github.com/AndrewDilley/TenderEvaluation/internal/infrastructure"
	"github.com/AndrewDilley/TenderEvaluation/internal/workflow"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configDir  string
	exclusions []string
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate tender responses against a rubric",
		Long: `Evaluate tender responses against an evaluation criteria rubric.

Documents (.pdf, .docx, .txt) are redacted before any text is sent to the
language model. Configuration is read from config.toml and TENDER_* env vars.

Examples:
  evaluate run --criteria rubric.xlsx Acme.pdf Beta.docx
  evaluate run --criteria rubric.csv --format xlsx --out summary.xlsx *.pdf
  evaluate redact --out-dir redacted/ Acme.pdf
  evaluate criteria rubric.xlsx
`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", ".", "Directory containing config.toml")
	cmd.PersistentFlags().StringArrayVar(&opts.exclusions, "exclude", nil, "Organization name to keep visible (repeatable)")

	cmd.AddCommand(runCmd(opts), redactCmd(opts), criteriaCmd())
	return cmd
}

// setup loads configuration and builds infrastructure. Storage is started
// so redacted artifacts can be staged.
func (o *options) setup() (*config.Config, *infrastructure.Infrastructure, error) {
	cfg, err := config.LoadFrom(o.configDir)
	if err != nil {
		return nil, nil, err
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := infra.Start(); err != nil {
		return nil, nil, err
	}
	return cfg, infra, nil
}

func readUploads(paths []string) ([]workflow.Upload, error) {
	uploads := make([]workflow.Upload, 0, len(paths))
	for _, p := range paths {
		u, err := readUpload(p)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, nil
}

func readUpload(path string) (workflow.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return workflow.Upload{}, fmt.Errorf("read %s: %w", path, err)
	}
	return workflow.Upload{Filename: filepath.Base(path), Data: data}, nil
}
