package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AndrewDilley/TenderEvaluation/internal/criteria"
)

func criteriaCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "criteria <rubric>",
		Short: "Parse a rubric and list its criteria",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rubric, err := readUpload(args[0])
			if err != nil {
				return err
			}

			model, err := criteria.Load(rubric.Filename, bytes.NewReader(rubric.Data))
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(model)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CRITERION\tKIND\tWEIGHTING")
			for _, c := range model.Ordered() {
				weighting := "-"
				if c.Weighting != nil {
					weighting = fmt.Sprintf("%g", *c.Weighting)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, c.Kind, weighting)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			for _, w := range model.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the parsed model as JSON")
	return cmd
}
