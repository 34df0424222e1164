package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pscheid92/draftdesk/internal/domain"
	"github.com/pscheid92/draftdesk/internal/normalize"
	"github.com/spf13/cobra"
)

func newNormalizeCmd() *cobra.Command {
	var feature string
	var listRules bool

	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Normalize raw model output read from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := domain.ParseFeature(feature)
			if err != nil {
				return err
			}
			n := normalize.ForFeature(f)

			if listRules {
				for _, name := range n.Rules() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}

			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n.Normalize(raw))
			return nil
		},
	}

	cmd.Flags().StringVarP(&feature, "feature", "f", string(domain.FeatureEmail), "normalization profile: email or resume")
	cmd.Flags().BoolVar(&listRules, "rules", false, "list the rules of the profile instead of normalizing")
	return cmd
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}
