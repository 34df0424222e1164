package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "draftctl",
		Short:         "Inspect DraftDesk prompts and output normalization",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newNormalizeCmd(), newPromptCmd(), newVersionCmd())
	return root
}
