package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRootCmd(log zerolog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "rivu",
		Short: "A streaming Hoeffding-tree classifier",
		RunE: func(cmd *cobra.Command, args []string) error {
			// No scripted task: fall back to the interactive wizard.
			return runWizard(log)
		},
	}

	root.AddCommand(newEvaluatePrequentialCmd(log))
	return root
}
