package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lms/internal/config"
)

// annotationNoConfig marks commands that run without loading configuration.
const annotationNoConfig = "lms/no-config"

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "init [path]",
		Short:       "Write a default " + config.DefaultFile,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{annotationNoConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultFile
			if len(args) == 1 {
				path = args[0]
			}

			created, err := config.WriteDefault(path)
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists, left unchanged\n", path)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
}
