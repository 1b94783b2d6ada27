package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SarthakGarg19/social-support-ai/internal/application/workflow"
	domainwf "github.com/SarthakGarg19/social-support-ai/internal/domain/workflow"
)

func graphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Print the workflow state graph as a Mermaid diagram",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), domainwf.Mermaid(workflow.NewIntakeBuilder().Edges()))
			return err
		},
	}
}
