package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/SarthakGarg19/social-support-ai/internal/application/port"
	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
)

type statusResult struct {
	ApplicantID string                   `json:"applicant_id"`
	Assessment  *entity.Assessment       `json:"assessment"`
	Snapshot    *entity.WorkflowSnapshot `json:"snapshot"`
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <applicant-id>",
		Short: "Show the latest assessment and workflow snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			c, err := startContainer(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			store := c.Store()
			result := statusResult{ApplicantID: args[0]}

			result.Assessment, err = store.Assessments.GetLatest(ctx, args[0])
			if err != nil && !errors.Is(err, port.ErrNotFound) {
				return err
			}
			result.Snapshot, err = store.WorkflowState.Get(ctx, args[0])
			if err != nil && !errors.Is(err, port.ErrNotFound) {
				return err
			}

			if result.Assessment == nil && result.Snapshot == nil {
				return errors.New("no records for applicant " + args[0])
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
}
