package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
	"github.com/SarthakGarg19/social-support-ai/internal/interfaces/intake"
)

type processResult struct {
	Decision *entity.FinalDecision `json:"final_decision"`
	Errors   []entity.RunError     `json:"errors"`
}

func processCmd() *cobra.Command {
	var manifest string

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Run one application from a JSON manifest",
		Long: `Run one application through the full intake workflow and print the
final decision as JSON. The manifest has the same shape as the
POST /api/applications body. Relative document locations are resolved
against the manifest's directory.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(manifest)
			if err != nil {
				return fmt.Errorf("failed to read manifest: %w", err)
			}

			req, err := intake.Decode(raw)
			if err != nil {
				return err
			}
			resolveLocations(req.Documents, filepath.Dir(manifest))

			c, err := startContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			decision, errs := c.WorkflowEngine().ProcessApplication(cmd.Context(), req.ApplicantID, req.Profile(), req.Documents)
			if errs == nil {
				errs = []entity.RunError{}
			}

			if err := writeJSON(cmd.OutOrStdout(), processResult{Decision: decision, Errors: errs}); err != nil {
				return err
			}
			if decision.Status == entity.RunStatusFailed {
				return fmt.Errorf("run failed: %s", decision.Detail)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifest, "manifest", "m", "", "path to the application manifest (JSON)")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}

func resolveLocations(docs []entity.DocumentRef, base string) {
	for i := range docs {
		if docs[i].Location != "" && !filepath.IsAbs(docs[i].Location) {
			docs[i].Location = filepath.Join(base, docs[i].Location)
		}
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
