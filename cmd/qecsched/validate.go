package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aeroqec/qecsched/engine/scheduling"
	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	var requestPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a request document without running the solver",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd.Context(), requestPath, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&requestPath, "request", "", "path to a plan request JSON document (required)")
	_ = cmd.MarkFlagRequired("request")
	return cmd
}

func runValidate(_ context.Context, requestPath string, out io.Writer) error {
	raw, err := os.ReadFile(requestPath)
	if err != nil {
		return fmt.Errorf("qecsched: reading request %s: %w", requestPath, err)
	}
	var req scheduling.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("qecsched: parsing request %s: %w", requestPath, err)
	}

	if err := req.Validate(); err != nil {
		fmt.Fprintf(out, "invalid: %s\n", err)
		os.Exit(1)
		return nil
	}

	fmt.Fprintf(out, "valid: %s (%d work packages)\n", req.RequestID, len(req.WorkPackages))
	return nil
}
