package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aeroqec/qecsched/engine/scheduling"
	"github.com/aeroqec/qecsched/pkg/config"
	"github.com/aeroqec/qecsched/pkg/logger"
	"github.com/spf13/cobra"
)

func planCmd() *cobra.Command {
	var requestPath, configPath string
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Create a plan from a request document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd.Context(), requestPath, configPath, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&requestPath, "request", "", "path to a plan request JSON document (required)")
	cmd.Flags().StringVar(&configPath, "config", "", "optional path to a YAML config overlay")
	_ = cmd.MarkFlagRequired("request")
	return cmd
}

func runPlan(ctx context.Context, requestPath, configPath string, out io.Writer) error {
	log := logger.NewLogger(logger.DefaultConfig())
	ctx = logger.ContextWithLogger(ctx, log)

	providers := []config.Provider{config.NewDefaultProvider(), config.NewEnvProvider()}
	if configPath != "" {
		providers = append(providers, config.NewYAMLProvider(configPath))
	}
	cfgSvc := config.NewService()
	_, err := cfgSvc.Load(ctx, providers...)
	if err != nil {
		return fmt.Errorf("qecsched: loading config: %w", err)
	}

	raw, err := os.ReadFile(requestPath)
	if err != nil {
		return fmt.Errorf("qecsched: reading request %s: %w", requestPath, err)
	}
	var req scheduling.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("qecsched: parsing request %s: %w", requestPath, err)
	}

	svc, err := scheduling.NewService()
	if err != nil {
		return fmt.Errorf("qecsched: building scheduling service: %w", err)
	}

	log.Info("creating plan", "request_id", req.RequestID, "work_packages", len(req.WorkPackages))
	resp, err := svc.CreatePlan(ctx, req, time.Now())
	if err != nil {
		return fmt.Errorf("qecsched: creating plan: %w", err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
