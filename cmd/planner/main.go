// Command planner is the cryoplanner CLI: it solves a scenario file once
// and prints the result, or starts the HTTP service for an external
// orchestrator to call. Flag/subcommand shape follows spf13/cobra's
// conventions as used in NikeGunn-tutu/internal/cli; the solve-a-file-and-
// print-a-result workflow follows the classic solve-a-file-and-print-a-
// report shape of a batch planning CLI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pinggolf/cryoplanner/internal/api"
	"github.com/pinggolf/cryoplanner/internal/audit"
	"github.com/pinggolf/cryoplanner/internal/config"
	"github.com/pinggolf/cryoplanner/internal/constraints"
	"github.com/pinggolf/cryoplanner/internal/diagnostics"
	"github.com/pinggolf/cryoplanner/internal/extract"
	"github.com/pinggolf/cryoplanner/internal/index"
	"github.com/pinggolf/cryoplanner/internal/logging"
	"github.com/pinggolf/cryoplanner/internal/planner"
	"github.com/pinggolf/cryoplanner/internal/solver"
	"github.com/pinggolf/cryoplanner/internal/solver/reference"
	"github.com/pinggolf/cryoplanner/pkg/domain/entities"
)

var rootCmd = &cobra.Command{
	Use:   "planner",
	Short: "cryoplanner: production-distribution MIP planner for perishable goods",
}

func init() {
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(serveCmd)

	solveCmd.Flags().StringP("scenario", "s", "", "Path to a scenario JSON file")
	solveCmd.Flags().StringP("format", "f", "text", "Output format: text, json")
	solveCmd.Flags().Bool("sliding-window", false, "Use sliding-window shelf-life tracking instead of age-cohort")
	solveCmd.Flags().Bool("allow-shortages", false, "Permit unmet demand at the shortage penalty instead of forcing infeasibility")
	solveCmd.Flags().Bool("enforce-mix-size", true, "Require production quantities to be integer multiples of each product's mix size")
	solveCmd.Flags().Duration("time-limit", 5*time.Minute, "Solver wall-clock time limit")
	solveCmd.Flags().Float64("mip-gap", 0.01, "Target relative MIP gap")
	solveCmd.MarkFlagRequired("scenario")
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a scenario file and print the result",
	RunE:  runSolve,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP service",
	RunE:  runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runSolve(cmd *cobra.Command, args []string) error {
	scenarioPath, _ := cmd.Flags().GetString("scenario")
	format, _ := cmd.Flags().GetString("format")
	slidingWindow, _ := cmd.Flags().GetBool("sliding-window")
	allowShortages, _ := cmd.Flags().GetBool("allow-shortages")
	enforceMixSize, _ := cmd.Flags().GetBool("enforce-mix-size")
	timeLimit, _ := cmd.Flags().GetDuration("time-limit")
	mipGap, _ := cmd.Flags().GetFloat64("mip-gap")

	f, err := os.Open(scenarioPath)
	if err != nil {
		return fmt.Errorf("opening scenario: %w", err)
	}
	defer f.Close()

	var scenario entities.Scenario
	if err := json.NewDecoder(f).Decode(&scenario); err != nil {
		return fmt.Errorf("parsing scenario: %w", err)
	}

	mode := index.AgeCohort
	if slidingWindow {
		mode = index.SlidingWindow
	}
	cfg := constraints.Config{
		EnforceMixSize: enforceMixSize,
		AllowShortages: allowShortages,
		Mode:           mode,
	}
	params := solver.Params{TimeLimit: timeLimit, MIPGap: mipGap}

	logger := logging.New(config.Load())
	driver := planner.NewDriver(reference.New())
	driver.Logger = logger

	result, err := driver.Solve(context.Background(), scenario, cfg, params)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	default:
		printTextResult(result)
		return nil
	}
}

func printTextResult(result *extract.Result) {
	fmt.Println("cryoplanner solve result")
	fmt.Println("========================")
	fmt.Printf("Status:      %s\n", result.Status)
	fmt.Printf("Objective:   %.2f\n", result.Objective)
	fmt.Printf("Solve time:  %s\n", result.SolveTime)
	fmt.Printf("MIP gap:     %.4f\n", result.Gap)
	fmt.Println()
	fmt.Println("Cost breakdown")
	fmt.Printf("  Labor:      %.2f\n", result.Costs.Labor)
	fmt.Printf("  Production: %.2f\n", result.Costs.Production)
	fmt.Printf("  Transport:  %.2f\n", result.Costs.Transport)
	fmt.Printf("  Holding:    %.2f\n", result.Costs.Holding)
	fmt.Printf("  Shortage:   %.2f\n", result.Costs.Shortage)
	fmt.Printf("  Total:      %.2f\n", result.Costs.Total)
	fmt.Println()
	fmt.Printf("Production entries: %d\n", len(result.Production))
	fmt.Printf("Shipment entries:    %d\n", len(result.Shipments))
	fmt.Printf("Inventory points:    %d\n", len(result.Inventory))

	var shortCells int
	for _, d := range result.DemandOutcomes {
		if d.Shortage > 0 {
			shortCells++
		}
	}
	fmt.Printf("Demand cells with shortage: %d of %d\n", shortCells, len(result.DemandOutcomes))

	for _, msg := range result.BuildDiagnostics {
		fmt.Printf("  [build] %s\n", msg)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logger := logging.New(cfg)

	store, err := audit.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening audit store: %w", err)
	}
	defer store.Close()

	driver := planner.NewDriver(reference.New())
	driver.Logger = logger
	driver.Audit = store

	if pub, err := diagnostics.NewNATSPublisher(cfg.NATSURL); err != nil {
		logger.Warn().Err(err).Msg("NATS unavailable, diagnostics will not be published externally")
	} else {
		driver.Diagnostics.Register(pub)
		defer pub.Close()
	}

	srv := api.NewServer(driver, store, logger)

	logger.Info().Str("addr", cfg.Addr).Msg("starting cryoplanner service")
	return srv.ListenAndServe(cfg.Addr)
}
