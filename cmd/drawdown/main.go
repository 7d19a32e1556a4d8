package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ukplan/drawdown/internal/calculation"
	"github.com/ukplan/drawdown/internal/config"
	"github.com/ukplan/drawdown/internal/output"
	"github.com/ukplan/drawdown/internal/store"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "drawdown",
	Short: "UK pension drawdown planner",
	Long:  "Projects accumulation and tax-optimised drawdown for UK pension, ISA, LISA and GIA portfolios",
}

var projectCmd = &cobra.Command{
	Use:   "project [plan-file]",
	Short: "Project a plan through accumulation and retirement",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		statePath, _ := cmd.Flags().GetString("state")
		if statePath == "" {
			statePath = os.Getenv("DRAWDOWN_STATE")
		}

		plan, err := loadPlan(cmd.Context(), args, statePath)
		if err != nil {
			return err
		}

		engine := calculation.NewCalculationEngine()
		debugMode, _ := cmd.Flags().GetBool("debug")
		if debugMode {
			engine.SetLogger(simpleCLILogger{})
		}
		engine.Debug = debugMode

		results, err := engine.RunScenarios(plan.Accounts, &plan.Household, &plan.Assumptions, plan.Scenarios)
		if err != nil {
			return err
		}

		// Persist the inputs for the next session once the run succeeded.
		if statePath != "" && len(args) == 1 {
			if err := savePlan(cmd.Context(), statePath, plan); err != nil {
				return err
			}
		}

		format, _ := cmd.Flags().GetString("format")
		formatter := output.GetFormatterByName(format)
		if formatter == nil {
			return fmt.Errorf("unsupported format: %s", format)
		}
		data, err := formatter.Format(results)
		if err != nil {
			return err
		}

		outFile, _ := cmd.Flags().GetString("output")
		if outFile == "" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(outFile, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outFile, err)
		}
		fmt.Printf("Wrote %s report to %s\n", formatter.Name(), outFile)
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init [plan-file]",
	Short: "Write a default plan file to start from",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := "plan.yaml"
		if len(args) == 1 {
			filename = args[0]
		}
		if _, err := os.Stat(filename); err == nil {
			return fmt.Errorf("%s already exists, not overwriting", filename)
		}

		data, err := yaml.Marshal(config.Defaults())
		if err != nil {
			return fmt.Errorf("encode default plan: %w", err)
		}
		if err := os.WriteFile(filename, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", filename, err)
		}
		fmt.Printf("Wrote default plan to %s\n", filename)
		return nil
	},
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "drawdown %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.Main.Path)
			}
		},
	}
}

// loadPlan resolves the plan inputs: an explicit file wins, then previously
// saved state, then the built-in defaults.
func loadPlan(ctx context.Context, args []string, statePath string) (*config.PlanConfig, error) {
	if len(args) == 1 {
		return config.NewInputParser().LoadFromFile(args[0])
	}

	if statePath != "" {
		st, err := store.Open(statePath)
		if err != nil {
			return nil, err
		}
		defer st.Close()

		household, err := st.LoadHousehold(ctx)
		if err == nil {
			accounts, aerr := st.LoadAccounts(ctx)
			assumptions, serr := st.LoadAssumptions(ctx)
			if aerr == nil && serr == nil {
				plan := &config.PlanConfig{Household: household, Accounts: accounts, Assumptions: assumptions}
				if verr := config.NewInputParser().ValidatePlan(plan); verr != nil {
					return nil, fmt.Errorf("saved plan is invalid: %w", verr)
				}
				return plan, nil
			}
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}

	return config.Defaults(), nil
}

func savePlan(ctx context.Context, statePath string, plan *config.PlanConfig) error {
	st, err := store.Open(statePath)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SaveAccounts(ctx, plan.Accounts); err != nil {
		return err
	}
	if err := st.SaveHousehold(ctx, plan.Household); err != nil {
		return err
	}
	return st.SaveAssumptions(ctx, plan.Assumptions)
}

func main() {
	// A local .env can set DRAWDOWN_STATE; absence is fine.
	_ = godotenv.Load()

	projectCmd.Flags().String("format", "console", "Output format (console, csv, json, pdf)")
	projectCmd.Flags().String("output", "", "Write the report to a file instead of stdout")
	projectCmd.Flags().String("state", "", "Path to the saved-plan database (default $DRAWDOWN_STATE)")
	projectCmd.Flags().Bool("debug", false, "Enable debug logging")

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
