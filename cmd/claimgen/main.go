package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"claimtable/backend/internal/commands"
	"claimtable/backend/internal/entity"
	"claimtable/backend/internal/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const service = "claimgen"

var (
	verbose bool
	log     *zap.Logger

	genOpts      commands.GenerateOptions
	hoursPerDay  float64
	graceMinutes int
	countingRule string
	dayRate      float64
	currency     string
)

var rootCmd = &cobra.Command{
	Use:   "claimgen",
	Short: "Build monthly agency claim tables from a timecard and a masterlist",
	Long: `claimgen reads an attendance timecard and an employee masterlist, keeps the
days each employee worked within three months of joining, and writes one claim
sheet per month with per-recruiter summaries, a grand total and signature lines.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		log, err = logger.New(service, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the claim workbook from two files",
	Example: `  claimgen generate --timecard timecard.xlsx --masterlist masterlist.xlsx
  claimgen generate --timecard tc.csv --masterlist ml.xls --counting-rule floor --pdf --out reports/`,
	RunE: runGenerate,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP upload API",
	Long: `serve starts the HTTP API. Flags and CLAIMS_* environment variables are read by
the config parser; run "claimgen serve --help" to list them.`,
	DisableFlagParsing: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	f := generateCmd.Flags()
	f.StringVar(&genOpts.Timecard, "timecard", "", "Timecard file (.xlsx, .xlsm, .xls or .csv)")
	f.StringVar(&genOpts.Masterlist, "masterlist", "", "Masterlist file (.xlsx, .xlsm, .xls or .csv)")
	f.StringVarP(&genOpts.OutDir, "out", "o", ".", "Output directory")
	f.StringVarP(&genOpts.SettingsFile, "config", "c", "", "YAML settings file")
	f.Float64Var(&hoursPerDay, "hours-per-day", 8, "Standard hours per day (1-24)")
	f.IntVar(&graceMinutes, "grace-minutes", 15, "Grace minutes below the standard day (0-120)")
	f.StringVar(&countingRule, "counting-rule", "per-day-threshold", "per-day-threshold or floor-total-hours")
	f.Float64Var(&dayRate, "day-rate", 3, "Claim rate per working day (0-1000)")
	f.StringVar(&currency, "currency", "RM", "Currency label for rates and amounts")
	f.BoolVar(&genOpts.Overrides.IncludeUnlisted, "include-unlisted", false, "Count employees missing from the masterlist under Unassigned")
	f.BoolVar(&genOpts.Overrides.MonthFirst, "month-first", false, "Read numeric dates as month/day/year")
	f.BoolVar(&genOpts.PDF, "pdf", false, "Also write a printable PDF")
	f.BoolVar(&genOpts.CSV, "csv", false, "Also write a flat CSV")
	_ = generateCmd.MarkFlagRequired("timecard")
	_ = generateCmd.MarkFlagRequired("masterlist")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, commands.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Only flags given on the command line override the settings file.
	flags := cmd.Flags()
	o := &genOpts.Overrides
	if flags.Changed("hours-per-day") {
		o.HoursPerDay = &hoursPerDay
	}
	if flags.Changed("grace-minutes") {
		o.GraceMinutes = &graceMinutes
	}
	if flags.Changed("counting-rule") {
		o.CountingRule = &countingRule
	}
	if flags.Changed("day-rate") {
		o.DayRate = &dayRate
	}
	if flags.Changed("currency") {
		o.Currency = &currency
	}

	report, files, err := commands.Generate(log, genOpts)
	if err != nil {
		return err
	}

	printSummary(cmd, report)
	for _, f := range files {
		fmt.Fprintln(cmd.OutOrStdout(), "wrote", f)
	}
	return nil
}

func printSummary(cmd *cobra.Command, r *entity.Report) {
	out := cmd.OutOrStdout()
	if len(r.Months) == 0 {
		fmt.Fprintln(out, "no eligible attendance found")
		return
	}
	for _, m := range r.Months {
		fmt.Fprintf(out, "%s  employees=%d  days=%d  amount=%s %s\n",
			m.Month, len(m.Claims), m.Grand.TotalWorkingDays, r.Currency, m.Grand.Amount.StringFixed(2))
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := commands.ParseServerConfig(args)
	if err != nil {
		return err
	}

	log, err := logger.New(service, cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return commands.Serve(ctx, log, cfg)
}
