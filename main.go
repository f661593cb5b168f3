package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"statreport/adapters/excelreport"
	"statreport/adapters/textdata"
	"statreport/app"
	"statreport/internal"
	"statreport/internal/config"
	"statreport/ui"
)

var (
	flagOutput string
	flagAlpha  float64
)

var rootCmd = &cobra.Command{
	Use:   "statreport <file>...",
	Short: "Generate an Excel statistics report from sample files",
	Long: `statreport reads whitespace-delimited sample files, computes
descriptive statistics, normality tests and outlier criteria, and
writes a single Excel workbook where every statistic is a live formula
over the raw data.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := internal.NewDefaultLogger()
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("output") {
			cfg.Report.OutputPath = flagOutput
		}
		if cmd.Flags().Changed("alpha") {
			cfg.Report.Alpha = flagAlpha
		}

		loader := textdata.NewLoader(logger)
		builder := excelreport.NewBuilder(logger, cfg.Report.Alpha)
		service := app.NewReportService(loader, builder, logger, cfg.Report.OutputPath)

		result, err := service.Generate(context.Background(), args, cfg.Report.Alpha)
		if err != nil {
			return err
		}

		for _, loadErr := range result.LoadErrors {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", loadErr)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d sheet(s), %d skipped line(s), run %s)\n",
			result.OutputPath, len(result.Analyses), result.WarningCount, result.RunID)
		return nil
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local paste-form web UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := internal.NewDefaultLogger()
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("alpha") {
			cfg.Report.Alpha = flagAlpha
		}
		return ui.NewServer(cfg, logger).ListenAndServe()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Float64Var(&flagAlpha, "alpha", config.DefaultAlpha,
		"significance level for normality and outlier tests")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", config.DefaultOutputPath,
		"workbook output path")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	// A .env beside the binary is optional.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
