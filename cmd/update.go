// =============================================================================
// Locus Order Manager - Update Command
// =============================================================================
//
// COMMAND USAGE:
//   locus-orders update --file updates.csv [--workers 5] [--dry-run]
//                       [--report-dir reports/]
//
// PROCESSING PIPELINE:
//   1. Check the input file and credentials
//   2. Parse the file and coerce QTY KEMASAN / KG KEMASAN
//   3. Group rows by DO NO and build one line-item update per order
//   4. Send the updates on a pool of concurrent workers
//   5. Print one line per order as each request completes
//
// =============================================================================

package cmd

import (
	"fmt"
	"time"

	"github.com/ginjaninja78/locus-order-manager/internal/converter"
	"github.com/ginjaninja78/locus-order-manager/internal/types"
	"github.com/ginjaninja78/locus-order-manager/pkg/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	updateFile      string
	updateWorkers   int
	updateDryRun    bool
	updateReportDir string
)

// updateCmd represents the 'update' command.
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update line items of existing orders",
	Long: `The update command reads an update sheet, groups its lines by DO NO and
sends one line-item update per order. Requests run concurrently on a fixed
pool of workers; a failed order never stops the others. Results are printed
in the order they complete.

Required columns: DO NO, MATERIAL, DO ITEM, MATERIAL DESCRIPTION,
KODE KARUNG, QTY KEMASAN, KG KEMASAN.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUpdate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().StringVarP(&updateFile, "file", "f", "", "Update sheet (.csv or .xlsx)")
	updateCmd.Flags().IntVar(&updateWorkers, "workers", 0, "Concurrent requests (default from config, 5)")
	updateCmd.Flags().BoolVar(&updateDryRun, "dry-run", false, "Print the request payloads instead of sending them")
	updateCmd.Flags().StringVar(&updateReportDir, "report-dir", "", "Write a run report into this directory")
}

func runUpdate(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	startTime := time.Now()

	s, err := loadSession()
	if err != nil {
		return err
	}
	defer s.logger.Sync()

	if updateFile == "" {
		return converter.ErrMissingFile
	}
	if updateWorkers < 0 {
		return fmt.Errorf("--workers must not be negative")
	}

	var successCount, errorCount int
	printResult := func(r types.SubmissionResult) {
		if r.Success {
			successCount++
			fmt.Fprintf(out, "  ✓ %s\n", r.Message)
		} else {
			errorCount++
			fmt.Fprintf(out, "  ✗ %s\n", r.Message)
		}
	}

	conv, err := converter.New(s.cfg, s.creds, s.logger, converter.Options{
		DryRun:       updateDryRun,
		DryRunOutput: out,
		Workers:      updateWorkers,
		OnResult:     printResult,
	})
	if err != nil {
		return err
	}

	data, err := converter.LoadTable(updateFile, s.cfg.CSV)
	if err != nil {
		return err
	}

	results, err := conv.Update(cmd.Context(), data)
	if err != nil {
		return err
	}

	if updateDryRun {
		fmt.Fprintln(out, "Dry run: nothing sent")
		return nil
	}

	endTime := time.Now()

	fmt.Fprintln(out, "\n=== Update Complete ===")
	fmt.Fprintf(out, "Total orders:    %d\n", len(results))
	fmt.Fprintf(out, "Successful:      %d\n", successCount)
	fmt.Fprintf(out, "Errors:          %d\n", errorCount)
	fmt.Fprintf(out, "Time elapsed:    %s\n", endTime.Sub(startTime).Round(time.Millisecond))

	if updateReportDir != "" {
		path, err := report.Write(report.Summary{
			Flow:       "update",
			RunID:      conv.RunID(),
			SourceFile: updateFile,
			StartTime:  startTime,
			EndTime:    endTime,
			Results:    results,
		}, updateReportDir)
		if err != nil {
			s.logger.Warn("could not write report", zap.Error(err))
		} else {
			fmt.Fprintf(out, "Report written to %s\n", path)
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("%d of %d order update(s) failed", errorCount, len(results))
	}
	return nil
}
