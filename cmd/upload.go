// =============================================================================
// Locus Order Manager - Upload Command
// =============================================================================
//
// COMMAND USAGE:
//   locus-orders upload --file orders.csv [--dry-run] [--report-dir reports/]
//
// PROCESSING PIPELINE:
//   1. Check the input file and credentials
//   2. Parse the file (CSV or XLSX)
//   3. Group rows by DO Number and build one order per group
//   4. Send every order in a single request
//   5. Print the status code and response body
//
// =============================================================================

package cmd

import (
	"fmt"
	"time"

	"github.com/ginjaninja78/locus-order-manager/internal/converter"
	"github.com/ginjaninja78/locus-order-manager/pkg/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	uploadFile      string
	uploadDryRun    bool
	uploadReportDir string
)

// uploadCmd represents the 'upload' command.
var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Create new orders from a delivery order export",
	Long: `The upload command reads a delivery order export, groups its lines by
DO Number and creates one Locus DROP order per group. All orders are sent in
a single request; the status code and response body are printed as returned.

Required columns: DO Number, Document Date (DD.MM.YYYY), Plant, Ship To,
Material, Material Description, Qty SO in SU, Qty SO in BU.
Optional column:  Qty Kemasan (falls back to Qty SO in SU when empty).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUpload(cmd)
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVarP(&uploadFile, "file", "f", "", "Order export to upload (.csv or .xlsx)")
	uploadCmd.Flags().BoolVar(&uploadDryRun, "dry-run", false, "Print the request payload instead of sending it")
	uploadCmd.Flags().StringVar(&uploadReportDir, "report-dir", "", "Write a run report into this directory")
}

func runUpload(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	startTime := time.Now()

	s, err := loadSession()
	if err != nil {
		return err
	}
	defer s.logger.Sync()

	if uploadFile == "" {
		return converter.ErrMissingFile
	}

	conv, err := converter.New(s.cfg, s.creds, s.logger, converter.Options{
		DryRun:       uploadDryRun,
		DryRunOutput: out,
	})
	if err != nil {
		return err
	}

	data, err := converter.LoadTable(uploadFile, s.cfg.CSV)
	if err != nil {
		return err
	}

	result, err := conv.Upload(cmd.Context(), data)
	if err != nil {
		return err
	}

	if uploadDryRun {
		fmt.Fprintf(out, "Dry run: %d order(s), %d line item(s), nothing sent\n", result.Orders, result.LineItems)
		return nil
	}

	mark := "✓"
	if !result.Success() {
		mark = "✗"
	}
	fmt.Fprintf(out, "%s Status Code: %d (%d order(s), %d line item(s))\n", mark, result.StatusCode, result.Orders, result.LineItems)
	if result.Body != "" {
		fmt.Fprintln(out, result.Body)
	}

	if uploadReportDir != "" {
		path, err := report.Write(report.Summary{
			Flow:       "upload",
			RunID:      conv.RunID(),
			SourceFile: uploadFile,
			StartTime:  startTime,
			EndTime:    time.Now(),
			Results:    report.FromUpload(result),
		}, uploadReportDir)
		if err != nil {
			s.logger.Warn("could not write report", zap.Error(err))
		} else {
			fmt.Fprintf(out, "Report written to %s\n", path)
		}
	}

	if !result.Success() {
		return fmt.Errorf("upload rejected with status %d", result.StatusCode)
	}
	return nil
}
