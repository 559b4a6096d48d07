// =============================================================================
// Locus Order Manager - Run Report
// =============================================================================
//
// This module writes a plain-text report of a submission run, so a planner
// can keep a record of which orders were accepted and which need attention.
//
// REPORT CONTENTS:
//   - Run information (run id, source file, start/end time, duration)
//   - Statistics (orders, succeeded, failed)
//   - One entry per failed order with status code and response body
//   - The list of succeeded orders
//
// Reports are only written when a report directory is configured. Entries
// keep the order results were collected in (completion order).
//
// =============================================================================

package report

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/locus-order-manager/internal/types"
)

const separator = "================================================================================\n"

// =============================================================================
// RUN SUMMARY
// =============================================================================

// Summary describes one run of a flow.
type Summary struct {
	// Flow is "upload" or "update".
	Flow string

	// RunID is the id sent as X-Request-ID on every request of the run.
	RunID string

	// SourceFile is the input file the run was built from.
	SourceFile string

	StartTime time.Time
	EndTime   time.Time

	// Results holds one entry per order.
	Results []types.SubmissionResult
}

// Counts returns the number of succeeded and failed orders.
func (s Summary) Counts() (succeeded, failed int) {
	for _, r := range s.Results {
		if r.Success {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}

// FromUpload turns the single upload response into a one-entry result list
// so both flows share the report layout.
func FromUpload(result types.UploadResult) []types.SubmissionResult {
	return []types.SubmissionResult{{
		OrderID:    fmt.Sprintf("%d order(s)", result.Orders),
		Success:    result.Success(),
		StatusCode: result.StatusCode,
		Body:       result.Body,
		Message:    fmt.Sprintf("Status Code: %d", result.StatusCode),
	}}
}

// =============================================================================
// FILE NAMING
// =============================================================================

// FileName builds the report file name.
//
// EXAMPLE:
//   flow: "update", at: 2024-01-15 14:30:22
//   output: "update_report_20240115_143022.txt"
func FileName(flow string, at time.Time) string {
	flow = strings.TrimSpace(flow)
	if flow == "" {
		flow = "run"
	}
	return fmt.Sprintf("%s_report_%s.txt", flow, at.Format("20060102_150405"))
}

// =============================================================================
// REPORT GENERATION
// =============================================================================

// Write writes the report into outputDir, creating the directory if needed.
//
// PARAMETERS:
//   - summary: The run to report on.
//   - outputDir: The directory to write the report file.
//
// RETURNS:
//   - The path to the report file.
//   - An error if writing fails.
func Write(summary Summary, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	reportPath := filepath.Join(outputDir, FileName(summary.Flow, summary.EndTime))

	file, err := os.Create(reportPath)
	if err != nil {
		return "", fmt.Errorf("failed to create report: %w", err)
	}

	writer := bufio.NewWriter(file)
	writeSummary(writer, summary)

	if err := writer.Flush(); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("failed to flush report: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close report: %w", err)
	}

	return reportPath, nil
}

func writeSummary(w *bufio.Writer, s Summary) {
	succeeded, failed := s.Counts()

	fmt.Fprintf(w, "Locus Order Manager - %s Report\n", flowTitle(s.Flow))
	w.WriteString(separator + "\n")

	w.WriteString("Run Information:\n")
	fmt.Fprintf(w, "  Run ID:         %s\n", s.RunID)
	fmt.Fprintf(w, "  Source File:    %s\n", s.SourceFile)
	fmt.Fprintf(w, "  Start Time:     %s\n", s.StartTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  End Time:       %s\n", s.EndTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  Duration:       %s\n\n", s.EndTime.Sub(s.StartTime).Round(time.Millisecond))

	w.WriteString("Statistics:\n")
	fmt.Fprintf(w, "  Orders:         %d\n", len(s.Results))
	fmt.Fprintf(w, "  Succeeded:      %d\n", succeeded)
	fmt.Fprintf(w, "  Failed:         %d\n\n", failed)

	if failed > 0 {
		w.WriteString("Failed Orders:\n")
		w.WriteString("--------------------------------------------------------------------------------\n")
		n := 0
		for _, r := range s.Results {
			if r.Success {
				continue
			}
			n++
			fmt.Fprintf(w, "Failure #%d\n", n)
			fmt.Fprintf(w, "  Order:          %s\n", r.OrderID)
			if r.StatusCode > 0 {
				fmt.Fprintf(w, "  Status Code:    %d\n", r.StatusCode)
			}
			if r.Err != nil {
				fmt.Fprintf(w, "  Error:          %v\n", r.Err)
			}
			if body := strings.TrimSpace(r.Body); body != "" {
				fmt.Fprintf(w, "  Response:       %s\n", body)
			}
			w.WriteString("\n")
		}
	}

	if succeeded > 0 {
		w.WriteString("Succeeded Orders:\n")
		w.WriteString("--------------------------------------------------------------------------------\n")
		for _, r := range s.Results {
			if r.Success {
				fmt.Fprintf(w, "  %s\n", r.OrderID)
			}
		}
		w.WriteString("\n")
	}

	w.WriteString(separator + "End of Report\n")
}

// flowTitle capitalizes the flow name for the report heading.
func flowTitle(flow string) string {
	if flow == "" {
		return "Run"
	}
	return strings.ToUpper(flow[:1]) + flow[1:]
}
