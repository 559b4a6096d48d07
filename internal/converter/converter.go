// =============================================================================
// Locus Order Manager - Converter Module
// =============================================================================
//
// This module orchestrates the two order flows from parsed rows to submitted
// requests.
//
// UPLOAD PIPELINE (new orders):
//   1. Check the required columns
//   2. Group rows by DO Number
//   3. Build one order payload per group (dates and numbers coerced here)
//   4. Encode the {requests: [...]} envelope
//   5. POST it once to the upload endpoint
//
// UPDATE PIPELINE (existing orders):
//   1. Check the required columns
//   2. Coerce QTY KEMASAN / KG KEMASAN for the whole table
//   3. Group rows by DO NO
//   4. Build and encode one update payload per group
//   5. POST every payload on the worker pool
//
// ERROR HANDLING:
//   Input errors (no file, no credentials) are returned before anything is
//   parsed or sent. A coercion error anywhere aborts the flow before the
//   first request, so a file is never partially submitted. HTTP outcomes of
//   the update flow are reported per order and never abort siblings.
//
// =============================================================================

package converter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/locus-order-manager/internal/config"
	"github.com/ginjaninja78/locus-order-manager/internal/csvparser"
	"github.com/ginjaninja78/locus-order-manager/internal/dispatcher"
	"github.com/ginjaninja78/locus-order-manager/internal/jsonwriter"
	"github.com/ginjaninja78/locus-order-manager/internal/types"
	"github.com/ginjaninja78/locus-order-manager/internal/xlsxparser"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// =============================================================================
// INPUT ERRORS
// =============================================================================

var (
	// ErrMissingFile is returned when no input file was given.
	ErrMissingFile = errors.New("please provide an input file")

	// ErrMissingCredentials is returned when the username or password is empty.
	ErrMissingCredentials = dispatcher.ErrMissingCredentials

	// ErrUnsupportedFormat is returned for input files that are neither CSV nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Options tune a Converter.
type Options struct {
	// DryRun encodes payloads and writes them to DryRunOutput instead of
	// sending them. Credentials are not required in dry-run mode.
	DryRun bool

	// DryRunOutput receives dry-run payloads. Default: os.Stdout.
	DryRunOutput io.Writer

	// Workers overrides dispatch.workers when positive.
	Workers int

	// OnResult is called for each update result as it completes.
	OnResult func(types.SubmissionResult)

	// HTTPClient replaces the default HTTP client (tests use this).
	HTTPClient *http.Client

	// RunID tags logs and X-Request-ID headers. Generated when empty.
	RunID string
}

// Converter runs the upload and update flows.
type Converter struct {
	cfg     *config.MainConfig
	client  *dispatcher.Client
	logger  *zap.Logger
	options Options
}

// New creates a Converter.
//
// PARAMETERS:
//   - cfg: The application configuration.
//   - creds: Basic-auth credentials used for every request of both flows.
//   - logger: The logger. nil disables logging.
//   - options: Dry-run and dispatch overrides.
//
// RETURNS:
//   - A new Converter.
//   - ErrMissingCredentials if credentials are incomplete and this is not a
//     dry run.
func New(cfg *config.MainConfig, creds dispatcher.Credentials, logger *zap.Logger, options Options) (*Converter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if options.DryRunOutput == nil {
		options.DryRunOutput = os.Stdout
	}
	if options.RunID == "" {
		options.RunID = uuid.NewString()
	}

	c := &Converter{
		cfg:     cfg,
		logger:  logger,
		options: options,
	}

	if options.DryRun {
		return c, nil
	}

	if !creds.Valid() {
		return nil, ErrMissingCredentials
	}

	clientOpts := []dispatcher.Option{
		dispatcher.WithLogger(logger.Named("dispatcher")),
		dispatcher.WithRateLimit(cfg.Dispatch.RequestsPerSecond),
	}
	if options.HTTPClient != nil {
		clientOpts = append(clientOpts, dispatcher.WithHTTPClient(options.HTTPClient))
	}

	client, err := dispatcher.NewClient(cfg.HTTP, creds, clientOpts...)
	if err != nil {
		return nil, err
	}
	c.client = client

	return c, nil
}

// RunID returns the id sent as X-Request-ID on every request of this run.
func (c *Converter) RunID() string {
	return c.options.RunID
}

// =============================================================================
// INPUT LOADING
// =============================================================================

// LoadTable reads an input file into rows. Files ending in .xlsx are read
// as workbooks; everything else is parsed as CSV.
func LoadTable(path string, settings config.CSVSettings) (*csvparser.CSVData, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrMissingFile
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	data, err := ReadTable(filepath.Base(path), file, settings)
	if err != nil {
		return nil, err
	}
	data.SourceFile = path
	return data, nil
}

// ReadTable parses already-open input, choosing the reader by file name.
func ReadTable(name string, r io.Reader, settings config.CSVSettings) (*csvparser.CSVData, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xlsx", ".xlsm":
		return xlsxparser.Parse(r)
	case ".csv", ".txt", "":
		return csvparser.Parse(r, settings)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// =============================================================================
// UPLOAD FLOW
// =============================================================================

// Upload builds every new order in the table and submits them in one request.
//
// RETURNS:
//   - The upload result (status and body as returned by the API). In dry-run
//     mode StatusCode is 0 and the envelope has been written out instead.
//   - An error for missing columns, coercion failures or transport failures.
func (c *Converter) Upload(ctx context.Context, data *csvparser.CSVData) (types.UploadResult, error) {
	runID := c.options.RunID
	log := c.logger.With(zap.String("run_id", runID), zap.String("flow", "upload"))
	startTime := time.Now()

	// =========================================================================
	// STEP 1: BUILD PAYLOADS
	// =========================================================================

	if err := data.RequireColumns(newOrderColumns...); err != nil {
		return types.UploadResult{}, err
	}

	groups := GroupRows(data, ColDONumber)
	log.Debug("grouped rows", zap.Int("rows", len(data.Rows)), zap.Int("orders", len(groups)))

	payloads, err := BuildOrders(groups)
	if err != nil {
		return types.UploadResult{}, err
	}

	lineItems := 0
	for _, p := range payloads {
		lineItems += len(p.LineItemDetails.LineItems)
	}

	// =========================================================================
	// STEP 2: ENCODE
	// =========================================================================

	envelope := types.UploadEnvelope{Requests: payloads}

	if c.options.DryRun {
		body, err := jsonwriter.GenerateWithOptions(envelope, jsonwriter.GenerateOptions{Indent: "  "})
		if err != nil {
			return types.UploadResult{}, err
		}
		if _, err := fmt.Fprintf(c.options.DryRunOutput, "# POST %s\n%s\n", c.cfg.Endpoints.UploadURL, body); err != nil {
			return types.UploadResult{}, fmt.Errorf("failed to write dry-run output: %w", err)
		}
		log.Info("dry run, nothing sent", zap.Int("orders", len(payloads)))
		return types.UploadResult{Orders: len(payloads), LineItems: lineItems}, nil
	}

	body, err := jsonwriter.Generate(envelope)
	if err != nil {
		return types.UploadResult{}, err
	}

	// =========================================================================
	// STEP 3: SUBMIT
	// =========================================================================

	result, err := dispatcher.Upload(ctx, c.client, c.cfg.Endpoints.UploadURL, body, runID)
	if err != nil {
		log.Error("upload failed", zap.Error(err))
		return types.UploadResult{}, err
	}
	result.Orders = len(payloads)
	result.LineItems = lineItems

	log.Info("upload complete",
		zap.Int("status", result.StatusCode),
		zap.Int("orders", result.Orders),
		zap.Int("line_items", result.LineItems),
		zap.Duration("elapsed", time.Since(startTime)),
	)

	return result, nil
}

// =============================================================================
// UPDATE FLOW
// =============================================================================

// Update builds one line-item update per order and submits them on the
// worker pool.
//
// RETURNS:
//   - One result per order, in completion order. In dry-run mode the slice
//     is empty and the payloads have been written out instead.
//   - An error for missing columns or coercion failures. HTTP failures are
//     reported in the results, not as an error.
func (c *Converter) Update(ctx context.Context, data *csvparser.CSVData) ([]types.SubmissionResult, error) {
	runID := c.options.RunID
	log := c.logger.With(zap.String("run_id", runID), zap.String("flow", "update"))
	startTime := time.Now()

	// =========================================================================
	// STEP 1: COERCE AND BUILD PAYLOADS
	// =========================================================================

	if err := data.RequireColumns(updateColumns...); err != nil {
		return nil, err
	}

	if err := CoerceUpdateTable(data); err != nil {
		return nil, err
	}

	groups := GroupRows(data, ColUpdateDONo)
	log.Debug("grouped rows", zap.Int("rows", len(data.Rows)), zap.Int("orders", len(groups)))

	updates, err := BuildUpdates(groups)
	if err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 2: ENCODE
	// =========================================================================

	encodeOpts := jsonwriter.DefaultGenerateOptions()
	if c.options.DryRun {
		encodeOpts.Indent = "  "
	}

	tasks := make([]dispatcher.Task, 0, len(updates))
	for _, u := range updates {
		body, err := jsonwriter.GenerateWithOptions(u.Payload, encodeOpts)
		if err != nil {
			return nil, fmt.Errorf("order %q: %w", u.OrderID, err)
		}
		tasks = append(tasks, dispatcher.Task{OrderID: u.OrderID, Body: body})
	}

	if c.options.DryRun {
		for _, task := range tasks {
			target := dispatcher.UpdateURL(c.cfg.Endpoints.UpdateURLTemplate, task.OrderID)
			if _, err := fmt.Fprintf(c.options.DryRunOutput, "# POST %s\n%s\n", target, task.Body); err != nil {
				return nil, fmt.Errorf("failed to write dry-run output: %w", err)
			}
		}
		log.Info("dry run, nothing sent", zap.Int("orders", len(tasks)))
		return []types.SubmissionResult{}, nil
	}

	// =========================================================================
	// STEP 3: SUBMIT ON THE WORKER POOL
	// =========================================================================

	workers := c.cfg.Dispatch.Workers
	if c.options.Workers > 0 {
		workers = c.options.Workers
	}

	log.Info("sending updates", zap.Int("orders", len(tasks)), zap.Int("workers", workers))

	pool := &dispatcher.Pool{
		Client:      c.client,
		Workers:     workers,
		URLTemplate: c.cfg.Endpoints.UpdateURLTemplate,
		RequestID:   runID,
		OnResult:    c.options.OnResult,
	}
	results := pool.Run(ctx, tasks)

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}

	log.Info("updates complete",
		zap.Int("orders", len(results)),
		zap.Int("succeeded", len(results)-failed),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(startTime)),
	)

	return results, nil
}
