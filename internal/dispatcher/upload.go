package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/ginjaninja78/locus-order-manager/internal/types"
	"go.uber.org/zap"
)

// Upload sends the batched new-order envelope in one request.
//
// The status code and body are reported verbatim in the result whatever the
// status. A transport failure (connection refused, timeout, truncated body)
// is returned as a single error.
func Upload(ctx context.Context, c *Client, url string, envelope []byte, requestID string) (types.UploadResult, error) {
	c.logger.Info("sending new order payload", zap.String("url", url), zap.Int("bytes", len(envelope)))

	resp, err := c.PostJSON(ctx, url, envelope, requestID)
	if err != nil {
		return types.UploadResult{}, fmt.Errorf("upload failed: %w", err)
	}

	body, isJSON := FormatBody(resp.Body)
	return types.UploadResult{
		StatusCode: resp.StatusCode,
		Body:       body,
		IsJSON:     isJSON,
	}, nil
}

// FormatBody renders a response body for display. JSON bodies are indented;
// anything else is returned as text.
func FormatBody(body []byte) (string, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return string(body), false
	}

	var out bytes.Buffer
	if err := json.Indent(&out, trimmed, "", "  "); err != nil {
		return string(body), false
	}
	return out.String(), true
}
