package dispatcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/ginjaninja78/locus-order-manager/internal/config"
	"github.com/ginjaninja78/locus-order-manager/internal/types"
	"go.uber.org/zap"
)

// Task is one line-item update waiting to be sent.
type Task struct {
	OrderID string
	Body    []byte
}

// Pool sends update tasks on a fixed number of workers.
type Pool struct {
	// Client performs the requests.
	Client *Client

	// Workers is the pool size. Values below 1 mean config.DefaultWorkers.
	Workers int

	// URLTemplate is the update endpoint containing config.OrderIDPlaceholder.
	URLTemplate string

	// RequestID is sent as X-Request-ID on every request of the run.
	RequestID string

	// OnResult, if set, is called from the collecting goroutine for each
	// result as it arrives, in completion order.
	OnResult func(types.SubmissionResult)
}

// UpdateURL expands the template for one order id.
func UpdateURL(template, orderID string) string {
	return strings.ReplaceAll(template, config.OrderIDPlaceholder, url.PathEscape(orderID))
}

// Run submits every task and returns one result per task.
//
// Tasks are queued in the order given; results are returned in completion
// order, so callers must match them by OrderID rather than by index. A
// failing or hung request only occupies its own worker.
func (p *Pool) Run(ctx context.Context, tasks []Task) []types.SubmissionResult {
	workers := p.Workers
	if workers < 1 {
		workers = config.DefaultWorkers
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	queue := make(chan Task)
	results := make(chan types.SubmissionResult, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range queue {
				results <- p.send(ctx, task)
			}
		}()
	}

	go func() {
		defer close(queue)
		for _, task := range tasks {
			queue <- task
		}
	}()

	// Close the results channel when all workers are done.
	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]types.SubmissionResult, 0, len(tasks))
	for result := range results {
		if p.OnResult != nil {
			p.OnResult(result)
		}
		collected = append(collected, result)
	}

	return collected
}

// send performs one update and converts every outcome, including a panic,
// into a SubmissionResult.
func (p *Pool) send(ctx context.Context, task Task) (result types.SubmissionResult) {
	defer func() {
		if r := recover(); r != nil {
			result = failure(task.OrderID, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return failure(task.OrderID, err)
	}

	target := UpdateURL(p.URLTemplate, task.OrderID)
	resp, err := p.Client.PostJSON(ctx, target, task.Body, p.RequestID)
	if err != nil {
		p.Client.logger.Warn("update request failed",
			zap.String("order_id", task.OrderID),
			zap.Error(err),
		)
		return failure(task.OrderID, err)
	}

	body := string(resp.Body)
	if resp.StatusCode != http.StatusOK {
		p.Client.logger.Warn("update rejected",
			zap.String("order_id", task.OrderID),
			zap.Int("status", resp.StatusCode),
		)
		return types.SubmissionResult{
			OrderID:    task.OrderID,
			StatusCode: resp.StatusCode,
			Body:       body,
			Message:    fmt.Sprintf("Failed for Order %s: %d - %s", task.OrderID, resp.StatusCode, body),
		}
	}

	return types.SubmissionResult{
		OrderID:    task.OrderID,
		Success:    true,
		StatusCode: resp.StatusCode,
		Body:       body,
		Message:    fmt.Sprintf("Success for Order %s", task.OrderID),
	}
}

func failure(orderID string, err error) types.SubmissionResult {
	return types.SubmissionResult{
		OrderID: orderID,
		Err:     err,
		Message: fmt.Sprintf("Exception for Order %s: %v", orderID, err),
	}
}
