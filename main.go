// =============================================================================
// Locus Order Manager - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Locus Order Manager CLI. It sets up
// signal handling and delegates command execution to the cmd package.
//
// USAGE:
//   locus-orders upload --file orders.csv    - Create new orders
//   locus-orders update --file updates.csv   - Update line items of existing orders
//   locus-orders version                     - Display the application version
//
// =============================================================================

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ginjaninja78/locus-order-manager/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cmd.Execute(ctx)
	stop()
	os.Exit(code)
}
