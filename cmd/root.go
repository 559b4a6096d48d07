// =============================================================================
// Locus Order Manager - Root Command
// =============================================================================
//
// This file defines the root command and everything shared by subcommands:
// configuration loading, logging and credentials.
//
// COBRA CLI STRUCTURE:
//   rootCmd (locus-orders)
//   ├── uploadCmd  (locus-orders upload)
//   ├── updateCmd  (locus-orders update)
//   └── versionCmd (locus-orders version)
//
// CREDENTIALS:
//   The username and password come from --username/--password or from the
//   LOCUS_USERNAME/LOCUS_PASSWORD environment variables (bound with Viper).
//   They are held in memory for the run and never written anywhere.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ginjaninja78/locus-order-manager/internal/config"
	"github.com/ginjaninja78/locus-order-manager/internal/dispatcher"
	"github.com/ginjaninja78/locus-order-manager/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// settings binds flags and LOCUS_* environment variables.
var settings = viper.New()

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "locus-orders",
	Short: "Locus Order Manager - submit CSV order exports to the Locus API",
	Long: `Locus Order Manager converts delivery order exports (CSV or XLSX) into
Locus order payloads and submits them to the Locus order-management API.

Flows:
  upload  Create new orders. All orders in the file are sent in one request.
  update  Update line items of existing orders. One request per order, sent
          on a pool of concurrent workers.

A file with a bad date or number is rejected as a whole; nothing is sent.

Example Usage:
  locus-orders upload --file orders.csv --username me --password secret
  LOCUS_USERNAME=me LOCUS_PASSWORD=secret locus-orders update --file updates.csv
  locus-orders upload --file orders.csv --dry-run`,

	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file (defaults apply if it does not exist)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	rootCmd.PersistentFlags().String("username", "", "Locus API username (or LOCUS_USERNAME)")
	rootCmd.PersistentFlags().String("password", "", "Locus API password (or LOCUS_PASSWORD)")

	settings.SetEnvPrefix("LOCUS")
	settings.AutomaticEnv()
	_ = settings.BindPFlag("username", rootCmd.PersistentFlags().Lookup("username"))
	_ = settings.BindPFlag("password", rootCmd.PersistentFlags().Lookup("password"))
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// session bundles what every flow command needs.
type session struct {
	cfg    *config.MainConfig
	logger *zap.Logger
	creds  dispatcher.Credentials
}

// loadSession loads the configuration, builds the logger and reads the
// credentials.
func loadSession() (*session, error) {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Log, verbose)
	log.Debug("configuration loaded",
		zap.String("config_file", cfgFile),
		zap.String("upload_url", cfg.Endpoints.UploadURL),
		zap.String("update_url_template", cfg.Endpoints.UpdateURLTemplate),
		zap.Int("workers", cfg.Dispatch.Workers),
	)

	return &session{
		cfg:    cfg,
		logger: log,
		creds: dispatcher.Credentials{
			Username: settings.GetString("username"),
			Password: settings.GetString("password"),
		},
	}, nil
}
