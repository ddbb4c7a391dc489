// Package cli provides the cobra command tree of the fieldtriage binary.
package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driven"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driving"
	"github.com/custodia-labs/fieldtriage/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// IncidentLister lists the incidents opened so far.
type IncidentLister interface {
	Incidents(ctx context.Context) ([]domain.IncidentRecord, error)
}

// Services holds everything the commands need. Nil members disable the
// commands that depend on them.
type Services struct {
	Triage    driving.TriageService
	Retrieval driving.RetrievalService
	Catalog   driving.PolicyCatalog
	Index     driving.IndexService
	Incidents IncidentLister
	Settings  driven.SettingsStore

	// Current is the loaded configuration.
	Current domain.Settings

	// CorpusPath is the corpus watched by "index watch".
	CorpusPath string

	// Metrics serves the Prometheus registry next to the MCP endpoint.
	Metrics http.Handler

	// Close releases storage and network clients.
	Close func() error
}

// Bootstrap builds the services once flags are parsed.
type Bootstrap func(ctx context.Context, configPath string) (*Services, error)

var (
	services  *Services
	bootstrap Bootstrap

	verbose    bool
	configPath string
)

// skipBootstrap marks commands that run without services.
const skipBootstrap = "skip-bootstrap"

var rootCmd = &cobra.Command{
	Use:   "fieldtriage",
	Short: "Triage logistics field worker questions",
	Long: `fieldtriage answers questions from delivery drivers and group leaders.

Every question passes a safety gate and an intent classifier. Routine
questions are answered from order data or the policy corpus, operational
problems get an in-app action, and risky cases are handed to a human with
an incident ticket.`,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.fieldtriage/config.toml)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that wires the services.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// Execute runs the command tree.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// Shutdown releases the services built during the run.
func Shutdown() error {
	if services == nil || services.Close == nil {
		return nil
	}
	return services.Close()
}

func prepare(cmd *cobra.Command, _ []string) error {
	if verbose {
		logger.SetVerbose(true)
	}
	if cmd.Annotations[skipBootstrap] == "true" || services != nil || bootstrap == nil {
		return nil
	}

	built, err := bootstrap(cmd.Context(), configPath)
	if err != nil {
		return err
	}
	services = built
	return nil
}

// errNotConfigured reports a missing service.
func errNotConfigured(name string) error {
	return errors.New(name + " not configured")
}
