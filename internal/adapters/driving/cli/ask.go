package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
)

var (
	askUserID        string
	askRole          string
	askRegion        string
	askClientVersion string
	askLat           float64
	askLng           float64
	askJSON          bool
)

// stdin is swapped in tests.
var stdin io.Reader = os.Stdin

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Triage a single question",
	Long: `Runs one question through the triage pipeline and prints the outcome.

When no question is given and stdin is not a terminal, the question is read
from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askUserID, "user", "cli", "asking user ID")
	askCmd.Flags().StringVar(&askRole, "role", string(domain.RoleDriver), "user role (driver or group_leader)")
	askCmd.Flags().StringVar(&askRegion, "region", "", "region code for policy filtering")
	askCmd.Flags().StringVar(&askClientVersion, "client-version", "", "client version for policy filtering")
	askCmd.Flags().Float64Var(&askLat, "lat", 0, "device latitude")
	askCmd.Flags().Float64Var(&askLng, "lng", 0, "device longitude")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the outcome as JSON")
	rootCmd.AddCommand(askCmd)
}

// askOutcome is the JSON form of a triage outcome.
type askOutcome struct {
	Kind          domain.ResponseKind   `json:"kind"`
	Text          string                `json:"text"`
	DeepLink      string                `json:"deep_link,omitempty"`
	RequiresHuman bool                  `json:"requires_human"`
	TicketCreated bool                  `json:"ticket_created"`
	Intent        domain.Intent         `json:"intent,omitempty"`
	Confidence    float64               `json:"confidence"`
	Reason        domain.FallbackReason `json:"reason,omitempty"`
	Trail         []domain.Stage        `json:"trail"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	if services == nil || services.Triage == nil {
		return errNotConfigured("triage service")
	}

	text, err := questionText(args)
	if err != nil {
		return err
	}

	q := domain.Query{
		Text:   text,
		UserID: askUserID,
		Role:   domain.UserRole(askRole),
		Context: domain.RequestContext{
			Region:        askRegion,
			ClientVersion: askClientVersion,
		},
	}
	if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
		q.Context.Geo = &domain.GeoPoint{Lat: askLat, Lng: askLng}
	}

	state := services.Triage.Triage(cmd.Context(), q)

	outcome := askOutcome{
		Text:          state.Text(),
		DeepLink:      state.DeepLink(),
		RequiresHuman: state.RequiresHuman(),
		TicketCreated: state.TicketCreated(),
		Intent:        state.Classification.Intent,
		Confidence:    state.Classification.Confidence,
		Reason:        state.Reason,
		Trail:         state.Trail,
	}
	if resp := state.Response(); resp != nil {
		outcome.Kind = resp.Kind()
	}

	if askJSON {
		data, err := json.MarshalIndent(outcome, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal outcome: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(outcome.Text)
	if outcome.DeepLink != "" {
		cmd.Printf("Link: %s\n", outcome.DeepLink)
	}
	if verbose {
		cmd.Println()
		cmd.Printf("  Kind:       %s\n", outcome.Kind)
		cmd.Printf("  Intent:     %s (%.2f)\n", outcome.Intent, outcome.Confidence)
		cmd.Printf("  Human:      %t\n", outcome.RequiresHuman)
		if outcome.Reason != domain.ReasonNone {
			cmd.Printf("  Reason:     %s\n", outcome.Reason)
		}
		cmd.Printf("  Trail:      %s\n", joinStages(outcome.Trail))
	}
	return nil
}

func questionText(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", errors.New("a question is required")
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", errors.New("a question is required")
	}
	return text, nil
}

func joinStages(stages []domain.Stage) string {
	parts := make([]string, len(stages))
	for i, s := range stages {
		parts[i] = string(s)
	}
	return strings.Join(parts, " -> ")
}
