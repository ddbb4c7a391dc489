package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var incidentsJSON bool

var incidentsCmd = &cobra.Command{
	Use:   "incidents",
	Short: "List incidents handed to human agents",
	Args:  cobra.NoArgs,
	RunE:  runIncidents,
}

func init() {
	incidentsCmd.Flags().BoolVar(&incidentsJSON, "json", false, "output incidents as JSON")
	rootCmd.AddCommand(incidentsCmd)
}

func runIncidents(cmd *cobra.Command, _ []string) error {
	if services == nil || services.Incidents == nil {
		return errNotConfigured("incident store")
	}

	records, err := services.Incidents.Incidents(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list incidents: %w", err)
	}

	if incidentsJSON {
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal incidents: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(records) == 0 {
		cmd.Println("No incidents.")
		return nil
	}
	for _, r := range records {
		cmd.Printf("%s  %s  %s  %s\n",
			r.ID, r.Snapshot.CreatedAt.Format("2006-01-02 15:04"), r.Snapshot.Intent, r.Snapshot.UserID)
		cmd.Printf("    %s\n", r.Snapshot.Question)
	}
	return nil
}
