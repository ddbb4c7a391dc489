package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
)

var (
	retrieveLimit         int
	retrieveRegion        string
	retrieveClientVersion string
	retrieveJSON          bool
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Search the policy corpus",
	Long: `Performs hybrid retrieval across the policy corpus.
Combines keyword (TF-IDF) and semantic (vector) rankings with reciprocal rank fusion.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().IntVarP(&retrieveLimit, "limit", "n", 5, "maximum number of results")
	retrieveCmd.Flags().StringVar(&retrieveRegion, "region", "", "region code for policy filtering")
	retrieveCmd.Flags().StringVar(&retrieveClientVersion, "client-version", "", "client version for policy filtering")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	if services == nil || services.Retrieval == nil {
		return errNotConfigured("retrieval service")
	}

	opts := services.Current.Retrieval.Options(domain.MetadataFilter{
		Region:        retrieveRegion,
		ClientVersion: retrieveClientVersion,
	})
	opts.TopK = retrieveLimit

	results, err := services.Retrieval.Retrieve(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if retrieveJSON {
		return outputRetrieveJSON(cmd, results)
	}
	return outputRetrieveTable(cmd, results)
}

func outputRetrieveJSON(cmd *cobra.Command, results []domain.FusedResult) error {
	if results == nil {
		results = []domain.FusedResult{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputRetrieveTable(cmd *cobra.Command, results []domain.FusedResult) error {
	if len(results) == 0 {
		cmd.Println("No policies found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		cmd.Printf("  [%d] %s (%.4f)\n", i+1, r.DocumentID, r.Score)
		cmd.Printf("      %s\n", r.Text)
		if r.DeepLink != "" {
			cmd.Printf("      Link: %s\n", r.DeepLink)
		}
		cmd.Println()
	}
	return nil
}
