package cli

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <source>",
	Short: "Download the first pages of a catalog without saving progress",
	Long: `Fetches pages 1..N of a catalog and prints the cards. Progress and the
stored catalog are left untouched. Only sources enabled for bulk fetching
are accepted (onepiece by default).`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntP("pages", "n", 1, "number of pages to fetch")
	fetchCmd.Flags().Bool("json", false, "print cards as JSON")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if bulkFetcher == nil {
		return errors.New("bulk fetch service not configured")
	}

	sourceID, err := domain.ParseSourceID(args[0])
	if err != nil {
		return err
	}
	pages, err := cmd.Flags().GetInt("pages")
	if err != nil {
		return fmt.Errorf("getting pages flag: %w", err)
	}

	cards, fetchErr := bulkFetcher.FetchBounded(cmd.Context(), sourceID, pages)
	if fetchErr != nil && len(cards) == 0 {
		return fmt.Errorf("fetch failed: %w", fetchErr)
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		if cards == nil {
			cards = []domain.UnifiedCard{}
		}
		data, err := json.MarshalIndent(cards, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding cards: %w", err)
		}
		cmd.Println(string(data))
	} else {
		for i := range cards {
			c := &cards[i]
			price := "-"
			if c.Price != nil {
				price = c.Price.StringFixed(2)
			}
			cmd.Printf("%-8s %-8s %-40s %-10s %s\n", c.SetCode, c.CardNumber, c.Name, c.Rarity, price)
		}
		cmd.Printf("%d cards\n", len(cards))
	}

	if fetchErr != nil {
		return fmt.Errorf("fetch stopped early: %w", fetchErr)
	}
	return nil
}
