package cli

import (
	"fmt"
	"strings"

	"github.com/khatib49/Scan-ocr/internal/domain/matcher"
)

// PrintCatalogSummary prints a one-line summary of the loaded catalog.
func PrintCatalogSummary(catalog *matcher.Catalog, path string) {
	fmt.Printf("Catalog: %s | Profiles: %d | Indexed names: %d\n",
		path, len(catalog.Profiles), len(catalog.Index()))
}

// PrintMatchResult prints the outcome of a dry-run venue match.
func PrintMatchResult(merchant, address string, result matcher.MatchResult, verbose bool) {
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Merchant guess: %q", merchant)
	if address != "" {
		fmt.Printf(" | Address guess: %q", address)
	}
	fmt.Println()

	if !result.Matched {
		fmt.Println("No profile matched.")
		return
	}

	names := result.Profile.Names()
	primary := ""
	if len(names) > 0 {
		primary = names[0]
	}
	fmt.Printf("Matched profile: %s\n", primary)

	if r := result.Profile.Range(); r != nil {
		fmt.Printf("Spending range: %.2f - %.2f SAR\n", r.Low, r.High)
	}

	if verbose {
		if len(names) > 1 {
			fmt.Printf("Aliases: %s\n", strings.Join(names[1:], ", "))
		}
		if len(result.Hints) > 0 {
			fmt.Println("Extraction hints:")
			for k, v := range result.Hints {
				fmt.Printf("  %s: %s\n", k, v)
			}
		}
	}
}
