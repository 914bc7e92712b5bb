// venue-match is a catalog dry-run tool: load a venue catalog and see
// which profile a merchant/address guess resolves to, without calling
// any vision model.
package main

import (
	"fmt"
	"os"

	"github.com/khatib49/Scan-ocr/internal/cli"
	"github.com/khatib49/Scan-ocr/internal/domain/matcher"
)

func main() {
	flags := cli.ParseMatchFlags()

	if flags.Merchant == "" && flags.Address == "" {
		fmt.Fprintln(os.Stderr, "at least one of -merchant or -address is required")
		os.Exit(2)
	}

	catalog, err := matcher.LoadCatalog(flags.CatalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load catalog: %v\n", err)
		os.Exit(1)
	}

	cli.PrintCatalogSummary(catalog, flags.CatalogPath)

	store := matcher.NewStore(catalog)
	strategy := matcher.ForName(flags.Strategy, store)
	result := strategy.Match(flags.Merchant, flags.Address)

	cli.PrintMatchResult(flags.Merchant, flags.Address, result, flags.Verbose)

	if !result.Matched {
		os.Exit(1)
	}
}
