package cli

import "flag"

// ServeFlags holds the CLI flags for the serve command.
type ServeFlags struct {
	ConfigPath string
	Port       int
	Verbose    bool
}

// ParseServeFlags parses command line flags for the serve command.
func ParseServeFlags() *ServeFlags {
	flags := &ServeFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "", "Path to config file (optional, env vars used otherwise)")
	flag.IntVar(&flags.Port, "port", 0, "Port to listen on (overrides config)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}

// MatchFlags holds the CLI flags for the venue-match command.
type MatchFlags struct {
	CatalogPath string
	Strategy    string
	Merchant    string
	Address     string
	Verbose     bool
}

// ParseMatchFlags parses command line flags for the venue-match command.
func ParseMatchFlags() *MatchFlags {
	flags := &MatchFlags{}
	flag.StringVar(&flags.CatalogPath, "catalog", "venue_profiles.json", "Path to the venue catalog JSON file")
	flag.StringVar(&flags.Strategy, "strategy", "similarity", "Match strategy: similarity or indexed")
	flag.StringVar(&flags.Merchant, "merchant", "", "Merchant name guess to match")
	flag.StringVar(&flags.Address, "address", "", "Merchant address guess")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}
