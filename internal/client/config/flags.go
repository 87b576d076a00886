package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/mailgate/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string     address and port of the account API
//	-t duration   per-request timeout (e.g. "10s")
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
