package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/mailgate/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   webhook HTTP bind address (e.g. ":8000")
//	-g string   account API gRPC bind address (e.g. ":50051")
//	-d string   PostgreSQL DSN
//	-m string   mail domain
//	-f string   From address for forwarded mail
//	-p string   forwarding provider: smtp, ses, stdout or "" to disable
//	-t duration forwarding timeout (e.g. "30s")
//	-b string   S3 archive bucket
//	-l string   log level
//
// os.Args is filtered through flagx.FilterArgs first so that flags owned by
// other components (-c/-config) do not cause a parse error.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-m", "-f", "-p", "-t", "-b", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "webhook HTTP address")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "account API gRPC address")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.MailDomain, "m", config.MailDomain, "mail domain")
	fs.StringVar(&config.ForwardFrom, "f", config.ForwardFrom, "From address for forwarded mail")
	fs.StringVar(&config.ForwardProvider, "p", config.ForwardProvider, "forwarding provider (smtp, ses, stdout)")
	fs.DurationVar(&config.ForwardTimeout, "t", config.ForwardTimeout, "forwarding timeout")
	fs.StringVar(&config.ArchiveBucket, "b", config.ArchiveBucket, "S3 archive bucket")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
