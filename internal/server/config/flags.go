package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/teamdeck/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      JWT validity, minutes
//	-v int      session validity, minutes
//	-l string   log level
//
// Validity flags are integers in minutes and converted to time.Duration.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-v", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	jwtValidity := fs.Int("t", int(config.JWTValidity.Minutes()), "jwt validity (in minutes)")
	sessionValidity := fs.Int("v", int(config.SessionValidity.Minutes()), "session validity (in minutes)")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.JWTValidity = time.Duration(*jwtValidity) * time.Minute
	config.SessionValidity = time.Duration(*sessionValidity) * time.Minute
}
