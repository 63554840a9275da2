package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/teamdeck/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     address and port of the identity authority
//	-s string     path of the local storage database
//	-r string     roster YAML file
//	-i duration   carousel rotation interval (e.g. 8s)
//	-l string     log level
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-r", "-i", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.StoragePath, "s", cfg.StoragePath, "local storage database path")
	fs.StringVar(&cfg.RosterFile, "r", cfg.RosterFile, "roster YAML file")
	fs.DurationVar(&cfg.RotationInterval, "i", cfg.RotationInterval, "carousel rotation interval")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
