package main

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/techpack-csv/cmd/batch"
	"fjacquet/techpack-csv/cmd/extract"
	"fjacquet/techpack-csv/cmd/field"
	"fjacquet/techpack-csv/cmd/list"
	"fjacquet/techpack-csv/cmd/root"
	"fjacquet/techpack-csv/cmd/serve"
	"fjacquet/techpack-csv/internal/config"
	"fjacquet/techpack-csv/internal/logging"

	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	config.LoadEnv()

	// 2. Force the early log level on every logger until the configuration is read
	logging.SetAllLogLevels(earlyLogLevel())

	// 3. Now that logging is configured, initialize root command
	root.Init()

	// 4. Add all subcommands
	root.Cmd.AddCommand(extract.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(field.Cmd)
	root.Cmd.AddCommand(list.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

// earlyLogLevel reads TECHPACK_LOG_LEVEL without going through the full
// configuration, so messages emitted while loading it are filtered too.
func earlyLogLevel() logrus.Level {
	level, err := logrus.ParseLevel(strings.ToLower(config.GetEnv(config.EnvPrefix+"_LOG_LEVEL", "info")))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
