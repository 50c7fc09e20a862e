// Package main is the command line client for the image search backend.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/styleseeker/client/config"
	"github.com/styleseeker/client/pkg/log"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg is loaded by loadConfig for the commands that talk to the backend.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "styleseeker",
	Short: "Find visually similar products for an image",
	Long: `styleseeker uploads a JPEG or PNG image to the search backend and prints
the matching products with their thumbnail URLs.

The backend location is read from the same configuration as the web client
(config.yaml, .env or STYLESEEKER_* environment variables).`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./config.yaml, ./config/config.yaml or /etc/styleseeker/config.yaml)")
}

// loadConfig reads --config (or the default search paths) and builds the
// logger. version does not need it and never fails on a bad config.
func loadConfig(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	loaded, err := config.LoadFile(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded
	log.Init(cfg.Log.Level, cfg.Log.Format)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
