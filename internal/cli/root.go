// Package cli implements the airkeys command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ayusman/airkeys/internal/config"
	"github.com/ayusman/airkeys/internal/logx"
	"github.com/spf13/cobra"
)

const version = "dev"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "airkeys",
	Short: "A virtual keyboard you type on by pinching in front of a camera",
	Long: `airkeys tracks your hands with a webcam, draws a keyboard over the video
and types a key whenever you pinch your thumb and index finger over it.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func initConfig() {
	logx.SetVerbose(verbose)
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.airkeys/config.toml)")
}

// Execute runs the root command. Commands stop when ctx is cancelled.
func Execute(ctx context.Context) error {
	// enable microseconds in logs
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	return rootCmd.ExecuteContext(ctx)
}

// loadConfig loads the config file and applies the flags common to run and
// replay.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("layout") {
		cfg.Layout = layoutName
	}
	if flags.Changed("injector") {
		cfg.Injector.Kind = injectorKind
	}
	if flags.Changed("serve") {
		cfg.Server.Enabled = true
		cfg.Server.Addr = serveAddr
	}
	if flags.Changed("no-history") {
		cfg.History.Enabled = !noHistory
	}
	if flags.Changed("hud") {
		cfg.HUD = hud
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// printJson is a helper function to print JSON responses
func printJson(data interface{}) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(jsonData))
}
