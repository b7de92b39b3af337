// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/luthersystems/errorpage/diagnostic"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	colorFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "errorpage",
	Short: "Error pages for Go HTTP services",
	Long: `errorpage renders the response for a failed HTTP request: an HTML page
showing the application source line that caused the error, a JSON object, or
the plain trace, depending on what the client accepts.

Getting started:
  errorpage serve                     Run a demo server with failing routes
  errorpage locate trace.log          Find the application frame in a trace
  go run . 2>&1 | errorpage locate    Inspect a panic trace from stdin

Configuration is read from $HOME/.errorpage.yaml (or --config) and from
ERRORPAGE_* environment variables, e.g. ERRORPAGE_SERVE_LISTEN=:9000.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(viper.GetString("log.level"))
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
		_, err = diagnostic.ParseColorMode(colorFlag)
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.errorpage.yaml)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error).")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(ServeCommand())
	rootCmd.AddCommand(LocateCommand())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".errorpage" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".errorpage")
	}

	viper.SetEnvPrefix("errorpage")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		logrus.WithField("file", viper.ConfigFileUsed()).Debug("using config file")
	}
}
