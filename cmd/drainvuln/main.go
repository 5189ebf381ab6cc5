// SPDX-License-Identifier: MIT

// Command drainvuln ranks the nodes of a drainage network by vulnerability.
//
//	drainvuln analyze --nodes data/nodes.csv --edges data/edges.csv
//	drainvuln watch   --nodes data/nodes.csv --edges data/edges.csv
//	drainvuln history --db runs.db
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:           "drainvuln",
	Short:         "Drainage network vulnerability analysis",
	Long:          "drainvuln combines spectral graph centrality with hydraulic risk factors to rank drainage nodes by vulnerability.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default .drainvuln.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "console", "log format: console or json")
	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", pf.Lookup("log-format"))

	rootCmd.AddCommand(newAnalyzeCmd(), newWatchCmd(), newHistoryCmd())
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".drainvuln")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	// Running on defaults is fine; a broken explicit file is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "drainvuln: config: %v\n", err)
			os.Exit(2)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "drainvuln:", err)
		os.Exit(1)
	}
}
