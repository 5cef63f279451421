package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/seqcrdt/logootsplit"
)

var (
	cfgFile string
	verbose bool
	logger  *zap.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "logootsplitctl",
		Short: "Simulate and replay logootsplit sequence CRDT operations",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogging()
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.logootsplitctl.yaml)")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug-level logging")

	cobra.OnInitialize(initConfig)

	root.AddCommand(newSimulateCmd())
	root.AddCommand(newRenderCmd())

	return root
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".logootsplitctl")
		viper.AddConfigPath("$HOME")
	}
	viper.SetEnvPrefix("LOGOOTSPLITCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.ReadInConfig() // absent config file is not an error for this CLI
}

func initLogging() error {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	logger = l
	logootsplit.SetLogger(l)
	return nil
}
