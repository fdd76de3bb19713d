/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	logger  = zap.NewNop()
	stopFns []func()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gofvm",
	Short: "Finite volume solvers on structured meshes",
	Long: `
Explicit finite volume solvers for the Euler equations, scalar advection and a
two phase flow model on structured rectangular meshes.

gofvm 2D -I case.yaml`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		if logger, err = newLogger(viper.GetBool("verbose")); err != nil {
			return
		}
		if viper.GetBool("profile") {
			p := profile.Start(profile.CPUProfile, profile.ProfilePath(viper.GetString("profileDir")), profile.Quiet)
			stopFns = append(stopFns, p.Stop)
			logger.Info("cpu profiling", zap.String("dir", viper.GetString("profileDir")))
		}
		if viper.GetBool("perf") {
			var stop func()
			if stop, err = startPerf(logger); err != nil {
				return
			}
			stopFns = append(stopFns, stop)
		}
		return
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		for i := len(stopFns) - 1; i >= 0; i-- {
			stopFns[i]()
		}
		stopFns = nil
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commandContext is cancelled on interrupt when run from Execute
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	cobra.OnInitialize(initConfig)
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gofvm.yaml)")
	pf.BoolP("verbose", "v", false, "debug level logging")
	pf.Bool("profile", false, "write a CPU profile")
	pf.String("profileDir", ".", "directory for the CPU profile")
	pf.Bool("perf", false, "count retired instructions with hardware counters (Linux)")
	for _, name := range []string{"verbose", "profile", "profileDir", "perf"} {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		// Search config in home directory with name ".gofvm" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".gofvm")
	}
	viper.SetEnvPrefix("GOFVM")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
