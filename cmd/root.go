/*
	Copyright 2024 Damla Alper
*/

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/damlalper/gr-pilot-engine-go/log"
	analyzeCmd "github.com/damlalper/gr-pilot-engine-go/pkg/cmd/analyze"
	compareCmd "github.com/damlalper/gr-pilot-engine-go/pkg/cmd/compare"
	migrateCmd "github.com/damlalper/gr-pilot-engine-go/pkg/cmd/migrate"
	scoreCmd "github.com/damlalper/gr-pilot-engine-go/pkg/cmd/score"
	sessionsCmd "github.com/damlalper/gr-pilot-engine-go/pkg/cmd/sessions"
	"github.com/damlalper/gr-pilot-engine-go/pkg/config"
	"github.com/damlalper/gr-pilot-engine-go/version"
)

const envPrefix = "GRP"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "grpilot",
	Short:   "Telemetry reconstruction and lap analysis for GR Cup track sessions",
	Long:    ``,
	Version: version.FullVersion,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger()
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

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.grpilot.yml)")

	rootCmd.PersistentFlags().StringVar(&config.DB, "db",
		"postgresql://DB_USERNAME:DB_USER_PASSWORD@DB_HOST:5432/grpilot",
		"Connection string for the database")
	rootCmd.PersistentFlags().StringVar(&config.WaitForServices,
		"wait-for-services",
		"15s",
		"Duration to wait for other services to be ready")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat,
		"log-format",
		"text",
		"controls the log output format (text, json)")
	rootCmd.PersistentFlags().StringVar(&config.LogConfig,
		"log-config",
		"",
		"log config file with level filter rules")
	rootCmd.PersistentFlags().Float64Var(&config.SpeedDeltaThreshold,
		"speed-delta-threshold",
		config.DefaultParams().SpeedDeltaThreshold,
		"speed delta (km/h) above which a comparison point counts as anomaly")
	rootCmd.PersistentFlags().IntVar(&config.MinLapFrames,
		"min-lap-frames",
		config.DefaultParams().MinLapFrames,
		"laps with fewer frames are tagged unreliable")

	// add commands here
	rootCmd.AddCommand(migrateCmd.NewMigrateCmd())
	rootCmd.AddCommand(analyzeCmd.NewAnalyzeCmd())
	rootCmd.AddCommand(compareCmd.NewCompareCmd())
	rootCmd.AddCommand(scoreCmd.NewScoreCmd())
	rootCmd.AddCommand(sessionsCmd.NewSessionsCmd())
}

func setupLogger() error {
	logCfg := log.DefaultConfig()
	if config.LogConfig != "" {
		var err error
		if logCfg, err = log.LoadConfig(config.LogConfig); err != nil {
			return fmt.Errorf("could not load log config %s: %w", config.LogConfig, err)
		}
	}
	if config.LogLevel != "" {
		logCfg.DefaultLevel = config.LogLevel
	}
	_, err := log.InitFromConfig(logCfg, config.LogFormat)
	return err
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".grpilot" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".grpilot")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
	for _, cmd := range rootCmd.Commands() {
		bindFlags(cmd, viper.GetViper())
	}
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --favorite-color to GRP_FAVORITE_COLOR
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}
