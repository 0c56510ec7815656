package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/svggraph/internal/config"
	"github.com/xkilldash9x/svggraph/internal/observability"
)

var (
	cfgFile string

	// Populated by PersistentPreRunE and consumed by the subcommands.
	rootCfg    *config.Config
	rootLogger *zap.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "svggraph",
	Short:         "svggraph converts SVG markup into a validated, typed graph.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Environment files are optional; absence is not an error.
		_ = godotenv.Load()

		if err := initializeConfig(); err != nil {
			return fmt.Errorf("failed to initialize configuration: %w", err)
		}

		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return fmt.Errorf("failed to unmarshal config: %w", err)
		}
		rootCfg = cfg
		rootLogger = observability.NewLogger(cfg.Logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if rootLogger != nil {
			_ = rootLogger.Sync()
		}
	},
}

// Execute runs the root command with a context for graceful shutdown.
func Execute(ctx context.Context) error {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if rootLogger != nil && ctx.Err() == nil {
			rootLogger.Error("Command execution failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeConfig reads in the config file and environment variables if set.
func initializeConfig() error {
	v := viper.GetViper()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("SVGGRAPH")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; the defaults carry the engine.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}
