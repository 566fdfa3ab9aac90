package main

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/michaelscutari/docstat/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "0.1.0"

var (
	cfgFile string
	verbose bool
	logger  = log.NewWithOptions(os.Stderr, log.Options{Prefix: "docstat"})
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "docstat [root] [collection]",
	Short: "Generate index pages and sidebars for a Markdown document tree",
	Long: `docstat walks a tree of Markdown documents and writes a README.md index
page and a _sidebar.md navigation file into every directory, with document
counts, estimated word counts and sizes rolled up per directory.

Without a subcommand it behaves like "docstat generate".`,
	Args:          cobra.MaximumNArgs(2),
	SilenceErrors: true,
	SilenceUsage:  true,
	PreRunE:       bindGenerateFlags,
	RunE:          runGenerate,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is ./.docstat.yaml or $HOME/.docstat.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	_ = viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))

	addGenerateFlags(rootCmd)

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(previewCmd)
}

// initConfig reads the config file, .env and DOCSTAT_* variables.
func initConfig() {
	_ = godotenv.Load()

	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".docstat")
	}

	viper.SetEnvPrefix("DOCSTAT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	readErr := viper.ReadInConfig()

	setupLogging()

	switch {
	case readErr == nil:
		logger.Debug("using config file", "path", viper.ConfigFileUsed())
	case cfgFile != "":
		logger.Warn("failed to read config file", "path", cfgFile, "err", readErr)
	}
}

func setupLogging() {
	if verbose {
		logger.SetLevel(log.DebugLevel)
		return
	}
	level, err := log.ParseLevel(viper.GetString(config.KeyLogLevel))
	if err != nil {
		logger.Warn("invalid log level, using info", "level", viper.GetString(config.KeyLogLevel))
		level = log.InfoLevel
	}
	logger.SetLevel(level)
}
