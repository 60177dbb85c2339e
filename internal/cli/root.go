package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lettergeo/internal/model"
)

var (
	cfgFile   string
	verbose   bool
	dataDir   string
	outputDir string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lettergeo",
	Short: "Lettergeo - map the places mentioned in a historic letter corpus",
	Long: `Lettergeo mines a letter archive for place names and puts them on a map.

The preprocess pipeline parses the XML letters, runs named-entity
recognition, cleans and fuzzily deduplicates the detected place names and
writes a (loc,count) table. The geomap pipeline geocodes that table via
Nominatim and renders static and interactive maps.

Both pipelines checkpoint their intermediate tables as CSV, so expensive
steps (model inference, network geocoding) can be skipped on re-runs.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("lettergeo v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.lettergeo/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory for intermediate txt/csv checkpoints")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "directory for map artifacts")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.lettergeo")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match LETTERGEO_*
	viper.SetEnvPrefix("LETTERGEO")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig merges defaults, the config file and global flags.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	cfg.Output.Verbose = verbose
	if dataDir != "" {
		cfg.Corpus.DataDir = dataDir
	}
	if outputDir != "" {
		cfg.Render.OutputDir = outputDir
	}
	return cfg, nil
}
