package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ridoystarlord/schemashot/utils"
)

var (
	verbose bool
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "schemashot",
	Short: "Turn database screenshots and schemas into clean, checked artifacts",
	Long: `schemashot prepares database schema screenshots for recognition and works
with the structured schema recovered from them.

Examples:

  schemashot optimize diagram.png clean.png
  schemashot validate --schema schema.yaml
  schemashot introspect --output schema.yaml
  schemashot diff old.yaml new.yaml --sql
  schemashot apply --schema schema.yaml --dry-run
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(verbose)
		utils.LoadEnv()
		return utils.LoadConfig(cfgFile)
	},
}

func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}

// Register subcommands
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log diagnostics to stderr")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: .schemashot.yaml if present)")

	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(introspectCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(applyCmd)
}
