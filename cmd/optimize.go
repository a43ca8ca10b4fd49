package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ridoystarlord/schemashot/imageprep"
)

const (
	defaultScreenshot = "your_screenshot.png"
	defaultOptimized  = "optimized_screenshot.png"
	thresholdEnv      = "SCHEMASHOT_BRIGHTNESS_THRESHOLD"
)

var optimizeFormat string

var optimizeCmd = &cobra.Command{
	Use:   "optimize [input] [output]",
	Short: "Normalize a schema screenshot for text recognition",
	Long: `Normalize a screenshot so it reads as dark text on a light background.

Dark-mode screenshots (average brightness below the threshold) are inverted,
then every image gets a per-channel contrast stretch.

Examples:
  schemashot optimize                          # your_screenshot.png -> optimized_screenshot.png
  schemashot optimize erd.jpg clean.png
  schemashot optimize erd.png --threshold 100 --format json
  SCHEMASHOT_BRIGHTNESS_THRESHOLD=110 schemashot optimize erd.png
`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		input, output := defaultScreenshot, defaultOptimized
		if len(args) > 0 {
			input = args[0]
		}
		if len(args) > 1 {
			output = args[1]
		}

		// flag > SCHEMASHOT_BRIGHTNESS_THRESHOLD > config file > default
		threshold := viper.GetFloat64("optimize.threshold")

		if err := optimizeScreenshot(os.Stdout, input, output, threshold, optimizeFormat); err != nil {
			fmt.Printf("❌ Optimization failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	optimizeCmd.Flags().Float64P("threshold", "t", imageprep.DefaultThreshold, "Brightness below which an image is treated as dark mode (env "+thresholdEnv+")")
	viper.BindPFlag("optimize.threshold", optimizeCmd.Flags().Lookup("threshold"))
	viper.BindEnv("optimize.threshold", thresholdEnv)
	optimizeCmd.Flags().StringVarP(&optimizeFormat, "format", "f", "text", "Output format (text, json)")
}

func optimizeScreenshot(w io.Writer, input, output string, threshold float64, format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("unsupported format %q (use text or json)", format)
	}

	slog.Debug("optimizing screenshot", "input", input, "output", output, "threshold", threshold)
	result, err := imageprep.OptimizeFile(input, output, imageprep.Options{Threshold: threshold})
	if err != nil {
		return err
	}
	slog.Debug("screenshot optimized", "width", result.Width, "height", result.Height, "phash", fmt.Sprintf("%016x", result.PHash))

	if format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	fmt.Fprintf(w, "🔆 Average brightness: %.2f\n", result.AverageBrightness)
	if result.Inverted {
		fmt.Fprintln(w, "🌙 Dark mode detected, inverting colors")
	} else {
		fmt.Fprintln(w, "☀️  Light mode detected, skipping inversion")
	}
	fmt.Fprintf(w, "✅ Optimized screenshot saved to %s\n", result.Output)
	return nil
}
