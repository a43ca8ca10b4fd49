package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/schemashot/loader"
	"github.com/ridoystarlord/schemashot/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a schema file",
	Long: `Validate a schema file in two passes.

The structural pass rejects documents that do not have the shape of a schema
(missing fields, wrong types) and reports the exact path of the problem.
The referential pass then checks:
- Table and column names are present and unique
- Every table has columns, and ideally a primary key
- Relationship endpoints point at declared tables and columns
- Foreign key columns are used by some relationship

Examples:
  schemashot validate                         # Validate schema.yaml
  schemashot validate --schema recovered.json
  schemashot validate --format json           # Output validation results as JSON
`,
	Run: func(cmd *cobra.Command, args []string) {
		valid, err := validateSchema(os.Stdout, validateSchemaFile, validateFormat)
		if err != nil {
			fmt.Printf("❌ Schema validation failed: %v\n", err)
			os.Exit(1)
		}
		if !valid {
			os.Exit(1)
		}
	},
}

var (
	validateSchemaFile string
	validateFormat     string
)

func init() {
	validateCmd.Flags().StringVarP(&validateSchemaFile, "schema", "s", "schema.yaml", "Schema file to validate")
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "text", "Output format (text, json)")
}

func validateSchema(w io.Writer, file, format string) (bool, error) {
	s, err := loader.LoadSchema(file)
	if err != nil {
		return false, fmt.Errorf("failed to load schema: %w", err)
	}

	result := validator.Validate(s)

	switch format {
	case "json":
		return result.Valid, outputJSON(w, result)
	case "text":
		outputText(w, result)
		return result.Valid, nil
	}
	return false, fmt.Errorf("unsupported format %q (use text or json)", format)
}

func outputJSON(w io.Writer, result *validator.ValidationResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputText(w io.Writer, result *validator.ValidationResult) {
	if result.Valid {
		color.New(color.FgGreen).Fprintln(w, "✅ Schema validation passed!")
	} else {
		color.New(color.FgRed).Fprintln(w, "❌ Schema validation failed!")
	}

	printFindings(w, "🔴 Errors", result.Errors)
	printFindings(w, "🟡 Warnings", result.Warnings)
	printFindings(w, "🔵 Info", result.Info)

	fmt.Fprintf(w, "\n📊 Summary:\n")
	fmt.Fprintf(w, "  • Errors: %d\n", len(result.Errors))
	fmt.Fprintf(w, "  • Warnings: %d\n", len(result.Warnings))
	fmt.Fprintf(w, "  • Info: %d\n", len(result.Info))

	if !result.Valid {
		fmt.Fprintf(w, "\n💡 Fix the errors above before generating DDL or docs.\n")
	}
}

func printFindings(w io.Writer, title string, findings []validator.ValidationError) {
	if len(findings) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s (%d):\n", title, len(findings))
	for i, f := range findings {
		fmt.Fprintf(w, "  %d. ", i+1)
		if f.Table != "" {
			fmt.Fprintf(w, "[%s]", f.Table)
		}
		if f.Column != "" {
			fmt.Fprintf(w, ".%s", f.Column)
		}
		if f.Relationship != "" {
			fmt.Fprintf(w, " (relationship: %s)", f.Relationship)
		}
		fmt.Fprintf(w, ": %s\n", f.Message)
	}
}
