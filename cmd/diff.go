package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/schemashot/diff"
	"github.com/ridoystarlord/schemashot/generator"
	"github.com/ridoystarlord/schemashot/loader"
)

var (
	diffSQL      bool
	diffRollback bool
)

var diffCmd = &cobra.Command{
	Use:   "diff OLD NEW",
	Short: "Show differences between two schema files",
	Long: `Show the operations that turn the OLD schema into the NEW one.

Examples:
  schemashot diff old.yaml new.yaml              # Show differences with colors
  schemashot diff live.json recovered.yaml --sql # Print PostgreSQL DDL
  schemashot diff old.yaml new.yaml --sql --rollback
`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := diffSchemas(os.Stdout, args[0], args[1]); err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	diffCmd.Flags().BoolVar(&diffSQL, "sql", false, "Print PostgreSQL statements instead of operations")
	diffCmd.Flags().BoolVar(&diffRollback, "rollback", false, "With --sql, also print the statements that undo the change")
}

func diffSchemas(w io.Writer, oldFile, newFile string) error {
	from, err := loader.LoadSchema(oldFile)
	if err != nil {
		return fmt.Errorf("error loading %s: %w", oldFile, err)
	}
	to, err := loader.LoadSchema(newFile)
	if err != nil {
		return fmt.Errorf("error loading %s: %w", newFile, err)
	}

	operations := diff.Diff(from, to)
	if len(operations) == 0 {
		fmt.Fprintln(w, "✅ No differences found between the schemas")
		return nil
	}

	if !diffSQL {
		showTextDiff(w, operations)
		return nil
	}

	up, err := generator.GenerateSQL(operations)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "-- Up")
	fmt.Fprintln(w, strings.Join(up, "\n"))

	if diffRollback {
		down, err := generator.GenerateRollbackSQL(operations)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "\n-- Down")
		fmt.Fprintln(w, strings.Join(down, "\n"))
	}
	return nil
}

func showTextDiff(w io.Writer, operations []diff.Operation) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	fmt.Fprintf(w, "📋 %d change(s):\n", len(operations))
	for _, op := range operations {
		switch op.Type {
		case diff.CreateTable, diff.AddColumn, diff.AddRelationship:
			green.Fprintf(w, "  ➕ %s\n", op)
		case diff.DropTable, diff.DropColumn, diff.DropRelationship:
			red.Fprintf(w, "  ➖ %s\n", op)
		default:
			yellow.Fprintf(w, "  🔄 %s\n", op)
		}
	}
}
