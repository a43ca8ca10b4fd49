package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ridoystarlord/schemashot/diff"
	"github.com/ridoystarlord/schemashot/generator"
	"github.com/ridoystarlord/schemashot/loader"
	"github.com/ridoystarlord/schemashot/schema"
)

var (
	generateSchemaFile string
	generateFrom       string
	generateDir        string
	dryRunGenerate     bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateSchemaFile, "schema", "s", "schema.yaml", "Schema file describing the target state")
	generateCmd.Flags().StringVar(&generateFrom, "from", "", "Schema file describing the current state (default: empty database)")
	generateCmd.Flags().StringVarP(&generateDir, "dir", "d", "migrations", "Directory for migration files")
	generateCmd.Flags().BoolVar(&dryRunGenerate, "dry-run", false, "Preview the SQL that would be generated without writing files")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a PostgreSQL migration file from schema files",
	Long: `Write a timestamped migration file with up and down sections.

Without --from the migration creates the whole schema from scratch.

Examples:
  schemashot generate                                 # Create everything in schema.yaml
  schemashot generate --from old.yaml --schema new.yaml
  schemashot generate --dry-run
`,
	Run: func(cmd *cobra.Command, args []string) {
		target, err := loader.LoadSchema(generateSchemaFile)
		if err != nil {
			fmt.Println("❌ Loading schema:", err)
			os.Exit(1)
		}

		current := schema.NewDatabaseSchema(nil, nil)
		if generateFrom != "" {
			if current, err = loader.LoadSchema(generateFrom); err != nil {
				fmt.Println("❌ Loading current schema:", err)
				os.Exit(1)
			}
		}

		ops := diff.Diff(current, target)
		if len(ops) == 0 {
			fmt.Println("✅ No changes detected.")
			return
		}

		sqls, err := generator.GenerateSQL(ops)
		if err != nil {
			fmt.Println("❌ Generating SQL:", err)
			os.Exit(1)
		}

		rollbackSqls, err := generator.GenerateRollbackSQL(ops)
		if err != nil {
			fmt.Println("❌ Generating rollback SQL:", err)
			os.Exit(1)
		}

		if dryRunGenerate {
			fmt.Println("\n================ DRY RUN: Migration Preview ================")
			fmt.Print(generator.RenderMigration("preview", sqls, rollbackSqls))
			fmt.Println("============================================================")
			fmt.Println("(Dry run only. No files were written.)")
			return
		}

		filename, err := generator.WriteMigrationFile(generateDir, "schema", time.Now(), sqls, rollbackSqls)
		if err != nil {
			fmt.Println("❌ Writing migration file:", err)
			os.Exit(1)
		}

		fmt.Println("✅ Migration generated:", filename)
	},
}
