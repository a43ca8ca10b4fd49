package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ridoystarlord/schemashot/database"
	"github.com/ridoystarlord/schemashot/diff"
	"github.com/ridoystarlord/schemashot/generator"
	"github.com/ridoystarlord/schemashot/introspect"
	"github.com/ridoystarlord/schemashot/loader"
	"github.com/ridoystarlord/schemashot/runner"
	"github.com/ridoystarlord/schemashot/schema"
	"github.com/ridoystarlord/schemashot/utils"
	"github.com/ridoystarlord/schemashot/validator"
)

var (
	applySchemaFile string
	applyURL        string
	applyDryRun     bool
	applyTimeout    time.Duration
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Bring a PostgreSQL database in line with a schema file",
	Long: `Introspect the target database, diff it against the schema file and run the
resulting DDL in a single transaction.

Examples:
  schemashot apply --schema schema.yaml --dry-run   # Preview the SQL
  schemashot apply --schema schema.yaml
  schemashot apply --database-url postgres://localhost/app --schema recovered.json
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := applySchema(cmd.Context()); err != nil {
			fmt.Println("❌ Apply failed:", err)
			os.Exit(1)
		}
	},
}

func init() {
	applyCmd.Flags().StringVarP(&applySchemaFile, "schema", "s", "schema.yaml", "Schema file to apply")
	applyCmd.Flags().StringVar(&applyURL, "database-url", "", "Database URL (default: DATABASE_URL)")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Preview the SQL that would be executed without applying it")
	applyCmd.Flags().DurationVarP(&applyTimeout, "timeout", "t", time.Minute, "Timeout for the whole run")
}

func applySchema(parent context.Context) error {
	target, err := loader.LoadSchema(applySchemaFile)
	if err != nil {
		return fmt.Errorf("failed to load schema: %w", err)
	}
	if result := validator.Validate(target); !result.Valid {
		return fmt.Errorf("schema has %d validation error(s); run 'schemashot validate --schema %s'", len(result.Errors), applySchemaFile)
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, applyTimeout)
	defer cancel()

	url := applyURL
	if url == "" {
		if url, err = utils.GetDatabaseURL(); err != nil {
			return err
		}
	}
	conn, err := database.Open(ctx, url)
	if err != nil {
		return err
	}
	defer conn.Close()

	if conn.Driver != database.Postgres {
		return fmt.Errorf("apply emits PostgreSQL DDL; %s databases are read-only here", conn.Driver)
	}

	live, err := introspect.Introspect(ctx, conn, introspect.Options{})
	if err != nil {
		return err
	}

	stmts, upToDate, err := planApply(live, target)
	if err != nil {
		return err
	}
	if upToDate {
		fmt.Println("✅ Database already matches the schema")
		return nil
	}

	if applyDryRun {
		fmt.Println("📄 SQL that would be executed:")
		for _, stmt := range stmts {
			fmt.Println("  ", stmt)
		}
	}

	report, err := runner.Apply(ctx, conn, stmts, applyDryRun)
	if err != nil {
		return err
	}
	if report.DryRun {
		fmt.Printf("🔍 Dry run: %d statement(s) not applied (checksum %s)\n", len(stmts)-report.Skipped, report.Checksum[:12])
		return nil
	}
	fmt.Printf("✅ Applied %d statement(s) in %v (checksum %s)\n", report.Executed, report.ExecutionTime.Round(time.Millisecond), report.Checksum[:12])
	return nil
}

// planApply renders the DDL that moves live to target. upToDate is true when
// none of it would execute: many-to-many relationships render as comments
// and never show up in introspection.
func planApply(live, target *schema.DatabaseSchema) (stmts []string, upToDate bool, err error) {
	stmts, err = generator.GenerateSQL(diff.Diff(live, target))
	if err != nil {
		return nil, false, err
	}
	return stmts, len(runner.Pending(stmts)) == 0, nil
}
