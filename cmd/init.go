package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ridoystarlord/schemashot/loader"
	"github.com/ridoystarlord/schemashot/schema"
)

var (
	initFile  string
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write an example schema file",
	Long: `Write an example schema file to start from.

The format follows the file extension: .json writes JSON, .yaml or .yml YAML.

Examples:
  schemashot init                     # Creates schema.yaml
  schemashot init --file schema.json
  schemashot init --force             # Overwrite an existing file`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := writeExampleSchema(initFile, initForce); err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Created %s\n", initFile)
		fmt.Println("📝 Next steps:")
		fmt.Printf("  1. Edit %s to describe your tables and relationships\n", initFile)
		fmt.Printf("  2. Run 'schemashot validate --schema %s'\n", initFile)
		fmt.Printf("  3. Run 'schemashot docs --file %s --format mermaid'\n", initFile)
	},
}

func init() {
	initCmd.Flags().StringVarP(&initFile, "file", "f", "schema.yaml", "Schema file to create")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite the file if it exists")
}

func writeExampleSchema(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if _, ok := loader.FormatFromPath(path); !ok {
		return fmt.Errorf("%s: schema files end in .json, .yaml or .yml", path)
	}
	return loader.SaveSchema(path, exampleSchema())
}

func exampleSchema() *schema.DatabaseSchema {
	id := func() schema.Column {
		return schema.Column{Name: "id", Type: "SERIAL", IsPrimaryKey: true}
	}
	fk := func(name string) schema.Column {
		return schema.Column{Name: name, Type: "INTEGER", IsForeignKey: true}
	}

	return schema.NewDatabaseSchema(
		[]schema.Table{
			{Name: "users", Columns: []schema.Column{
				id(),
				{Name: "email", Type: "TEXT"},
				{Name: "created_at", Type: "TIMESTAMP"},
			}},
			{Name: "profiles", Columns: []schema.Column{
				{Name: "user_id", Type: "INTEGER", IsPrimaryKey: true, IsForeignKey: true},
				{Name: "bio", Type: "TEXT"},
			}},
			{Name: "posts", Columns: []schema.Column{
				id(),
				fk("user_id"),
				{Name: "title", Type: "TEXT"},
			}},
			{Name: "tags", Columns: []schema.Column{
				id(),
				{Name: "label", Type: "TEXT"},
			}},
		},
		[]schema.Relationship{
			{FromTable: "users", FromColumn: "id", ToTable: "profiles", ToColumn: "user_id", Type: schema.OneToOne},
			{FromTable: "users", FromColumn: "id", ToTable: "posts", ToColumn: "user_id", Type: schema.OneToMany},
			{FromTable: "posts", FromColumn: "id", ToTable: "tags", ToColumn: "id", Type: schema.ManyToMany},
		},
	)
}
