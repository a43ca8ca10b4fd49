package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ridoystarlord/schemashot/loader"
	"github.com/ridoystarlord/schemashot/schema"
)

var (
	docsFormat string
	docsOutput string
	docsFile   string
)

type diagram struct {
	filename string
	render   func(*schema.DatabaseSchema) string
}

var diagrams = map[string]diagram{
	"plantuml": {"erd.puml", generatePlantUMLContent},
	"mermaid":  {"erd.md", generateMermaidContent},
	"graphviz": {"erd.dot", generateGraphvizContent},
}

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Generate ERD diagrams from a schema file",
	Long: `Generate ERD diagrams from a schema file.

Supported formats:
  - plantuml: PlantUML ERD diagram
  - mermaid: Mermaid ERD diagram
  - graphviz: Graphviz DOT format
  - all: every format above, written into the --output directory

Examples:
  schemashot docs --format plantuml --output erd.puml
  schemashot docs --format mermaid --file recovered.json
  schemashot docs --format all --output docs/
`,
	Run: func(cmd *cobra.Command, args []string) {
		s, err := loader.LoadSchema(docsFile)
		if err != nil {
			fmt.Printf("❌ Error loading schema: %v\n", err)
			os.Exit(1)
		}

		if len(s.Tables) == 0 {
			fmt.Println("❌ No tables found in schema")
			os.Exit(1)
		}

		if docsFormat == "all" {
			if err := generateAllFormats(s, docsOutput); err != nil {
				fmt.Printf("❌ %v\n", err)
				os.Exit(1)
			}
			fmt.Println("✅ Documentation generated successfully!")
			return
		}

		d, ok := diagrams[docsFormat]
		if !ok {
			fmt.Printf("❌ Unsupported format: %s\n", docsFormat)
			fmt.Println("Supported formats: plantuml, mermaid, graphviz, all")
			os.Exit(1)
		}

		output := docsOutput
		if output == "" {
			output = d.filename
		}
		if err := os.WriteFile(output, []byte(d.render(s)), 0644); err != nil {
			fmt.Printf("❌ Error writing %s file: %v\n", docsFormat, err)
			os.Exit(1)
		}
		fmt.Printf("✅ %s ERD saved to: %s\n", docsFormat, output)
	},
}

func generateAllFormats(s *schema.DatabaseSchema, dir string) error {
	if dir == "" {
		dir = "docs"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	for _, name := range []string{"plantuml", "mermaid", "graphviz"} {
		d := diagrams[name]
		path := filepath.Join(dir, d.filename)
		if err := os.WriteFile(path, []byte(d.render(s)), 0644); err != nil {
			return fmt.Errorf("error writing %s file: %w", name, err)
		}
		fmt.Printf("  - %s: %s\n", name, path)
	}
	return nil
}

// crowsFoot returns the ER notation shared by PlantUML and Mermaid.
func crowsFoot(t schema.RelationType) string {
	switch t {
	case schema.OneToOne:
		return "||--||"
	case schema.ManyToMany:
		return "}o--o{"
	default:
		return "||--o{"
	}
}

func columnTags(col schema.Column) []string {
	var tags []string
	if col.IsPrimaryKey {
		tags = append(tags, "PK")
	}
	if col.IsForeignKey {
		tags = append(tags, "FK")
	}
	return tags
}

func generatePlantUMLContent(s *schema.DatabaseSchema) string {
	var content strings.Builder

	content.WriteString("@startuml\n")
	content.WriteString("!theme plain\n")
	content.WriteString("skinparam linetype ortho\n\n")

	for _, table := range s.Tables {
		content.WriteString(fmt.Sprintf("entity \"%s\" {\n", table.Name))
		for _, col := range table.Columns {
			line := fmt.Sprintf("  %s : %s", col.Name, strings.ToUpper(col.Type))
			for _, tag := range columnTags(col) {
				line += fmt.Sprintf(" <<%s>>", tag)
			}
			content.WriteString(line + "\n")
		}
		content.WriteString("}\n\n")
	}

	for _, rel := range s.Relationships {
		content.WriteString(fmt.Sprintf("\"%s\" %s \"%s\" : \"%s\"\n",
			rel.FromTable, crowsFoot(rel.Type), rel.ToTable, rel.ToColumn))
	}

	content.WriteString("@enduml\n")
	return content.String()
}

func generateMermaidContent(s *schema.DatabaseSchema) string {
	var content strings.Builder

	content.WriteString("# Database Schema ERD\n\n")
	content.WriteString("```mermaid\nerDiagram\n")

	for _, table := range s.Tables {
		content.WriteString(fmt.Sprintf("    %s {\n", table.Name))
		for _, col := range table.Columns {
			// Mermaid attribute types cannot contain spaces or parentheses.
			typ := strings.NewReplacer(" ", "_", "(", "_", ")", "", ",", "_").Replace(strings.ToUpper(col.Type))
			line := fmt.Sprintf("        %s %s", typ, col.Name)
			if tags := columnTags(col); len(tags) > 0 {
				line += " " + strings.Join(tags, ",")
			}
			content.WriteString(line + "\n")
		}
		content.WriteString("    }\n")
	}

	for _, rel := range s.Relationships {
		content.WriteString(fmt.Sprintf("    %s %s %s : %s\n",
			rel.FromTable, crowsFoot(rel.Type), rel.ToTable, rel.ToColumn))
	}

	content.WriteString("```\n")
	return content.String()
}

func generateGraphvizContent(s *schema.DatabaseSchema) string {
	var content strings.Builder

	content.WriteString("digraph ERD {\n")
	content.WriteString("  rankdir=LR;\n")
	content.WriteString("  node [shape=record];\n\n")

	for _, table := range s.Tables {
		var columns []string
		for _, col := range table.Columns {
			line := fmt.Sprintf("%s: %s", col.Name, strings.ToUpper(col.Type))
			for _, tag := range columnTags(col) {
				line += fmt.Sprintf(" (%s)", tag)
			}
			columns = append(columns, line)
		}
		content.WriteString(fmt.Sprintf("  %s [label=\"%s|%s\\l\"];\n",
			table.Name, table.Name, strings.Join(columns, "\\l")))
	}

	for _, rel := range s.Relationships {
		content.WriteString(fmt.Sprintf("  %s -> %s [label=\"%s (%s)\"];\n",
			rel.FromTable, rel.ToTable, rel.ToColumn, rel.Type))
	}

	content.WriteString("}\n")
	return content.String()
}

func init() {
	docsCmd.Flags().StringVarP(&docsFormat, "format", "f", "plantuml", "Output format (plantuml, mermaid, graphviz, all)")
	docsCmd.Flags().StringVarP(&docsOutput, "output", "o", "", "Output file or directory (default: format-specific filename)")
	docsCmd.Flags().StringVarP(&docsFile, "file", "", "schema.yaml", "Schema file to use")
}
