package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RenderMigration lays out up and down statements as one .sql document.
func RenderMigration(version string, up, down []string) string {
	var content strings.Builder

	content.WriteString("-- Migration: " + version + "\n")
	content.WriteString("-- Description: Generated by schemashot\n\n")

	content.WriteString("-- Up Migration\n")
	content.WriteString("-- ============\n")
	for _, stmt := range up {
		content.WriteString(stmt + "\n")
	}

	content.WriteString("\n-- Down Migration (Rollback)\n")
	content.WriteString("-- =======================\n")
	for _, stmt := range down {
		content.WriteString(stmt + "\n")
	}

	return content.String()
}

// WriteMigrationFile saves the statements into dir/<timestamp>_<name>.sql,
// creating dir when needed, and returns the path.
func WriteMigrationFile(dir, name string, at time.Time, up, down []string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating migrations folder: %w", err)
	}

	version := at.UTC().Format("20060102150405")
	filename := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", version, name))

	if err := os.WriteFile(filename, []byte(RenderMigration(version, up, down)), 0644); err != nil {
		return "", fmt.Errorf("writing migration file: %w", err)
	}
	return filename, nil
}
