package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridoystarlord/schemashot/schema"
)

func blog() *schema.DatabaseSchema {
	return &schema.DatabaseSchema{
		Tables: []schema.Table{
			{Name: "users", Columns: []schema.Column{{Name: "id", Type: "INTEGER", IsPrimaryKey: true}}},
			{Name: "posts", Columns: []schema.Column{
				{Name: "id", Type: "INTEGER", IsPrimaryKey: true},
				{Name: "user_id", Type: "INTEGER", IsForeignKey: true},
			}},
		},
		Relationships: []schema.Relationship{
			{FromTable: "users", FromColumn: "id", ToTable: "posts", ToColumn: "user_id", Type: schema.OneToMany},
		},
	}
}

func types(findings []ValidationError) []string {
	out := []string{}
	for _, f := range findings {
		out = append(out, f.Type)
	}
	return out
}

func TestValidate(t *testing.T) {
	t.Run("empty schema", func(t *testing.T) {
		r := Validate(schema.NewDatabaseSchema(nil, nil))
		assert.True(t, r.Valid)
		assert.Empty(t, r.Errors)
		assert.Empty(t, r.Warnings)
	})

	t.Run("consistent schema", func(t *testing.T) {
		r := Validate(blog())
		assert.True(t, r.Valid)
		assert.Empty(t, r.Warnings)
		assert.Empty(t, r.Info)
	})

	test := []struct {
		name     string
		mutate   func(s *schema.DatabaseSchema)
		valid    bool
		errors   []string
		warnings []string
		info     []string
	}{
		{
			name:   "unknown table",
			mutate: func(s *schema.DatabaseSchema) { s.Relationships[0].ToTable = "articles" },
			errors: []string{"relationship_table_not_found"},
			info:   []string{"foreign_key_without_relationship"},
		},
		{
			name:   "unknown column",
			mutate: func(s *schema.DatabaseSchema) { s.Relationships[0].FromColumn = "uuid" },
			errors: []string{"relationship_column_not_found"},
		},
		{
			name:   "empty endpoint",
			mutate: func(s *schema.DatabaseSchema) { s.Relationships[0].FromTable = "" },
			errors: []string{"relationship_endpoint"},
		},
		{
			name:     "unconventional type",
			mutate:   func(s *schema.DatabaseSchema) { s.Relationships[0].Type = "one-to-many" },
			valid:    true,
			warnings: []string{"relationship_type"},
		},
		{
			name:   "duplicate table",
			mutate: func(s *schema.DatabaseSchema) { s.Tables = append(s.Tables, s.Tables[0]) },
			errors: []string{"duplicate_table"},
		},
		{
			name: "duplicate column",
			mutate: func(s *schema.DatabaseSchema) {
				s.Tables[1].Columns = append(s.Tables[1].Columns, schema.Column{Name: "id", Type: "TEXT"})
			},
			errors: []string{"duplicate_column"},
		},
		{
			name:     "no primary key",
			mutate:   func(s *schema.DatabaseSchema) { s.Tables[0].Columns[0].IsPrimaryKey = false },
			valid:    true,
			warnings: []string{"no_primary_key"},
		},
		{
			name: "empty table",
			mutate: func(s *schema.DatabaseSchema) {
				s.Tables = append(s.Tables, schema.Table{Name: "audit"})
			},
			errors: []string{"no_columns"},
		},
		{
			name: "empty names",
			mutate: func(s *schema.DatabaseSchema) {
				s.Tables = append(s.Tables, schema.Table{Columns: []schema.Column{{Type: "TEXT"}, {Name: "x", Type: "TEXT", IsPrimaryKey: true}}})
			},
			errors: []string{"table_name", "column_name"},
		},
		{
			name:   "uncovered foreign key",
			mutate: func(s *schema.DatabaseSchema) { s.Relationships = nil },
			valid:  true,
			info:   []string{"foreign_key_without_relationship"},
		},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			s := blog()
			tt.mutate(s)
			r := Validate(s)
			require.NotNil(t, r)
			assert.Equal(t, tt.valid, r.Valid)
			assert.Equal(t, orEmpty(tt.errors), types(r.Errors))
			assert.Equal(t, orEmpty(tt.warnings), types(r.Warnings))
			assert.Equal(t, orEmpty(tt.info), types(r.Info))
		})
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
