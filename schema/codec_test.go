package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColumn(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := ParseColumn(map[string]any{"name": "id", "type": "INTEGER"})
		require.NoError(t, err)
		assert.Equal(t, Column{Name: "id", Type: "INTEGER"}, c)
		assert.False(t, c.IsPrimaryKey)
		assert.False(t, c.IsForeignKey)
	})

	t.Run("both keys", func(t *testing.T) {
		c, err := ParseColumn(map[string]any{
			"name": "user_id", "type": "INTEGER",
			"is_primary_key": true, "is_foreign_key": true,
		})
		require.NoError(t, err)
		assert.True(t, c.IsPrimaryKey)
		assert.True(t, c.IsForeignKey)
	})

	test := []struct {
		name     string
		doc      any
		path     string
		expected string
		missing  bool
	}{
		{"missing name", map[string]any{"type": "INTEGER"}, "name", "string", true},
		{"null name", map[string]any{"name": nil, "type": "INTEGER"}, "name", "string", true},
		{"missing type", map[string]any{"name": "id"}, "type", "string", true},
		{"numeric name", map[string]any{"name": 5.0, "type": "INTEGER"}, "name", "string", false},
		{"string flag", map[string]any{"name": "id", "type": "INTEGER", "is_primary_key": "yes"}, "is_primary_key", "boolean", false},
		{"not an object", []any{"id"}, "$", "object", false},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseColumn(tt.doc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.path, fe.Path)
			assert.Equal(t, tt.expected, fe.Expected)
			assert.Equal(t, tt.missing, fe.Missing)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Run("empty schema", func(t *testing.T) {
		s, err := DecodeJSON([]byte(`{"tables": [], "relationships": []}`))
		require.NoError(t, err)
		assert.Empty(t, s.Tables)
		assert.Empty(t, s.Relationships)
	})

	t.Run("full document", func(t *testing.T) {
		s, err := DecodeJSON([]byte(`{
			"tables": [
				{"name": "users", "columns": [{"name": "id", "type": "INTEGER", "is_primary_key": true}]},
				{"name": "orders", "columns": [
					{"name": "id", "type": "INTEGER", "is_primary_key": true},
					{"name": "user_id", "type": "INTEGER", "is_foreign_key": true}
				]}
			],
			"relationships": [
				{"from_table": "users", "from_column": "id", "to_table": "orders", "to_column": "user_id", "type": "1:N"}
			]
		}`))
		require.NoError(t, err)
		require.Len(t, s.Tables, 2)
		assert.Equal(t, "orders", s.Tables[1].Name)
		assert.Equal(t, []string{"id"}, s.Tables[1].PrimaryKeys())
		require.Len(t, s.Relationships, 1)
		assert.Equal(t, OneToMany, s.Relationships[0].Type)
	})

	t.Run("free-form relationship type", func(t *testing.T) {
		s, err := DecodeJSON([]byte(`{"tables": [], "relationships": [
			{"from_table": "a", "from_column": "id", "to_table": "b", "to_column": "a_id", "type": "many"}
		]}`))
		require.NoError(t, err)
		assert.False(t, s.Relationships[0].Type.Known())
	})

	test := []struct {
		name string
		doc  string
		path string
	}{
		{"missing tables", `{"relationships": []}`, "tables"},
		{"missing relationships", `{"tables": []}`, "relationships"},
		{"tables not a list", `{"tables": {}, "relationships": []}`, "tables"},
		{"nested column name", `{"tables": [{"name": "t", "columns": [{"name": "a", "type": "x"}, {"type": "x"}]}], "relationships": []}`, "tables[0].columns[1].name"},
		{"relationship type", `{"tables": [], "relationships": [{"from_table": "a", "from_column": "b", "to_table": "c", "to_column": "d"}]}`, "relationships[0].type"},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(tt.doc))
			var fe *FieldError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tt.path, fe.Path)
		})
	}

	t.Run("syntax error", func(t *testing.T) {
		_, err := DecodeJSON([]byte(`{`))
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrValidation))
	})
}

func TestDecodeYAML(t *testing.T) {
	s, err := DecodeYAML([]byte(`
tables:
  - name: users
    columns:
      - name: id
        type: serial
        is_primary_key: true
      - name: email
        type: text
relationships: []
`))
	require.NoError(t, err)
	require.Len(t, s.Tables, 1)
	assert.Equal(t, Column{Name: "id", Type: "serial", IsPrimaryKey: true}, s.Tables[0].Columns[0])
	assert.Equal(t, Column{Name: "email", Type: "text"}, s.Tables[0].Columns[1])

	_, err = DecodeYAML([]byte("tables:\n  - name: t\n    columns:\n      - name: a\n        type: 3\nrelationships: []\n"))
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "tables[0].columns[0].type", fe.Path)
	assert.Equal(t, "number", fe.Got)
}

func TestEncode(t *testing.T) {
	col, err := NewColumn("id", "INTEGER", PrimaryKey())
	require.NoError(t, err)
	table, err := NewTable("users", col)
	require.NoError(t, err)
	s := &DatabaseSchema{Tables: []Table{table}}

	data, err := EncodeJSON(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"relationships": []`)
	assert.Contains(t, string(data), `"is_foreign_key": false`)

	back, err := DecodeJSON(data)
	require.NoError(t, err)
	assert.Equal(t, s.Tables, back.Tables)

	data, err = EncodeYAML(s)
	require.NoError(t, err)
	back, err = DecodeYAML(data)
	require.NoError(t, err)
	assert.Equal(t, s.Tables, back.Tables)
	assert.Empty(t, back.Relationships)
}
