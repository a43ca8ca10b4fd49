package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridoystarlord/schemashot/schema"
)

const sampleYAML = `tables:
  - name: users
    columns:
      - name: id
        type: serial
        is_primary_key: true
relationships: []
`

func TestLoadSchema(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	t.Run("yaml", func(t *testing.T) {
		s, err := LoadSchema(write("schema.yaml", sampleYAML))
		require.NoError(t, err)
		require.Len(t, s.Tables, 1)
		assert.True(t, s.Tables[0].Columns[0].IsPrimaryKey)
	})

	t.Run("json", func(t *testing.T) {
		s, err := LoadSchema(write("schema.json", `{"tables": [], "relationships": []}`))
		require.NoError(t, err)
		assert.Empty(t, s.Tables)
	})

	t.Run("unknown extension falls back to yaml", func(t *testing.T) {
		s, err := LoadSchema(write("schema.txt", sampleYAML))
		require.NoError(t, err)
		assert.Len(t, s.Tables, 1)
	})

	t.Run("unknown extension keeps json validation error", func(t *testing.T) {
		_, err := LoadSchema(write("schema.conf", `{"tables": []}`))
		assert.ErrorIs(t, err, schema.ErrValidation)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSchema(filepath.Join(dir, "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestSaveSchema(t *testing.T) {
	dir := t.TempDir()
	s := schema.NewDatabaseSchema([]schema.Table{
		{Name: "users", Columns: []schema.Column{{Name: "id", Type: "INTEGER", IsPrimaryKey: true}}},
	}, nil)

	for _, name := range []string{"out.json", "out.yml", "out.schema"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, SaveSchema(path, s))
			back, err := LoadSchema(path)
			require.NoError(t, err)
			assert.Equal(t, s, back)
		})
	}
}

func TestWriteSchemaUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSchema(&buf, schema.NewDatabaseSchema(nil, nil), "toml")
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}
