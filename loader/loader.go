package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ridoystarlord/schemashot/schema"
)

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatFromPath picks the interchange format from a file extension.
// Unknown extensions report ok=false.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, true
	case ".yaml", ".yml":
		return YAML, true
	}
	return "", false
}

// LoadSchema reads and structurally validates a schema file. Files without a
// known extension are tried as JSON first, then YAML.
func LoadSchema(filename string) (*schema.DatabaseSchema, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}

	format, ok := FormatFromPath(filename)
	if ok {
		return Decode(data, format)
	}

	s, jsonErr := schema.DecodeJSON(data)
	if jsonErr == nil || errors.Is(jsonErr, schema.ErrValidation) {
		return s, jsonErr
	}
	return schema.DecodeYAML(data)
}

func Decode(data []byte, format Format) (*schema.DatabaseSchema, error) {
	switch format {
	case JSON:
		return schema.DecodeJSON(data)
	case YAML:
		return schema.DecodeYAML(data)
	}
	return nil, fmt.Errorf("unsupported schema format %q", format)
}

func WriteSchema(w io.Writer, s *schema.DatabaseSchema, format Format) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case JSON:
		data, err = schema.EncodeJSON(s)
	case YAML:
		data, err = schema.EncodeYAML(s)
	default:
		return fmt.Errorf("unsupported schema format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// SaveSchema writes s to filename in the format implied by its extension
// (JSON when unknown).
func SaveSchema(filename string, s *schema.DatabaseSchema) error {
	format, ok := FormatFromPath(filename)
	if !ok {
		format = JSON
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating schema file: %w", err)
	}
	if err := WriteSchema(f, s, format); err != nil {
		f.Close()
		return fmt.Errorf("writing schema file: %w", err)
	}
	return f.Close()
}
