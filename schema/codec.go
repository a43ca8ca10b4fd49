package schema

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeJSON parses and structurally validates a JSON document.
func DecodeJSON(data []byte) (*DatabaseSchema, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshalling JSON: %w", err)
	}
	return ParseDatabaseSchema(doc)
}

// DecodeYAML parses and structurally validates a YAML document.
func DecodeYAML(data []byte) (*DatabaseSchema, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshalling YAML: %w", err)
	}
	return ParseDatabaseSchema(doc)
}

func EncodeJSON(s *DatabaseSchema) ([]byte, error) {
	data, err := json.MarshalIndent(s.normalized(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling JSON: %w", err)
	}
	return append(data, '\n'), nil
}

func EncodeYAML(s *DatabaseSchema) ([]byte, error) {
	data, err := yaml.Marshal(s.normalized())
	if err != nil {
		return nil, fmt.Errorf("marshalling YAML: %w", err)
	}
	return data, nil
}

// ParseDatabaseSchema validates a generic decoded document (the output of
// json.Unmarshal or yaml.Unmarshal into an any).
func ParseDatabaseSchema(doc any) (*DatabaseSchema, error) {
	f, err := asFields("", doc)
	if err != nil {
		return nil, err
	}

	tables, err := f.list("tables")
	if err != nil {
		return nil, err
	}
	rels, err := f.list("relationships")
	if err != nil {
		return nil, err
	}

	s := NewDatabaseSchema(make([]Table, 0, len(tables)), make([]Relationship, 0, len(rels)))
	for i, raw := range tables {
		t, err := parseTable(index(f.at("tables"), i), raw)
		if err != nil {
			return nil, err
		}
		s.Tables = append(s.Tables, t)
	}
	for i, raw := range rels {
		r, err := parseRelationship(index(f.at("relationships"), i), raw)
		if err != nil {
			return nil, err
		}
		s.Relationships = append(s.Relationships, r)
	}
	return s, nil
}

func ParseTable(doc any) (Table, error)               { return parseTable("", doc) }
func ParseColumn(doc any) (Column, error)             { return parseColumn("", doc) }
func ParseRelationship(doc any) (Relationship, error) { return parseRelationship("", doc) }

func parseTable(path string, doc any) (Table, error) {
	f, err := asFields(path, doc)
	if err != nil {
		return Table{}, err
	}
	name, err := f.str("name")
	if err != nil {
		return Table{}, err
	}
	rawCols, err := f.list("columns")
	if err != nil {
		return Table{}, err
	}
	t := Table{Name: name, Columns: make([]Column, 0, len(rawCols))}
	for i, raw := range rawCols {
		c, err := parseColumn(index(f.at("columns"), i), raw)
		if err != nil {
			return Table{}, err
		}
		t.Columns = append(t.Columns, c)
	}
	return t, nil
}

func parseColumn(path string, doc any) (Column, error) {
	f, err := asFields(path, doc)
	if err != nil {
		return Column{}, err
	}
	var c Column
	if c.Name, err = f.str("name"); err != nil {
		return Column{}, err
	}
	if c.Type, err = f.str("type"); err != nil {
		return Column{}, err
	}
	if c.IsPrimaryKey, err = f.optBool("is_primary_key"); err != nil {
		return Column{}, err
	}
	if c.IsForeignKey, err = f.optBool("is_foreign_key"); err != nil {
		return Column{}, err
	}
	return c, nil
}

func parseRelationship(path string, doc any) (Relationship, error) {
	f, err := asFields(path, doc)
	if err != nil {
		return Relationship{}, err
	}
	var r Relationship
	if r.FromTable, err = f.str("from_table"); err != nil {
		return Relationship{}, err
	}
	if r.FromColumn, err = f.str("from_column"); err != nil {
		return Relationship{}, err
	}
	if r.ToTable, err = f.str("to_table"); err != nil {
		return Relationship{}, err
	}
	if r.ToColumn, err = f.str("to_column"); err != nil {
		return Relationship{}, err
	}
	typ, err := f.str("type")
	if err != nil {
		return Relationship{}, err
	}
	r.Type = RelationType(typ)
	return r, nil
}

// fields is one decoded object together with its location in the document.
type fields struct {
	path string
	m    map[string]any
}

func asFields(path string, doc any) (fields, error) {
	where := path
	if where == "" {
		where = "$"
	}
	switch m := doc.(type) {
	case map[string]any:
		return fields{path: path, m: m}, nil
	case map[any]any:
		conv := make(map[string]any, len(m))
		for k, v := range m {
			conv[fmt.Sprint(k)] = v
		}
		return fields{path: path, m: conv}, nil
	case nil:
		return fields{}, missing(where, "object")
	default:
		return fields{}, mistyped(where, "object", doc)
	}
}

func (f fields) at(key string) string {
	if f.path == "" {
		return key
	}
	return f.path + "." + key
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

// str reads a required string. A null value counts as missing.
func (f fields) str(key string) (string, error) {
	v, ok := f.m[key]
	if !ok || v == nil {
		return "", missing(f.at(key), "string")
	}
	s, ok := v.(string)
	if !ok {
		return "", mistyped(f.at(key), "string", v)
	}
	return s, nil
}

// optBool reads an optional boolean that defaults to false.
func (f fields) optBool(key string) (bool, error) {
	v, ok := f.m[key]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, mistyped(f.at(key), "boolean", v)
	}
	return b, nil
}

func (f fields) list(key string) ([]any, error) {
	v, ok := f.m[key]
	if !ok || v == nil {
		return nil, missing(f.at(key), "array")
	}
	l, ok := v.([]any)
	if !ok {
		return nil, mistyped(f.at(key), "array", v)
	}
	return l, nil
}
