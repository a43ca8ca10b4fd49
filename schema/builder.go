package schema

type ColumnOption func(*Column)

// PrimaryKey marks the column as part of the table's primary key.
func PrimaryKey() ColumnOption {
	return func(c *Column) { c.IsPrimaryKey = true }
}

// ForeignKey marks the column as referencing another table.
func ForeignKey() ColumnOption {
	return func(c *Column) { c.IsForeignKey = true }
}

// NewColumn builds a Column. Both flags default to false.
func NewColumn(name, typ string, opts ...ColumnOption) (Column, error) {
	if name == "" {
		return Column{}, missing("name", "string")
	}
	if typ == "" {
		return Column{}, missing("type", "string")
	}
	c := Column{Name: name, Type: typ}
	for _, opt := range opts {
		opt(&c)
	}
	return c, nil
}

func NewTable(name string, columns ...Column) (Table, error) {
	if name == "" {
		return Table{}, missing("name", "string")
	}
	if columns == nil {
		columns = []Column{}
	}
	return Table{Name: name, Columns: columns}, nil
}

// NewRelationship builds a Relationship. typ is stored as given; see
// RelationType.Known for the conventional values.
func NewRelationship(fromTable, fromColumn, toTable, toColumn string, typ RelationType) (Relationship, error) {
	required := []struct {
		key, val string
	}{
		{"from_table", fromTable},
		{"from_column", fromColumn},
		{"to_table", toTable},
		{"to_column", toColumn},
		{"type", string(typ)},
	}
	for _, r := range required {
		if r.val == "" {
			return Relationship{}, missing(r.key, "string")
		}
	}
	return Relationship{
		FromTable:  fromTable,
		FromColumn: fromColumn,
		ToTable:    toTable,
		ToColumn:   toColumn,
		Type:       typ,
	}, nil
}

// NewDatabaseSchema never fails: an empty schema is valid.
func NewDatabaseSchema(tables []Table, relationships []Relationship) *DatabaseSchema {
	if tables == nil {
		tables = []Table{}
	}
	if relationships == nil {
		relationships = []Relationship{}
	}
	return &DatabaseSchema{Tables: tables, Relationships: relationships}
}
