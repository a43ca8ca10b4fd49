package schema

// DatabaseSchema is the aggregate description of a relational database:
// its tables and the relationships between them.
type DatabaseSchema struct {
	Tables        []Table        `json:"tables" yaml:"tables"`
	Relationships []Relationship `json:"relationships" yaml:"relationships"`
}

type Table struct {
	Name    string   `json:"name" yaml:"name"`
	Columns []Column `json:"columns" yaml:"columns"`
}

type Column struct {
	Name         string `json:"name" yaml:"name"`
	Type         string `json:"type" yaml:"type"`
	IsPrimaryKey bool   `json:"is_primary_key" yaml:"is_primary_key"`
	IsForeignKey bool   `json:"is_foreign_key" yaml:"is_foreign_key"`
}

type Relationship struct {
	FromTable  string       `json:"from_table" yaml:"from_table"`
	FromColumn string       `json:"from_column" yaml:"from_column"`
	ToTable    string       `json:"to_table" yaml:"to_table"`
	ToColumn   string       `json:"to_column" yaml:"to_column"`
	Type       RelationType `json:"type" yaml:"type"`
}

// RelationType is a free-form cardinality label. The constants below are the
// conventional values; decoding accepts any string.
type RelationType string

const (
	OneToOne   RelationType = "1:1"
	OneToMany  RelationType = "1:N"
	ManyToMany RelationType = "N:M"
)

// Known reports whether t is one of the conventional cardinalities.
func (t RelationType) Known() bool {
	switch t {
	case OneToOne, OneToMany, ManyToMany:
		return true
	}
	return false
}

// Table returns the first table with the given name.
func (s *DatabaseSchema) Table(name string) (Table, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// Column returns the first column with the given name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// PrimaryKeys returns the names of the primary key columns in declaration order.
func (t Table) PrimaryKeys() []string {
	var keys []string
	for _, c := range t.Columns {
		if c.IsPrimaryKey {
			keys = append(keys, c.Name)
		}
	}
	return keys
}

// String renders the relationship as "from_table.from_column -[type]-> to_table.to_column".
func (r Relationship) String() string {
	return r.FromTable + "." + r.FromColumn + " -[" + string(r.Type) + "]-> " + r.ToTable + "." + r.ToColumn
}

// normalized returns a deep copy where every nil slice is replaced by an empty
// one, so encoders emit [] instead of null.
func (s *DatabaseSchema) normalized() *DatabaseSchema {
	out := &DatabaseSchema{
		Tables:        make([]Table, 0, len(s.Tables)),
		Relationships: make([]Relationship, 0, len(s.Relationships)),
	}
	for _, t := range s.Tables {
		cols := make([]Column, len(t.Columns))
		copy(cols, t.Columns)
		out.Tables = append(out.Tables, Table{Name: t.Name, Columns: cols})
	}
	out.Relationships = append(out.Relationships, s.Relationships...)
	return out
}
