package diff

import (
	"fmt"
	"strings"

	"github.com/ridoystarlord/schemashot/schema"
)

type OperationType string

const (
	CreateTable      OperationType = "CREATE_TABLE"
	DropTable        OperationType = "DROP_TABLE"
	AddColumn        OperationType = "ADD_COLUMN"
	DropColumn       OperationType = "DROP_COLUMN"
	AlterColumn      OperationType = "ALTER_COLUMN"
	AddRelationship  OperationType = "ADD_RELATIONSHIP"
	DropRelationship OperationType = "DROP_RELATIONSHIP"
)

type Operation struct {
	Type         OperationType        `json:"type"`
	TableName    string               `json:"table,omitempty"`
	Columns      []schema.Column      `json:"columns,omitempty"`    // CREATE_TABLE, DROP_TABLE
	Column       *schema.Column       `json:"column,omitempty"`     // ADD_COLUMN, ALTER_COLUMN (new definition)
	OldColumn    *schema.Column       `json:"old_column,omitempty"` // DROP_COLUMN, ALTER_COLUMN
	Relationship *schema.Relationship `json:"relationship,omitempty"`
}

func (op Operation) String() string {
	switch op.Type {
	case CreateTable, DropTable:
		return fmt.Sprintf("%s %s (%d columns)", op.Type, op.TableName, len(op.Columns))
	case AddColumn:
		return fmt.Sprintf("%s %s.%s %s", op.Type, op.TableName, op.Column.Name, op.Column.Type)
	case DropColumn:
		return fmt.Sprintf("%s %s.%s", op.Type, op.TableName, op.OldColumn.Name)
	case AlterColumn:
		return fmt.Sprintf("%s %s.%s %s -> %s", op.Type, op.TableName, op.Column.Name, describe(*op.OldColumn), describe(*op.Column))
	case AddRelationship, DropRelationship:
		return fmt.Sprintf("%s %s", op.Type, op.Relationship)
	}
	return string(op.Type)
}

func describe(c schema.Column) string {
	s := c.Type
	if c.IsPrimaryKey {
		s += " PK"
	}
	if c.IsForeignKey {
		s += " FK"
	}
	return s
}

// Inverse returns the operation that undoes op.
func (op Operation) Inverse() Operation {
	inv := op
	switch op.Type {
	case CreateTable:
		inv.Type = DropTable
	case DropTable:
		inv.Type = CreateTable
	case AddColumn:
		inv.Type, inv.Column, inv.OldColumn = DropColumn, nil, op.Column
	case DropColumn:
		inv.Type, inv.Column, inv.OldColumn = AddColumn, op.OldColumn, nil
	case AlterColumn:
		inv.Column, inv.OldColumn = op.OldColumn, op.Column
	case AddRelationship:
		inv.Type = DropRelationship
	case DropRelationship:
		inv.Type = AddRelationship
	}
	return inv
}

// Diff computes the operations that turn from into to. Relationship drops come
// first, then table operations in the table order of to, then tables dropped
// from from, and relationship adds last. Foreign keys are therefore removed
// before the tables and columns they reference, and added after them.
func Diff(from, to *schema.DatabaseSchema) []Operation {
	if from == nil {
		from = &schema.DatabaseSchema{}
	}
	if to == nil {
		to = &schema.DatabaseSchema{}
	}

	dropRels, addRels := diffRelationships(from.Relationships, to.Relationships)
	ops := dropRels

	fromTables := map[string]schema.Table{}
	toTables := map[string]bool{}
	for _, t := range from.Tables {
		fromTables[t.Name] = t
	}
	for _, t := range to.Tables {
		toTables[t.Name] = true
	}

	for _, table := range to.Tables {
		existing, ok := fromTables[table.Name]
		if !ok {
			ops = append(ops, Operation{
				Type:      CreateTable,
				TableName: table.Name,
				Columns:   table.Columns,
			})
			continue
		}
		ops = append(ops, diffColumns(existing, table)...)
	}

	for _, table := range from.Tables {
		if !toTables[table.Name] {
			ops = append(ops, Operation{
				Type:      DropTable,
				TableName: table.Name,
				Columns:   table.Columns,
			})
		}
	}

	return append(ops, addRels...)
}

func diffColumns(from, to schema.Table) []Operation {
	var ops []Operation

	for _, col := range to.Columns {
		old, ok := from.Column(col.Name)
		if !ok {
			ops = append(ops, Operation{Type: AddColumn, TableName: to.Name, Column: &col})
			continue
		}
		if changed(old, col) {
			ops = append(ops, Operation{Type: AlterColumn, TableName: to.Name, Column: &col, OldColumn: &old})
		}
	}

	for _, col := range from.Columns {
		if _, ok := to.Column(col.Name); !ok {
			ops = append(ops, Operation{Type: DropColumn, TableName: to.Name, OldColumn: &col})
		}
	}

	return ops
}

// typeAliases maps spellings that catalogs report differently from DDL.
var typeAliases = map[string]string{
	"serial":      "integer",
	"serial4":     "integer",
	"int":         "integer",
	"int4":        "integer",
	"bigserial":   "bigint",
	"serial8":     "bigint",
	"int8":        "bigint",
	"smallserial": "smallint",
	"int2":        "smallint",
	"bool":        "boolean",
	"varchar":     "character varying",
	"char":        "character",
	"bpchar":      "character",
	"decimal":     "numeric",
	"float":       "double precision",
	"float8":      "double precision",
	"float4":      "real",
	"timestamp":   "timestamp without time zone",
	"timestamptz": "timestamp with time zone",
	"time":        "time without time zone",
	"timetz":      "time with time zone",
}

// SameType compares column types case-insensitively, folding common aliases.
// A length or precision modifier only counts when both sides carry one:
// information_schema reports "character varying" for VARCHAR(255).
func SameType(a, b string) bool {
	baseA, modA := canonical(a)
	baseB, modB := canonical(b)
	return baseA == baseB && (modA == "" || modB == "" || modA == modB)
}

// canonical splits t into its folded base name and its parenthesised
// modifier, e.g. "TIMESTAMP(3) WITH TIME ZONE" -> ("timestamp with time zone", "3").
func canonical(t string) (base, modifier string) {
	t = strings.ToLower(t)
	if open := strings.IndexByte(t, '('); open >= 0 {
		if n := strings.IndexByte(t[open:], ')'); n >= 0 {
			modifier = strings.ReplaceAll(t[open+1:open+n], " ", "")
			t = t[:open] + " " + t[open+n+1:]
		}
	}
	base = strings.Join(strings.Fields(t), " ")
	if alias, ok := typeAliases[base]; ok {
		base = alias
	}
	return base, modifier
}

func changed(a, b schema.Column) bool {
	return !SameType(a.Type, b.Type) ||
		a.IsPrimaryKey != b.IsPrimaryKey ||
		a.IsForeignKey != b.IsForeignKey
}

func diffRelationships(from, to []schema.Relationship) (drops, adds []Operation) {
	inFrom := map[schema.Relationship]bool{}
	inTo := map[schema.Relationship]bool{}
	for _, r := range from {
		inFrom[r] = true
	}
	for _, r := range to {
		inTo[r] = true
	}

	for _, r := range from {
		if !inTo[r] {
			drops = append(drops, Operation{Type: DropRelationship, TableName: r.ToTable, Relationship: &r})
		}
	}
	for _, r := range to {
		if !inFrom[r] {
			adds = append(adds, Operation{Type: AddRelationship, TableName: r.ToTable, Relationship: &r})
		}
	}

	return drops, adds
}
