// Package introspect reads the structure of a live database and describes it
// as a schema.DatabaseSchema.
package introspect

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/ridoystarlord/schemashot/database"
	"github.com/ridoystarlord/schemashot/schema"
)

type ExistingTable struct {
	TableName string
	Columns   []ExistingColumn
}

type ExistingColumn struct {
	ColumnName   string
	DataType     string
	Ordinal      int
	IsPrimaryKey bool
	IsUnique     bool
}

type ExistingForeignKey struct {
	TableName        string
	ColumnName       string
	ReferencesTable  string
	ReferencesColumn string
}

type Options struct {
	// Schema is the Postgres namespace to read. Empty means "public".
	Schema string
}

// Introspect reads every base table, its columns and foreign keys.
func Introspect(ctx context.Context, conn *database.Conn, opts Options) (*schema.DatabaseSchema, error) {
	if opts.Schema == "" {
		opts.Schema = "public"
	}

	var (
		tables []ExistingTable
		fks    []ExistingForeignKey
		err    error
	)
	switch conn.Driver {
	case database.Postgres:
		tables, fks, err = introspectPostgres(ctx, conn.Pool, opts.Schema)
	case database.MySQL:
		tables, fks, err = introspectMySQL(ctx, conn.DB)
	case database.SQLite:
		tables, fks, err = introspectSQLite(ctx, conn.DB)
	default:
		return nil, fmt.Errorf("%w: %s", database.ErrUnsupportedDriver, conn.Driver)
	}
	if err != nil {
		return nil, err
	}

	slog.Debug("introspected database", "driver", conn.Driver, "tables", len(tables), "foreign_keys", len(fks))
	return Build(tables, fks), nil
}

// Build assembles a DatabaseSchema from raw catalog rows.
//
// Every foreign key becomes a relationship from the referenced (parent) column
// to the referencing (child) column. It is 1:1 when the child column is unique
// or the sole primary key, 1:N otherwise. A table whose primary key is exactly
// two foreign key columns is a junction table and additionally yields an N:M
// relationship between the two parents.
func Build(tables []ExistingTable, fks []ExistingForeignKey) *schema.DatabaseSchema {
	tables = append([]ExistingTable(nil), tables...)
	sort.SliceStable(tables, func(i, j int) bool { return tables[i].TableName < tables[j].TableName })

	byName := make(map[string]ExistingTable, len(tables))
	for i := range tables {
		cols := append([]ExistingColumn(nil), tables[i].Columns...)
		sort.SliceStable(cols, func(a, b int) bool { return cols[a].Ordinal < cols[b].Ordinal })
		tables[i].Columns = cols
		byName[tables[i].TableName] = tables[i]
	}

	fks = resolveImplicitReferences(fks, byName)
	sort.SliceStable(fks, func(i, j int) bool {
		if fks[i].TableName != fks[j].TableName {
			return fks[i].TableName < fks[j].TableName
		}
		return fks[i].ColumnName < fks[j].ColumnName
	})

	isFK := make(map[string]ExistingForeignKey, len(fks))
	for _, fk := range fks {
		isFK[fk.TableName+"."+fk.ColumnName] = fk
	}

	out := schema.NewDatabaseSchema(make([]schema.Table, 0, len(tables)), nil)
	for _, t := range tables {
		st := schema.Table{Name: t.TableName, Columns: make([]schema.Column, 0, len(t.Columns))}
		for _, c := range t.Columns {
			_, fk := isFK[t.TableName+"."+c.ColumnName]
			st.Columns = append(st.Columns, schema.Column{
				Name:         c.ColumnName,
				Type:         c.DataType,
				IsPrimaryKey: c.IsPrimaryKey,
				IsForeignKey: fk,
			})
		}
		out.Tables = append(out.Tables, st)
	}

	for _, fk := range fks {
		typ := schema.OneToMany
		if child, ok := byName[fk.TableName]; ok && uniqueColumn(child, fk.ColumnName) {
			typ = schema.OneToOne
		}
		out.Relationships = append(out.Relationships, schema.Relationship{
			FromTable:  fk.ReferencesTable,
			FromColumn: fk.ReferencesColumn,
			ToTable:    fk.TableName,
			ToColumn:   fk.ColumnName,
			Type:       typ,
		})
	}

	for _, t := range tables {
		pks := primaryKeys(t)
		if len(pks) != 2 {
			continue
		}
		a, okA := isFK[t.TableName+"."+pks[0]]
		b, okB := isFK[t.TableName+"."+pks[1]]
		if !okA || !okB {
			continue
		}
		out.Relationships = append(out.Relationships, schema.Relationship{
			FromTable:  a.ReferencesTable,
			FromColumn: a.ReferencesColumn,
			ToTable:    b.ReferencesTable,
			ToColumn:   b.ReferencesColumn,
			Type:       schema.ManyToMany,
		})
	}

	return out
}

// resolveImplicitReferences fills in ReferencesColumn for foreign keys declared
// as "REFERENCES parent" without a column, using the parent's sole primary key.
func resolveImplicitReferences(fks []ExistingForeignKey, tables map[string]ExistingTable) []ExistingForeignKey {
	out := make([]ExistingForeignKey, len(fks))
	copy(out, fks)
	for i, fk := range out {
		if fk.ReferencesColumn != "" {
			continue
		}
		if parent, ok := tables[fk.ReferencesTable]; ok {
			if pks := primaryKeys(parent); len(pks) == 1 {
				out[i].ReferencesColumn = pks[0]
			}
		}
	}
	return out
}

func primaryKeys(t ExistingTable) []string {
	var keys []string
	for _, c := range t.Columns {
		if c.IsPrimaryKey {
			keys = append(keys, c.ColumnName)
		}
	}
	return keys
}

func uniqueColumn(t ExistingTable, column string) bool {
	pks := primaryKeys(t)
	for _, c := range t.Columns {
		if c.ColumnName != column {
			continue
		}
		return c.IsUnique || (c.IsPrimaryKey && len(pks) == 1)
	}
	return false
}
