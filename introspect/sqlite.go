package introspect

import (
	"context"
	"database/sql"
	"fmt"
)

func introspectSQLite(ctx context.Context, db *sql.DB) ([]ExistingTable, []ExistingForeignKey, error) {
	rows, err := db.QueryContext(ctx, `
	SELECT name FROM sqlite_master
	WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
	ORDER BY name`)
	if err != nil {
		return nil, nil, fmt.Errorf("querying tables: %w", err)
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("scanning table name: %w", err)
		}
		names = append(names, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating table rows: %w", err)
	}

	var (
		tables []ExistingTable
		fks    []ExistingForeignKey
	)
	for _, name := range names {
		t, err := sqliteTable(ctx, db, name)
		if err != nil {
			return nil, nil, fmt.Errorf("getting columns for table %s: %w", name, err)
		}
		tables = append(tables, t)

		tfks, err := sqliteForeignKeys(ctx, db, name)
		if err != nil {
			return nil, nil, fmt.Errorf("getting foreign keys for table %s: %w", name, err)
		}
		fks = append(fks, tfks...)
	}
	return tables, fks, nil
}

func sqliteTable(ctx context.Context, db *sql.DB, name string) (ExistingTable, error) {
	unique, err := sqliteUniqueColumns(ctx, db, name)
	if err != nil {
		return ExistingTable{}, err
	}

	rows, err := db.QueryContext(ctx, `SELECT cid, name, type, pk FROM pragma_table_info(?)`, name)
	if err != nil {
		return ExistingTable{}, fmt.Errorf("querying columns: %w", err)
	}
	defer rows.Close()

	t := ExistingTable{TableName: name}
	for rows.Next() {
		var c ExistingColumn
		var pk int
		if err := rows.Scan(&c.Ordinal, &c.ColumnName, &c.DataType, &pk); err != nil {
			return ExistingTable{}, fmt.Errorf("scanning column: %w", err)
		}
		c.IsPrimaryKey = pk > 0
		c.IsUnique = unique[c.ColumnName]
		t.Columns = append(t.Columns, c)
	}
	return t, rows.Err()
}

// sqliteUniqueColumns returns columns covered by a single-column UNIQUE
// constraint.
func sqliteUniqueColumns(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM pragma_index_list(?) WHERE "unique" = 1 AND origin = 'u'`, table)
	if err != nil {
		return nil, fmt.Errorf("querying unique indexes: %w", err)
	}
	var indexes []string
	for rows.Next() {
		var idx string
		if err := rows.Scan(&idx); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning unique index: %w", err)
		}
		indexes = append(indexes, idx)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	unique := map[string]bool{}
	for _, idx := range indexes {
		var cols []string
		info, err := db.QueryContext(ctx, `SELECT name FROM pragma_index_info(?)`, idx)
		if err != nil {
			return nil, fmt.Errorf("querying index %s: %w", idx, err)
		}
		for info.Next() {
			var col string
			if err := info.Scan(&col); err != nil {
				info.Close()
				return nil, fmt.Errorf("scanning index column: %w", err)
			}
			cols = append(cols, col)
		}
		info.Close()
		if len(cols) == 1 {
			unique[cols[0]] = true
		}
	}
	return unique, nil
}

func sqliteForeignKeys(ctx context.Context, db *sql.DB, table string) ([]ExistingForeignKey, error) {
	rows, err := db.QueryContext(ctx, `SELECT "from", "table", "to" FROM pragma_foreign_key_list(?)`, table)
	if err != nil {
		return nil, fmt.Errorf("querying foreign keys: %w", err)
	}
	defer rows.Close()

	var fks []ExistingForeignKey
	for rows.Next() {
		fk := ExistingForeignKey{TableName: table}
		var to sql.NullString
		if err := rows.Scan(&fk.ColumnName, &fk.ReferencesTable, &to); err != nil {
			return nil, fmt.Errorf("scanning foreign key: %w", err)
		}
		// "REFERENCES parent" without a column leaves "to" NULL; Build resolves it.
		fk.ReferencesColumn = to.String
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}
