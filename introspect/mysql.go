package introspect

import (
	"context"
	"database/sql"
	"fmt"
)

func introspectMySQL(ctx context.Context, db *sql.DB) ([]ExistingTable, []ExistingForeignKey, error) {
	columnsQuery := `
	SELECT
		c.TABLE_NAME,
		c.COLUMN_NAME,
		c.COLUMN_TYPE,
		c.ORDINAL_POSITION,
		c.COLUMN_KEY
	FROM information_schema.COLUMNS c
	JOIN information_schema.TABLES t
		ON t.TABLE_SCHEMA = c.TABLE_SCHEMA AND t.TABLE_NAME = c.TABLE_NAME
	WHERE c.TABLE_SCHEMA = DATABASE() AND t.TABLE_TYPE = 'BASE TABLE'
	ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION`

	rows, err := db.QueryContext(ctx, columnsQuery)
	if err != nil {
		return nil, nil, fmt.Errorf("querying columns: %w", err)
	}
	defer rows.Close()

	var tables []ExistingTable
	index := map[string]int{}
	for rows.Next() {
		var table, key string
		var col ExistingColumn
		if err := rows.Scan(&table, &col.ColumnName, &col.DataType, &col.Ordinal, &key); err != nil {
			return nil, nil, fmt.Errorf("scanning column: %w", err)
		}
		col.IsPrimaryKey = key == "PRI"
		col.IsUnique = key == "UNI"

		i, ok := index[table]
		if !ok {
			i = len(tables)
			index[table] = i
			tables = append(tables, ExistingTable{TableName: table})
		}
		tables[i].Columns = append(tables[i].Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating column rows: %w", err)
	}

	fks, err := mysqlForeignKeys(ctx, db)
	if err != nil {
		return nil, nil, err
	}
	return tables, fks, nil
}

func mysqlForeignKeys(ctx context.Context, db *sql.DB) ([]ExistingForeignKey, error) {
	query := `
	SELECT
		TABLE_NAME,
		COLUMN_NAME,
		REFERENCED_TABLE_NAME,
		REFERENCED_COLUMN_NAME
	FROM information_schema.KEY_COLUMN_USAGE
	WHERE TABLE_SCHEMA = DATABASE() AND REFERENCED_TABLE_NAME IS NOT NULL`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying foreign keys: %w", err)
	}
	defer rows.Close()

	var fks []ExistingForeignKey
	for rows.Next() {
		var fk ExistingForeignKey
		if err := rows.Scan(&fk.TableName, &fk.ColumnName, &fk.ReferencesTable, &fk.ReferencesColumn); err != nil {
			return nil, fmt.Errorf("scanning foreign key: %w", err)
		}
		fks = append(fks, fk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating foreign key rows: %w", err)
	}
	return fks, nil
}
