package introspect

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func introspectPostgres(ctx context.Context, pool *pgxpool.Pool, namespace string) ([]ExistingTable, []ExistingForeignKey, error) {
	columnsQuery := `
	SELECT
		c.table_name,
		c.column_name,
		c.data_type,
		c.ordinal_position::int
	FROM information_schema.columns c
	JOIN information_schema.tables t
		ON t.table_schema = c.table_schema AND t.table_name = c.table_name
	WHERE c.table_schema = $1 AND t.table_type = 'BASE TABLE'
	ORDER BY c.table_name, c.ordinal_position;
	`

	rows, err := pool.Query(ctx, columnsQuery, namespace)
	if err != nil {
		return nil, nil, fmt.Errorf("querying columns: %w", err)
	}
	type colRow struct {
		table string
		col   ExistingColumn
	}
	colRows, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (colRow, error) {
		var r colRow
		var ordinal int32
		err := row.Scan(&r.table, &r.col.ColumnName, &r.col.DataType, &ordinal)
		r.col.Ordinal = int(ordinal)
		return r, err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("scanning columns: %w", err)
	}

	keys, err := postgresKeyColumns(ctx, pool, namespace)
	if err != nil {
		return nil, nil, err
	}

	var tables []ExistingTable
	index := map[string]int{}
	for _, r := range colRows {
		i, ok := index[r.table]
		if !ok {
			i = len(tables)
			index[r.table] = i
			tables = append(tables, ExistingTable{TableName: r.table})
		}
		k := keys[r.table+"."+r.col.ColumnName]
		r.col.IsPrimaryKey = k.primary
		r.col.IsUnique = k.unique
		tables[i].Columns = append(tables[i].Columns, r.col)
	}

	fks, err := postgresForeignKeys(ctx, pool, namespace)
	if err != nil {
		return nil, nil, err
	}
	return tables, fks, nil
}

type keyFlags struct {
	primary bool
	unique  bool
}

// postgresKeyColumns returns primary key membership and single-column unique
// constraints keyed by "table.column".
func postgresKeyColumns(ctx context.Context, pool *pgxpool.Pool, namespace string) (map[string]keyFlags, error) {
	query := `
	SELECT
		tc.table_name,
		tc.constraint_name,
		tc.constraint_type,
		kcu.column_name
	FROM information_schema.table_constraints tc
	JOIN information_schema.key_column_usage kcu
		ON tc.constraint_name = kcu.constraint_name
		AND tc.table_schema = kcu.table_schema
		AND tc.table_name = kcu.table_name
	WHERE tc.table_schema = $1
		AND tc.constraint_type IN ('PRIMARY KEY', 'UNIQUE');
	`

	rows, err := pool.Query(ctx, query, namespace)
	if err != nil {
		return nil, fmt.Errorf("querying key constraints: %w", err)
	}
	defer rows.Close()

	type constraint struct {
		kind    string
		table   string
		columns []string
	}
	constraints := map[string]*constraint{}
	for rows.Next() {
		var table, name, kind, column string
		if err := rows.Scan(&table, &name, &kind, &column); err != nil {
			return nil, fmt.Errorf("scanning key constraint: %w", err)
		}
		c, ok := constraints[table+"."+name]
		if !ok {
			c = &constraint{kind: kind, table: table}
			constraints[table+"."+name] = c
		}
		c.columns = append(c.columns, column)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating key constraint rows: %w", err)
	}

	flags := map[string]keyFlags{}
	for _, c := range constraints {
		for _, col := range c.columns {
			k := flags[c.table+"."+col]
			switch {
			case c.kind == "PRIMARY KEY":
				k.primary = true
			case len(c.columns) == 1:
				k.unique = true
			}
			flags[c.table+"."+col] = k
		}
	}
	return flags, nil
}

func postgresForeignKeys(ctx context.Context, pool *pgxpool.Pool, namespace string) ([]ExistingForeignKey, error) {
	query := `
	SELECT
		tc.table_name,
		kcu.column_name,
		ccu.table_name AS foreign_table_name,
		ccu.column_name AS foreign_column_name
	FROM information_schema.table_constraints AS tc
	JOIN information_schema.key_column_usage AS kcu
		ON tc.constraint_name = kcu.constraint_name
		AND tc.table_schema = kcu.table_schema
	JOIN information_schema.constraint_column_usage AS ccu
		ON ccu.constraint_name = tc.constraint_name
		AND ccu.table_schema = tc.table_schema
	WHERE tc.constraint_type = 'FOREIGN KEY'
		AND tc.table_schema = $1;
	`

	rows, err := pool.Query(ctx, query, namespace)
	if err != nil {
		return nil, fmt.Errorf("querying foreign keys: %w", err)
	}
	fks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ExistingForeignKey, error) {
		var fk ExistingForeignKey
		err := row.Scan(&fk.TableName, &fk.ColumnName, &fk.ReferencesTable, &fk.ReferencesColumn)
		return fk, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning foreign keys: %w", err)
	}
	return fks, nil
}
