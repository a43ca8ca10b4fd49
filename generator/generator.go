package generator

import (
	"fmt"
	"strings"

	"github.com/ridoystarlord/schemashot/diff"
	"github.com/ridoystarlord/schemashot/schema"
)

// GenerateSQL converts a list of Operations into PostgreSQL statements.
func GenerateSQL(ops []diff.Operation) ([]string, error) {
	var sqlStatements []string

	for _, op := range ops {
		switch op.Type {
		case diff.CreateTable:
			sqlStatements = append(sqlStatements, generateCreateTable(op.TableName, op.Columns))

		case diff.DropTable:
			sqlStatements = append(sqlStatements, fmt.Sprintf(`DROP TABLE IF EXISTS %s CASCADE;`, quote(op.TableName)))

		case diff.AddColumn:
			sqlStatements = append(sqlStatements, fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s;`,
				quote(op.TableName),
				quote(op.Column.Name),
				op.Column.Type,
			))

		case diff.DropColumn:
			sqlStatements = append(sqlStatements, fmt.Sprintf(`ALTER TABLE %s DROP COLUMN %s;`,
				quote(op.TableName),
				quote(op.OldColumn.Name),
			))

		case diff.AlterColumn:
			sqlStatements = append(sqlStatements, generateAlterColumn(op)...)

		case diff.AddRelationship:
			stmt, err := generateAddRelationship(*op.Relationship)
			if err != nil {
				return nil, fmt.Errorf("generate ADD RELATIONSHIP: %w", err)
			}
			sqlStatements = append(sqlStatements, stmt)

		case diff.DropRelationship:
			stmt, err := generateDropRelationship(*op.Relationship)
			if err != nil {
				return nil, fmt.Errorf("generate DROP RELATIONSHIP: %w", err)
			}
			sqlStatements = append(sqlStatements, stmt)

		default:
			return nil, fmt.Errorf("unsupported operation: %s", op.Type)
		}
	}

	return sqlStatements, nil
}

// GenerateRollbackSQL renders the statements that undo ops, last operation first.
func GenerateRollbackSQL(ops []diff.Operation) ([]string, error) {
	inverse := make([]diff.Operation, 0, len(ops))
	for i := len(ops) - 1; i >= 0; i-- {
		inverse = append(inverse, ops[i].Inverse())
	}
	stmts, err := GenerateSQL(inverse)
	if err != nil {
		return nil, fmt.Errorf("rollback: %w", err)
	}
	return stmts, nil
}

// SchemaSQL renders the DDL that creates s from an empty database.
func SchemaSQL(s *schema.DatabaseSchema) ([]string, error) {
	return GenerateSQL(diff.Diff(nil, s))
}

func generateCreateTable(name string, columns []schema.Column) string {
	var parts []string
	var pk []string

	for _, col := range columns {
		parts = append(parts, fmt.Sprintf(`%s %s`, quote(col.Name), col.Type))
		if col.IsPrimaryKey {
			pk = append(pk, quote(col.Name))
		}
	}
	if len(pk) > 0 {
		parts = append(parts, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pk, ", ")))
	}

	return fmt.Sprintf(`CREATE TABLE %s (%s);`, quote(name), strings.Join(parts, ", "))
}

func generateAlterColumn(op diff.Operation) []string {
	var statements []string

	if !diff.SameType(op.OldColumn.Type, op.Column.Type) {
		statements = append(statements, fmt.Sprintf(`ALTER TABLE %s ALTER COLUMN %s TYPE %s;`,
			quote(op.TableName),
			quote(op.Column.Name),
			op.Column.Type,
		))
	}

	// Key flags live in table constraints and relationships, not in the column.
	if op.OldColumn.IsPrimaryKey != op.Column.IsPrimaryKey {
		statements = append(statements, fmt.Sprintf(`-- primary key membership of %s.%s changed to %t; review the table's primary key constraint`,
			quote(op.TableName),
			quote(op.Column.Name),
			op.Column.IsPrimaryKey,
		))
	}
	if op.OldColumn.IsForeignKey != op.Column.IsForeignKey {
		statements = append(statements, fmt.Sprintf(`-- foreign key flag of %s.%s changed to %t`,
			quote(op.TableName),
			quote(op.Column.Name),
			op.Column.IsForeignKey,
		))
	}

	return statements
}

// ConstraintName is the foreign key constraint created for a 1:1 or 1:N
// relationship, named after the referencing (to) side.
func ConstraintName(r schema.Relationship) string {
	return fmt.Sprintf("fk_%s_%s", r.ToTable, r.ToColumn)
}

func generateAddRelationship(r schema.Relationship) (string, error) {
	switch r.Type {
	case schema.OneToOne, schema.OneToMany:
		return fmt.Sprintf(`ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s);`,
			quote(r.ToTable),
			quote(ConstraintName(r)),
			quote(r.ToColumn),
			quote(r.FromTable),
			quote(r.FromColumn),
		), nil
	case schema.ManyToMany:
		return fmt.Sprintf("-- %s is many-to-many; model it with a junction table", r), nil
	}
	return "", fmt.Errorf("unsupported relationship type %q", r.Type)
}

func generateDropRelationship(r schema.Relationship) (string, error) {
	switch r.Type {
	case schema.OneToOne, schema.OneToMany:
		return fmt.Sprintf(`ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s;`,
			quote(r.ToTable),
			quote(ConstraintName(r)),
		), nil
	case schema.ManyToMany:
		return fmt.Sprintf("-- %s removed; drop its junction table if one exists", r), nil
	}
	return "", fmt.Errorf("unsupported relationship type %q", r.Type)
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
