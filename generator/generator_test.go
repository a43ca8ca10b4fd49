package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridoystarlord/schemashot/diff"
	"github.com/ridoystarlord/schemashot/schema"
)

func blog() *schema.DatabaseSchema {
	return &schema.DatabaseSchema{
		Tables: []schema.Table{
			{Name: "users", Columns: []schema.Column{
				{Name: "id", Type: "SERIAL", IsPrimaryKey: true},
				{Name: "email", Type: "TEXT"},
			}},
			{Name: "post_tags", Columns: []schema.Column{
				{Name: "post_id", Type: "INTEGER", IsPrimaryKey: true, IsForeignKey: true},
				{Name: "tag_id", Type: "INTEGER", IsPrimaryKey: true, IsForeignKey: true},
			}},
		},
		Relationships: []schema.Relationship{
			{FromTable: "users", FromColumn: "id", ToTable: "post_tags", ToColumn: "post_id", Type: schema.OneToMany},
			{FromTable: "users", FromColumn: "id", ToTable: "users", ToColumn: "email", Type: schema.ManyToMany},
		},
	}
}

func TestSchemaSQL(t *testing.T) {
	stmts, err := SchemaSQL(blog())
	require.NoError(t, err)
	assert.Equal(t, []string{
		`CREATE TABLE "users" ("id" SERIAL, "email" TEXT, PRIMARY KEY ("id"));`,
		`CREATE TABLE "post_tags" ("post_id" INTEGER, "tag_id" INTEGER, PRIMARY KEY ("post_id", "tag_id"));`,
		`ALTER TABLE "post_tags" ADD CONSTRAINT "fk_post_tags_post_id" FOREIGN KEY ("post_id") REFERENCES "users" ("id");`,
		`-- users.id -[N:M]-> users.email is many-to-many; model it with a junction table`,
	}, stmts)
}

func TestSchemaSQLEmpty(t *testing.T) {
	stmts, err := SchemaSQL(schema.NewDatabaseSchema(nil, nil))
	require.NoError(t, err)
	assert.Empty(t, stmts)
}

func TestGenerateSQLColumnChanges(t *testing.T) {
	from := blog()
	to := blog()
	to.Tables[0].Columns[1].Type = "VARCHAR(320)"
	to.Tables[0].Columns = append(to.Tables[0].Columns, schema.Column{Name: "name", Type: "TEXT"})
	to.Tables[1].Columns[1].IsPrimaryKey = false
	to.Relationships = to.Relationships[:1]

	ops := diff.Diff(from, to)
	stmts, err := GenerateSQL(ops)
	require.NoError(t, err)
	assert.Equal(t, []string{
		`-- users.id -[N:M]-> users.email removed; drop its junction table if one exists`,
		`ALTER TABLE "users" ALTER COLUMN "email" TYPE VARCHAR(320);`,
		`ALTER TABLE "users" ADD COLUMN "name" TEXT;`,
		`-- primary key membership of "post_tags"."tag_id" changed to false; review the table's primary key constraint`,
	}, stmts)

	rollback, err := GenerateRollbackSQL(ops)
	require.NoError(t, err)
	assert.Equal(t, []string{
		`-- primary key membership of "post_tags"."tag_id" changed to true; review the table's primary key constraint`,
		`ALTER TABLE "users" DROP COLUMN "name";`,
		`ALTER TABLE "users" ALTER COLUMN "email" TYPE TEXT;`,
		`-- users.id -[N:M]-> users.email is many-to-many; model it with a junction table`,
	}, rollback)
}

func TestRollbackRecreatesDroppedTable(t *testing.T) {
	ops := diff.Diff(blog(), &schema.DatabaseSchema{})

	stmts, err := GenerateSQL(ops)
	require.NoError(t, err)
	assert.Equal(t, []string{
		`ALTER TABLE "post_tags" DROP CONSTRAINT IF EXISTS "fk_post_tags_post_id";`,
		`-- users.id -[N:M]-> users.email removed; drop its junction table if one exists`,
		`DROP TABLE IF EXISTS "users" CASCADE;`,
		`DROP TABLE IF EXISTS "post_tags" CASCADE;`,
	}, stmts)

	rollback, err := GenerateRollbackSQL(ops)
	require.NoError(t, err)
	assert.Equal(t, []string{
		`CREATE TABLE "post_tags" ("post_id" INTEGER, "tag_id" INTEGER, PRIMARY KEY ("post_id", "tag_id"));`,
		`CREATE TABLE "users" ("id" SERIAL, "email" TEXT, PRIMARY KEY ("id"));`,
		`-- users.id -[N:M]-> users.email is many-to-many; model it with a junction table`,
		`ALTER TABLE "post_tags" ADD CONSTRAINT "fk_post_tags_post_id" FOREIGN KEY ("post_id") REFERENCES "users" ("id");`,
	}, rollback)
}

func TestDropChildTableDropsConstraintFirst(t *testing.T) {
	to := blog()
	to.Tables = to.Tables[:1]
	to.Relationships = to.Relationships[1:]

	ops := diff.Diff(blog(), to)
	stmts, err := GenerateSQL(ops)
	require.NoError(t, err)
	assert.Equal(t, []string{
		`ALTER TABLE "post_tags" DROP CONSTRAINT IF EXISTS "fk_post_tags_post_id";`,
		`DROP TABLE IF EXISTS "post_tags" CASCADE;`,
	}, stmts)

	rollback, err := GenerateRollbackSQL(ops)
	require.NoError(t, err)
	assert.Equal(t, []string{
		`CREATE TABLE "post_tags" ("post_id" INTEGER, "tag_id" INTEGER, PRIMARY KEY ("post_id", "tag_id"));`,
		`ALTER TABLE "post_tags" ADD CONSTRAINT "fk_post_tags_post_id" FOREIGN KEY ("post_id") REFERENCES "users" ("id");`,
	}, rollback)
}

func TestGenerateSQLErrors(t *testing.T) {
	_, err := GenerateSQL([]diff.Operation{{Type: "RENAME_TABLE"}})
	assert.ErrorContains(t, err, "unsupported operation")

	rel := schema.Relationship{FromTable: "a", FromColumn: "id", ToTable: "b", ToColumn: "a_id", Type: "many"}
	_, err = GenerateSQL([]diff.Operation{{Type: diff.AddRelationship, Relationship: &rel}})
	assert.ErrorContains(t, err, `unsupported relationship type "many"`)
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"odd""name"`, quote(`odd"name`))
}
