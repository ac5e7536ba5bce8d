package migrate

// sql.go renders row descriptors into MySQL statements.
//
// A deferred reference renders as a scalar subquery on the referenced
// entity's natural key. The natural-key columns are UNIQUE, so the
// subquery yields either the surrogate id or NULL.

import (
	"fmt"
	"strings"
)

// Render produces the SQL statement for a row descriptor.
// Statements end with a semicolon and contain no trailing newline.
func Render(row Row) string {
	switch row.Op {
	case OpInsert:
		return renderInsert(row)
	case OpUpdateByKey:
		return renderUpdate(row, keyCondition(row))
	case OpUpdateLastInsert:
		return renderUpdate(row, fmt.Sprintf("%s=LAST_INSERT_ID()", entityKeys[row.Entity].ID))
	default:
		panic(fmt.Sprintf("unknown row op %d", row.Op))
	}
}

// RenderAll renders a sequence of rows in order.
func RenderAll(rows []Row) []string {
	stmts := make([]string, len(rows))
	for i, row := range rows {
		stmts[i] = Render(row)
	}
	return stmts
}

func renderInsert(row Row) string {
	names := make([]string, len(row.Cols))
	values := make([]string, len(row.Cols))
	for i, col := range row.Cols {
		names[i] = col.Name
		values[i] = renderValue(col.Value)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);",
		row.Entity, strings.Join(names, ", "), strings.Join(values, ", "))
}

func renderUpdate(row Row, cond string) string {
	assigns := make([]string, len(row.Cols))
	for i, col := range row.Cols {
		assigns[i] = fmt.Sprintf("%s=%s", col.Name, renderValue(col.Value))
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s LIMIT 1;",
		row.Entity, strings.Join(assigns, ", "), cond)
}

func keyCondition(row Row) string {
	return fmt.Sprintf("%s='%s'", entityKeys[row.Entity].NaturalKey, Escape(row.Key))
}

func renderValue(v Value) string {
	if v.Ref != nil {
		keys := entityKeys[v.Ref.Entity]
		return fmt.Sprintf("(SELECT %s FROM %s WHERE %s='%s')",
			keys.ID, v.Ref.Entity, keys.NaturalKey, Escape(v.Ref.Key))
	}
	if !v.Valid {
		return "NULL"
	}
	return "'" + Escape(v.Str) + "'"
}
