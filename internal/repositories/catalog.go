package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// QueryRower is the smallest read surface shared by *sql.DB and *sql.Tx.
type QueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// FieldCatalog describes the attribute/value side-schema that carries
// per-deployment custom fields: one entry row per owning object, value rows
// keyed by entry and field id, and the field-definition table mapping a
// logical field name to its id. Both the filter compiler and the custom-field
// attacher go through the catalog so they agree on tables, the object-type
// discriminator and the decoded-value expression.
type FieldCatalog struct {
	EntryTable string
	ValueTable string
	FieldTable string
	ObjectType string
}

// TicketFieldCatalog maps the ticket form data ('T' objects).
func TicketFieldCatalog() FieldCatalog {
	return FieldCatalog{
		EntryTable: "ost_form_entry",
		ValueTable: "ost_form_entry_values",
		FieldTable: "ost_form_field",
		ObjectType: "T",
	}
}

func (fc FieldCatalog) entryAlias(i int) string { return fmt.Sprintf("fe%d", i) }
func (fc FieldCatalog) valueAlias(i int) string { return fmt.Sprintf("fev%d", i) }
func (fc FieldCatalog) fieldAlias(i int) string { return fmt.Sprintf("ff%d", i) }

// JoinClause builds the entry -> value -> field-definition join triple for
// the custom filter at list position i. Aliases are strictly positional so
// two filters over fields with colliding names can never share a join.
func (fc FieldCatalog) JoinClause(i int, ownerCol string) string {
	fe, fev, ff := fc.entryAlias(i), fc.valueAlias(i), fc.fieldAlias(i)
	return fmt.Sprintf(
		" JOIN %s %s ON (%s.object_id = %s AND %s.object_type = '%s')"+
			" JOIN %s %s ON %s.entry_id = %s.id"+
			" JOIN %s %s ON %s.id = %s.field_id",
		fc.EntryTable, fe, fe, ownerCol, fe, fc.ObjectType,
		fc.ValueTable, fev, fev, fe,
		fc.FieldTable, ff, ff, fev,
	)
}

// DecodedValueExpr is the SQL rendering of the canonical value decode: first
// value of a JSON object when the stored value is one, the raw column
// otherwise. It must stay equivalent to DecodeFieldValue; filtering and
// display reading through different decode rules is a correctness bug.
func (fc FieldCatalog) DecodedValueExpr(i int) string {
	col := fc.valueAlias(i) + ".value"
	return fmt.Sprintf("COALESCE(JSON_UNQUOTE(JSON_EXTRACT(JSON_EXTRACT(%s, '$.*'), '$[0]')), %s)", col, col)
}

// FieldNameCol returns the field-definition name column for position i.
func (fc FieldCatalog) FieldNameCol(i int) string {
	return fc.fieldAlias(i) + ".name"
}
