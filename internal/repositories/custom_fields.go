package repositories

import (
	"context"
	"encoding/json"
	"strings"

	"helpdesk/internal/domain"
)

// ValueKind tags how a stored custom-field value was resolved. The decision
// is made once, at the storage boundary, never re-inferred per call site.
type ValueKind int

const (
	// RawText: the stored value did not parse as JSON.
	RawText ValueKind = iota
	// ParsedScalar: the value parsed to a scalar, array, empty object or null.
	ParsedScalar
	// ParsedFirstObjectValue: the value parsed to a non-empty object and the
	// value bound to its first key (document order) was taken.
	ParsedFirstObjectValue
)

type DecodedValue struct {
	Kind  ValueKind
	Value any
}

// DecodeFieldValue is the one canonical decode rule for stored custom-field
// values, used for both matching and display. Choice fields store values such
// as {"14":"Médis"}; free-text fields store plain or JSON-quoted strings.
func DecodeFieldValue(raw string) DecodedValue {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return DecodedValue{Kind: RawText, Value: raw}
	}
	obj, ok := parsed.(map[string]any)
	if !ok || len(obj) == 0 {
		return DecodedValue{Kind: ParsedScalar, Value: parsed}
	}
	return DecodedValue{Kind: ParsedFirstObjectValue, Value: firstObjectValue(raw, parsed)}
}

// firstObjectValue re-reads the document as a token stream because Go maps do
// not preserve key order; the first key is the one that appears first in the
// stored text.
func firstObjectValue(raw string, parsed any) any {
	dec := json.NewDecoder(strings.NewReader(raw))
	if _, err := dec.Token(); err != nil { // opening brace
		return parsed
	}
	if _, err := dec.Token(); err != nil { // first key
		return parsed
	}
	var v any
	if err := dec.Decode(&v); err != nil {
		return parsed
	}
	return v
}

// CustomFields batch-fetches and decodes every custom-field value belonging
// to the given ticket ids. Each requested id gets a map in the result, empty
// when the ticket carries no custom data, so callers never null-check.
func (r TicketRepository) CustomFields(ctx context.Context, ids []int64) (map[int64]map[string]any, error) {
	out := make(map[int64]map[string]any, len(ids))
	for _, id := range ids {
		out[id] = map[string]any{}
	}
	if len(ids) == 0 {
		return out, nil
	}

	fc := r.catalog()
	query := "SELECT fe.object_id, ff.name, fev.value" +
		" FROM " + fc.EntryTable + " fe" +
		" JOIN " + fc.ValueTable + " fev ON fev.entry_id = fe.id" +
		" JOIN " + fc.FieldTable + " ff ON ff.id = fev.field_id" +
		" WHERE fe.object_id IN (" + placeholders(len(ids)) + ") AND fe.object_type = ?"

	args := make([]any, 0, len(ids)+1)
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, fc.ObjectType)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.InternalError{Msg: "fetch custom fields", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ticketID int64
			name     string
			raw      string
		)
		if err := rows.Scan(&ticketID, &name, &raw); err != nil {
			return nil, domain.InternalError{Msg: "scan custom field", Err: err}
		}
		out[ticketID][name] = DecodeFieldValue(raw).Value
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Msg: "iterate custom fields", Err: err}
	}
	return out, nil
}
