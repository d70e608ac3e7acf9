package repositories

import (
	"fmt"
	"strings"
)

// CustomFilter is one caller-supplied filter over a custom field. Tokens are
// already flattened (repeated parameters and comma-separated values unioned,
// empties dropped); they match by substring against the decoded value.
type CustomFilter struct {
	Field  string
	Tokens []string
}

// TicketFilter carries the declared fixed-column filters plus the ordered
// list of custom-field filters. Unrecognized parameter names land in Custom
// unconditionally: a name that matches no field definition simply yields an
// empty result set instead of an error.
type TicketFilter struct {
	StatusIDs []int64
	TopicIDs  []int64
	DeptIDs   []int64
	Email     string
	Custom    []CustomFilter
}

// compiledFilter is the predicate shared verbatim by the count query and the
// page query, so the total can never drift from the rows returned.
type compiledFilter struct {
	Joins string
	Where string
	Args  []any
}

func (f TicketFilter) compile(fc FieldCatalog, ownerCol string) compiledFilter {
	var (
		joins   strings.Builder
		clauses []string
		args    []any
	)

	appendIn := func(col string, ids []int64) {
		if len(ids) == 0 {
			return
		}
		clauses = append(clauses, fmt.Sprintf("%s IN (%s)", col, placeholders(len(ids))))
		for _, id := range ids {
			args = append(args, id)
		}
	}
	appendIn("t.status_id", f.StatusIDs)
	appendIn("t.topic_id", f.TopicIDs)
	appendIn("t.dept_id", f.DeptIDs)

	if f.Email != "" {
		clauses = append(clauses, "ue.address = ?")
		args = append(args, f.Email)
	}

	pos := 0
	for _, cf := range f.Custom {
		if len(cf.Tokens) == 0 {
			continue
		}
		joins.WriteString(fc.JoinClause(pos, ownerCol))

		likes := make([]string, 0, len(cf.Tokens))
		likeArgs := make([]any, 0, len(cf.Tokens))
		for _, tok := range cf.Tokens {
			likes = append(likes, fc.DecodedValueExpr(pos)+" LIKE ?")
			likeArgs = append(likeArgs, "%"+tok+"%")
		}

		// AND across distinct filters, OR across values of the same filter.
		clauses = append(clauses, fmt.Sprintf("(%s = ? AND (%s))", fc.FieldNameCol(pos), strings.Join(likes, " OR ")))
		args = append(args, cf.Field)
		args = append(args, likeArgs...)
		pos++
	}

	where := strings.Join(clauses, " AND ")
	if where != "" {
		where = " WHERE " + where
	}
	return compiledFilter{Joins: joins.String(), Where: where, Args: args}
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
