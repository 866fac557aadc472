// Package query translates geo filters into parameterized SQL. Values always
// travel as positional arguments; nothing user-supplied is ever interpolated
// into the query text.
package query

import (
	"fmt"
	"strings"

	"sporemap/internal/spore/models"
)

// Query is a SQL statement with its positional arguments.
type Query struct {
	SQL  string
	Args []any
}

const selectColumns = "SELECT id, lat, lng, message, cookie_id, created_at FROM spores"

// Build produces the data query and the matching count query for a filter
// set. Both share the bounding-box conditions; the cursor applies only to the
// data query, which is ordered ascending by id and optionally limited. The
// count query has no ordering or limit, so total always reflects the whole
// filtered set. Bounds are emitted as given: a partial or inverted box is the
// caller's business.
func Build(f models.GeoFilters) (data Query, count Query) {
	conds, args := boxConditions(f)

	if f.Cursor != nil {
		args = append(args, *f.Cursor)
		conds = append(conds, fmt.Sprintf("id > $%d", len(args)))
	}

	var b strings.Builder
	b.WriteString(selectColumns)
	writeWhere(&b, conds)
	b.WriteString(" ORDER BY id ASC")
	if f.Limit != nil && *f.Limit > 0 {
		args = append(args, *f.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	data = Query{SQL: b.String(), Args: args}

	countConds, countArgs := boxConditions(f)
	var cb strings.Builder
	cb.WriteString("SELECT COUNT(*) FROM spores")
	writeWhere(&cb, countConds)
	count = Query{SQL: cb.String(), Args: countArgs}

	return data, count
}

// boxConditions emits one inequality per supplied bound, ANDed by the WHERE
// clause. Absent bounds produce no clause at all.
func boxConditions(f models.GeoFilters) ([]string, []any) {
	var conds []string
	var args []any

	add := func(column, op string, value float64) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s %s $%d", column, op, len(args)))
	}

	if f.MinLat != nil {
		add("lat", ">=", *f.MinLat)
	}
	if f.MaxLat != nil {
		add("lat", "<=", *f.MaxLat)
	}
	if f.MinLng != nil {
		add("lng", ">=", *f.MinLng)
	}
	if f.MaxLng != nil {
		add("lng", "<=", *f.MaxLng)
	}

	return conds, args
}

func writeWhere(b *strings.Builder, conds []string) {
	if len(conds) == 0 {
		return
	}
	b.WriteString(" WHERE ")
	b.WriteString(strings.Join(conds, " AND "))
}
