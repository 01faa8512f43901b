package postgres

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/risinglab/rising-backend/internal/domain"
)

// Builder returns a squirrel statement builder with $N placeholders.
func Builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// ColumnKind drives value conversion for filter and update parameters.
type ColumnKind int

const (
	ColumnText ColumnKind = iota
	ColumnUUID
	ColumnNumeric
	ColumnTextArray
)

// Column maps an API field name to its SQL column.
type Column struct {
	Name string
	Kind ColumnKind
}

// ColumnMap is the per-entity whitelist of queryable/updatable fields,
// keyed by the JSON field name used on the wire.
type ColumnMap map[string]Column

// filter operator keys (Mongo-compatible subset).
const (
	opIn  = "$in"
	opNin = "$nin"
	opNe  = "$ne"
)

// ApplyListQuery adds WHERE / ORDER BY / LIMIT / OFFSET clauses derived from
// a ListQuery to the select builder. An unknown filter field matches no rows
// and an unknown sort field is ignored, the way a document store treats a
// query against a key no document carries.
func ApplyListQuery(sb sq.SelectBuilder, cols ColumnMap, q domain.ListQuery) (sq.SelectBuilder, error) {
	for field, cond := range q.Filter {
		col, ok := cols[field]
		if !ok {
			sb = sb.Where(sq.Expr("FALSE"))
			continue
		}

		pred, err := buildPredicate(col, cond)
		if err != nil {
			return sb, err
		}
		sb = sb.Where(pred)
	}

	for _, key := range q.Sort {
		col, ok := cols[key.Field]
		if !ok {
			continue
		}
		dir := "ASC"
		if key.Desc {
			dir = "DESC"
		}
		sb = sb.OrderBy(col.Name + " " + dir)
	}

	if q.Limit > 0 {
		sb = sb.Limit(uint64(q.Limit))
	}
	if q.Skip > 0 {
		sb = sb.Offset(uint64(q.Skip))
	}

	return sb, nil
}

// buildPredicate turns one filter condition into a squirrel predicate.
func buildPredicate(col Column, cond any) (sq.Sqlizer, error) {
	if doc, ok := cond.(map[string]any); ok {
		return buildOperatorPredicate(col, doc)
	}

	if cond == nil {
		return sq.Eq{col.Name: nil}, nil
	}

	v, err := convertValue(col, cond)
	if err != nil {
		return nil, err
	}
	return sq.Eq{col.Name: v}, nil
}

func buildOperatorPredicate(col Column, doc map[string]any) (sq.Sqlizer, error) {
	if len(doc) != 1 {
		return nil, domain.NewValidationError(col.Name, "operator document must have exactly one key")
	}

	for op, arg := range doc {
		switch op {
		case opIn, opNin:
			items, ok := arg.([]any)
			if !ok {
				return nil, domain.NewValidationError(col.Name, op+" requires an array")
			}
			vals := make([]any, 0, len(items))
			for _, item := range items {
				v, err := convertValue(col, item)
				if err != nil {
					return nil, err
				}
				vals = append(vals, v)
			}
			if op == opIn {
				return sq.Eq{col.Name: vals}, nil
			}
			return sq.NotEq{col.Name: vals}, nil
		case opNe:
			if arg == nil {
				return sq.NotEq{col.Name: nil}, nil
			}
			v, err := convertValue(col, arg)
			if err != nil {
				return nil, err
			}
			return sq.NotEq{col.Name: v}, nil
		default:
			return nil, domain.NewValidationError(col.Name, "unsupported operator "+op)
		}
	}

	return nil, domain.NewValidationError(col.Name, "empty operator document")
}

// convertValue coerces a wire value into the parameter type the column needs.
// UUID columns arrive as strings on the wire and must be parsed so pgx binds
// them with the uuid OID.
func convertValue(col Column, v any) (any, error) {
	switch col.Kind {
	case ColumnUUID:
		s, ok := v.(string)
		if !ok {
			if id, ok := v.(uuid.UUID); ok {
				return id, nil
			}
			return nil, domain.NewValidationError(col.Name, "expected id string")
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, domain.NewValidationError(col.Name, fmt.Sprintf("invalid id %q", s))
		}
		return id, nil
	default:
		return v, nil
	}
}

// BuildSetMap converts an incoming field record into a column → value map for
// an UPDATE. Unknown fields are silently dropped (partial updates are
// non-strict); identifier and timestamp fields are never settable.
func BuildSetMap(cols ColumnMap, fields domain.Fields) (map[string]any, error) {
	set := make(map[string]any, len(fields))
	for field, v := range fields {
		col, ok := cols[field]
		if !ok {
			continue
		}

		converted, err := convertSetValue(col, v)
		if err != nil {
			return nil, err
		}
		set[col.Name] = converted
	}
	return set, nil
}

func convertSetValue(col Column, v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch col.Kind {
	case ColumnUUID:
		return convertValue(col, v)
	case ColumnTextArray:
		switch vv := v.(type) {
		case []string:
			return vv, nil
		case []any:
			out := make([]string, 0, len(vv))
			for _, e := range vv {
				s, ok := e.(string)
				if !ok {
					return nil, domain.NewValidationError(col.Name, "expected array of strings")
				}
				out = append(out, s)
			}
			return out, nil
		case string:
			// A lone form field becomes a one-element list.
			return []string{vv}, nil
		default:
			return nil, domain.NewValidationError(col.Name, "expected array of strings")
		}
	case ColumnNumeric:
		switch vv := v.(type) {
		case float64, int, int64:
			return vv, nil
		case string:
			var f float64
			if _, err := fmt.Sscanf(vv, "%g", &f); err != nil {
				return nil, domain.NewValidationError(col.Name, fmt.Sprintf("invalid number %q", vv))
			}
			return f, nil
		default:
			return nil, domain.NewValidationError(col.Name, "expected number")
		}
	default:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return fmt.Sprintf("%v", v), nil
	}
}
