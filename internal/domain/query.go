package domain

// SortKey is one ordering criterion of a list query.
type SortKey struct {
	Field string
	Desc  bool
}

// ListQuery carries the optional filter / projection / options of a
// collection listing. The zero value means "return the full collection".
type ListQuery struct {
	// Filter is a field → condition document. A condition is either a plain
	// value (equality, nil meaning IS NULL) or an operator document with
	// "$in", "$nin" or "$ne" keys.
	Filter Fields

	// Projection limits the serialized fields of each result. Values of 1
	// include the named fields (plus "id"), values of 0 exclude them.
	Projection map[string]int

	Sort  []SortKey
	Limit int
	Skip  int
}

// IsZero reports whether the query applies no constraints at all.
func (q ListQuery) IsZero() bool {
	return len(q.Filter) == 0 && len(q.Projection) == 0 && len(q.Sort) == 0 && q.Limit == 0 && q.Skip == 0
}
