package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/risinglab/rising-backend/internal/domain"
)

// listOptions is the wire shape of the "options" query parameter.
type listOptions struct {
	Sort  map[string]int `json:"sort"`
	Limit int            `json:"limit"`
	Skip  int            `json:"skip"`
}

// parseListQuery decodes the optional filter / projection / options query
// parameters. Absent parameters leave the zero query, which means a full
// collection return.
func parseListQuery(r *http.Request) (domain.ListQuery, error) {
	var q domain.ListQuery
	qs := r.URL.Query()

	if raw := qs.Get("filter"); raw != "" {
		var filter domain.Fields
		if err := json.Unmarshal([]byte(raw), &filter); err != nil {
			return q, fmt.Errorf("parse filter: %w", err)
		}
		q.Filter = filter
	}

	if raw := qs.Get("projection"); raw != "" {
		var projection map[string]int
		if err := json.Unmarshal([]byte(raw), &projection); err != nil {
			return q, fmt.Errorf("parse projection: %w", err)
		}
		q.Projection = projection
	}

	if raw := qs.Get("options"); raw != "" {
		var opts listOptions
		if err := json.Unmarshal([]byte(raw), &opts); err != nil {
			return q, fmt.Errorf("parse options: %w", err)
		}
		q.Sort = sortKeys(opts.Sort)
		q.Limit = opts.Limit
		q.Skip = opts.Skip
	}

	return q, nil
}

// sortKeys flattens a {"field": 1|-1} sort document into ordered sort keys.
// JSON objects decode into unordered maps, so fields are ordered by name to
// keep the translation deterministic.
func sortKeys(doc map[string]int) []domain.SortKey {
	if len(doc) == 0 {
		return nil
	}

	fields := make([]string, 0, len(doc))
	for f := range doc {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	keys := make([]domain.SortKey, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, domain.SortKey{Field: f, Desc: doc[f] < 0})
	}
	return keys
}
