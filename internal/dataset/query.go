package dataset

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shapelift/shapelift/internal/cache"
	"github.com/shapelift/shapelift/internal/perf"
	"github.com/shapelift/shapelift/pkg/engine"
)

// recordsQuery is the parsed form of GET /{name}/records query parameters.
type recordsQuery struct {
	Page         int
	Limit        int
	SortBy       string
	SortOrder    engine.SortOrder
	Search       string
	SearchFields []string
	Filters      []engine.FilterConfig
	DedupeBy     string
}

// queryRequest is the body of POST /{name}/query.
type queryRequest struct {
	Filters      []engine.FilterConfig    `json:"filters"`
	Search       string                   `json:"search"`
	SearchFields []string                 `json:"searchFields"`
	GroupBy      string                   `json:"groupBy"`
	Aggregations []engine.AggregationSpec `json:"aggregations"`
	DedupeBy     string                   `json:"dedupeBy"`
}

// groupSummary is one group's aggregate rollup when a query asks for both
// grouping and aggregations.
type groupSummary struct {
	Key     string             `json:"key"`
	Count   int                `json:"count"`
	Summary map[string]float64 `json:"summary"`
}

// queryResponse is the result envelope of POST /{name}/query.
type queryResponse struct {
	Dataset        string             `json:"dataset"`
	Matched        int                `json:"matched"`
	Records        []engine.Record    `json:"records,omitempty"`
	Groups         []engine.Group     `json:"groups,omitempty"`
	GroupSummaries []groupSummary     `json:"groupSummaries,omitempty"`
	Summary        map[string]float64 `json:"summary,omitempty"`
	TookMs         float64            `json:"tookMs"`
}

// parseRecordsQuery decodes the list-endpoint query parameters. Filters
// arrive as repeatable "field:op:value" params; values that parse as
// numbers or booleans are compared as such, everything else as text.
func parseRecordsQuery(r *http.Request) (recordsQuery, error) {
	q := r.URL.Query()
	out := recordsQuery{
		SortBy:    q.Get("sortBy"),
		Search:    q.Get("search"),
		DedupeBy:  q.Get("dedupe"),
		SortOrder: engine.SortOrder(q.Get("order")),
	}

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return out, fmt.Errorf("page must be an integer, got %q", v)
		}
		out.Page = page
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return out, fmt.Errorf("limit must be an integer, got %q", v)
		}
		out.Limit = limit
	}

	if v := q.Get("searchFields"); v != "" {
		out.SearchFields = strings.Split(v, ",")
	}

	for _, raw := range q["filter"] {
		f, err := parseFilterParam(raw)
		if err != nil {
			return out, err
		}
		out.Filters = append(out.Filters, f)
	}

	return out, nil
}

func parseFilterParam(raw string) (engine.FilterConfig, error) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) != 3 || parts[0] == "" {
		return engine.FilterConfig{}, fmt.Errorf("filter must be field:op:value, got %q", raw)
	}

	op := engine.FilterOp(parts[1])
	switch op {
	case engine.OpEq, engine.OpNe, engine.OpGt, engine.OpGte, engine.OpLt, engine.OpLte,
		engine.OpContains, engine.OpStartsWith, engine.OpEndsWith, engine.OpIn:
	default:
		return engine.FilterConfig{}, fmt.Errorf("unknown filter op %q", parts[1])
	}

	return engine.FilterConfig{Field: parts[0], Op: op, Value: coerceParam(parts[2])}, nil
}

// coerceParam interprets a URL parameter value: numbers and booleans become
// typed values so they can match JSON-decoded record fields; the "in" op
// takes a comma-separated list.
func coerceParam(v string) any {
	if strings.Contains(v, ",") {
		parts := strings.Split(v, ",")
		list := make([]any, len(parts))
		for i, p := range parts {
			list[i] = coerceParam(p)
		}
		return list
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return v
}

func keyPrefix(dataset string) string {
	return "dataset:" + dataset
}

// cacheKey canonicalizes the query into a deterministic cache key.
func (q recordsQuery) cacheKey(dataset string) string {
	filters := make([]string, len(q.Filters))
	for i, f := range q.Filters {
		filters[i] = fmt.Sprintf("%s:%s:%v", f.Field, f.Op, f.Value)
	}

	return cache.Key(keyPrefix(dataset), map[string]any{
		"page":   q.Page,
		"limit":  q.Limit,
		"sortBy": q.SortBy,
		"order":  q.SortOrder,
		"search": q.Search,
		"fields": strings.Join(q.SearchFields, ","),
		"filter": strings.Join(filters, "&"),
		"dedupe": q.DedupeBy,
	})
}

// runRecordsQuery executes the list pipeline (filter, search, dedupe, then
// sort+paginate) against the stored collection. A cache hit short-circuits
// before the pipeline runs; misses store the resulting page under the
// canonical key.
func (m *Module) runRecordsQuery(ctx context.Context, name string, q recordsQuery) (engine.Page[engine.Record], error) {
	key := q.cacheKey(name)
	if cached, ok := m.cache.Get(key); ok {
		if page, ok := cached.(engine.Page[engine.Record]); ok {
			return page, nil
		}
	}

	page, _, err := perf.Measure(m.monitor, "dataset.records", func() (engine.Page[engine.Record], error) {
		records, err := m.store.Records(ctx, name)
		if err != nil {
			return engine.Page[engine.Record]{}, err
		}

		records = engine.FilterRecords(records, q.Filters)
		if len(q.SearchFields) > 0 {
			records = engine.SearchRecords(records, q.Search, q.SearchFields)
		}
		if q.DedupeBy != "" {
			records = engine.Deduplicate(records, q.DedupeBy)
		}

		return engine.Paginate(records, engine.PageParams{
			Page:      q.Page,
			Limit:     q.Limit,
			SortBy:    q.SortBy,
			SortOrder: q.SortOrder,
		}), nil
	})
	if err != nil {
		return engine.Page[engine.Record]{}, err
	}

	m.cache.Set(key, page, m.cacheTTL)
	return page, nil
}

// runQuery executes the analytical pipeline: filter and search narrow the
// collection, then grouping and aggregation summarize it.
func (m *Module) runQuery(ctx context.Context, name string, req queryRequest) (queryResponse, error) {
	resp, elapsed, err := perf.Measure(m.monitor, "dataset.query", func() (queryResponse, error) {
		records, err := m.store.Records(ctx, name)
		if err != nil {
			return queryResponse{}, err
		}

		records = engine.FilterRecords(records, req.Filters)
		if len(req.SearchFields) > 0 {
			records = engine.SearchRecords(records, req.Search, req.SearchFields)
		}
		if req.DedupeBy != "" {
			records = engine.Deduplicate(records, req.DedupeBy)
		}

		resp := queryResponse{Dataset: name, Matched: len(records)}

		switch {
		case req.GroupBy != "" && len(req.Aggregations) > 0:
			groups := engine.GroupRecords(records, req.GroupBy)
			resp.GroupSummaries = make([]groupSummary, len(groups))
			for i, g := range groups {
				resp.GroupSummaries[i] = groupSummary{
					Key:     g.Key,
					Count:   len(g.Records),
					Summary: engine.Aggregate(g.Records, req.Aggregations),
				}
			}
		case req.GroupBy != "":
			resp.Groups = engine.GroupRecords(records, req.GroupBy)
		case len(req.Aggregations) > 0:
			resp.Summary = engine.Aggregate(records, req.Aggregations)
		default:
			resp.Records = records
		}

		return resp, nil
	})
	if err != nil {
		return queryResponse{}, err
	}

	resp.TookMs = float64(elapsed.Microseconds()) / 1000.0
	return resp, nil
}
