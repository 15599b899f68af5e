package core

import (
	"strconv"
	"strings"
	"time"
)

// Retrieval defaults applied when the caller omits paging or sorting.
const (
	DefaultPage     = 0
	DefaultPageSize = 10
	DefaultSortKey  = "createdAt"
)

// SortDirection orders a listing result.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// FilterKind identifies the single effective value-filter combination chosen
// for a listing request.
type FilterKind string

const (
	FilterPriorityCategory FilterKind = "priority_category"
	FilterPriority         FilterKind = "priority"
	FilterStatusCategory   FilterKind = "status_category"
	FilterStatus           FilterKind = "status"
	FilterCategoryRating   FilterKind = "category_rating"
	FilterCategory         FilterKind = "category"
	FilterRatingDateRange  FilterKind = "rating_date_range"
	FilterRating           FilterKind = "rating"
	FilterDateRange        FilterKind = "date_range"
	FilterNone             FilterKind = "none"
)

// FilterParams carries the optional retrieval parameters as supplied by the
// caller, before precedence resolution. Zero values mean "not supplied".
type FilterParams struct {
	Rating    *int
	Category  *Category
	Status    *Status
	Priority  *Priority
	StartDate *time.Time
	EndDate   *time.Time
	Page      *int
	Size      *int
	SortBy    string
	SortDir   string
}

// FilterSpec is the resolved, unambiguous retrieval request handed to the
// store. Exactly one value-filter combination (Kind) is effective; only the
// fields that combination names are consulted by the executor. The date range
// is half-open: [StartDate, EndDate).
type FilterSpec struct {
	Kind      FilterKind
	Rating    int
	Category  Category
	Status    Status
	Priority  Priority
	StartDate time.Time
	EndDate   time.Time

	SortBy  string
	SortDir SortDirection
	Page    int
	Size    int
}

// filterRule pairs an applicability predicate with the builder that fills in
// the effective filter fields. Rules are evaluated in order; the first match
// wins and all remaining supplied filters are ignored for that request.
type filterRule struct {
	kind    FilterKind
	applies func(p FilterParams) bool
	build   func(p FilterParams, spec *FilterSpec)
}

// filterRules is the precedence table, highest priority first. The order is
// part of the external contract: combining filters never silently ANDs every
// supplied dimension.
var filterRules = []filterRule{
	{
		kind:    FilterPriorityCategory,
		applies: func(p FilterParams) bool { return p.Priority != nil && p.Category != nil },
		build: func(p FilterParams, s *FilterSpec) {
			s.Priority = *p.Priority
			s.Category = *p.Category
		},
	},
	{
		kind:    FilterPriority,
		applies: func(p FilterParams) bool { return p.Priority != nil },
		build:   func(p FilterParams, s *FilterSpec) { s.Priority = *p.Priority },
	},
	{
		kind:    FilterStatusCategory,
		applies: func(p FilterParams) bool { return p.Status != nil && p.Category != nil },
		build: func(p FilterParams, s *FilterSpec) {
			s.Status = *p.Status
			s.Category = *p.Category
		},
	},
	{
		kind:    FilterStatus,
		applies: func(p FilterParams) bool { return p.Status != nil },
		build:   func(p FilterParams, s *FilterSpec) { s.Status = *p.Status },
	},
	{
		kind:    FilterCategoryRating,
		applies: func(p FilterParams) bool { return p.Category != nil && p.Rating != nil },
		build: func(p FilterParams, s *FilterSpec) {
			s.Category = *p.Category
			s.Rating = *p.Rating
		},
	},
	{
		kind:    FilterCategory,
		applies: func(p FilterParams) bool { return p.Category != nil },
		build:   func(p FilterParams, s *FilterSpec) { s.Category = *p.Category },
	},
	{
		kind: FilterRatingDateRange,
		applies: func(p FilterParams) bool {
			return p.Rating != nil && p.StartDate != nil && p.EndDate != nil
		},
		build: func(p FilterParams, s *FilterSpec) {
			s.Rating = *p.Rating
			s.StartDate = *p.StartDate
			s.EndDate = *p.EndDate
		},
	},
	{
		kind:    FilterRating,
		applies: func(p FilterParams) bool { return p.Rating != nil },
		build:   func(p FilterParams, s *FilterSpec) { s.Rating = *p.Rating },
	},
	{
		kind:    FilterDateRange,
		applies: func(p FilterParams) bool { return p.StartDate != nil && p.EndDate != nil },
		build: func(p FilterParams, s *FilterSpec) {
			s.StartDate = *p.StartDate
			s.EndDate = *p.EndDate
		},
	},
	{
		kind:    FilterNone,
		applies: func(FilterParams) bool { return true },
		build:   func(FilterParams, *FilterSpec) {},
	},
}

// ResolveFilter maps the supplied parameters onto a single FilterSpec using
// the precedence table. It is pure: same input, same output.
func ResolveFilter(p FilterParams) FilterSpec {
	spec := FilterSpec{
		SortBy:  DefaultSortKey,
		SortDir: SortDesc,
		Page:    DefaultPage,
		Size:    DefaultPageSize,
	}

	if p.SortBy != "" {
		spec.SortBy = p.SortBy
	}
	// Anything other than "desc" sorts ascending.
	if p.SortDir != "" && !strings.EqualFold(p.SortDir, "desc") {
		spec.SortDir = SortAsc
	}
	if p.Page != nil && *p.Page >= 0 {
		spec.Page = *p.Page
	}
	if p.Size != nil && *p.Size > 0 {
		spec.Size = *p.Size
	}

	for _, rule := range filterRules {
		if rule.applies(p) {
			spec.Kind = rule.kind
			rule.build(p, &spec)
			break
		}
	}

	return spec
}

// sortColumns maps public sort keys to store columns. Unknown keys fall back
// to the creation timestamp so callers cannot inject arbitrary column names.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"rating":    "rating",
	"status":    "status",
	"priority":  "priority",
	"category":  "category",
	"userId":    "user_id",
}

// SortColumn returns the store column for the spec's sort key.
func (s FilterSpec) SortColumn() string {
	if col, ok := sortColumns[s.SortBy]; ok {
		return col
	}
	return sortColumns[DefaultSortKey]
}

// Offset returns the row offset implied by the page index and size.
func (s FilterSpec) Offset() int {
	return s.Page * s.Size
}

// ParseFilterParams decodes raw query values into FilterParams. It reports
// problems as a field -> reason map in the same shape the submission
// validator uses; an empty map means the input parsed cleanly.
func ParseFilterParams(get func(string) string) (FilterParams, map[string]string) {
	var p FilterParams
	problems := make(map[string]string)

	if raw := strings.TrimSpace(get("rating")); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil || rating < 1 || rating > 5 {
			problems["rating"] = "rating must be an integer between 1 and 5"
		} else {
			p.Rating = &rating
		}
	}
	if raw := strings.TrimSpace(get("category")); raw != "" {
		if category, ok := ParseCategory(raw); ok {
			p.Category = &category
		} else {
			problems["category"] = "category is invalid"
		}
	}
	if raw := strings.TrimSpace(get("status")); raw != "" {
		if status, ok := ParseStatus(raw); ok {
			p.Status = &status
		} else {
			problems["status"] = "status is invalid"
		}
	}
	if raw := strings.TrimSpace(get("priority")); raw != "" {
		if priority, ok := ParsePriority(raw); ok {
			p.Priority = &priority
		} else {
			problems["priority"] = "priority is invalid"
		}
	}
	if raw := strings.TrimSpace(get("startDate")); raw != "" {
		if ts, err := parseTimestamp(raw); err == nil {
			p.StartDate = &ts
		} else {
			problems["startDate"] = "startDate must be an RFC 3339 timestamp"
		}
	}
	if raw := strings.TrimSpace(get("endDate")); raw != "" {
		if ts, err := parseTimestamp(raw); err == nil {
			p.EndDate = &ts
		} else {
			problems["endDate"] = "endDate must be an RFC 3339 timestamp"
		}
	}
	if raw := strings.TrimSpace(get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			problems["page"] = "page must be a non-negative integer"
		} else {
			p.Page = &page
		}
	}
	if raw := strings.TrimSpace(get("size")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			problems["size"] = "size must be a positive integer"
		} else {
			p.Size = &size
		}
	}
	p.SortBy = strings.TrimSpace(get("sortBy"))
	p.SortDir = strings.TrimSpace(get("sortDir"))

	return p, problems
}

// parseTimestamp accepts RFC 3339 with or without an explicit zone, matching
// what existing clients send.
func parseTimestamp(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.Parse("2006-01-02T15:04:05", raw)
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}
