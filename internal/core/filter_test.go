package core

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int                { return &v }
func categoryPtr(v Category) *Category { return &v }
func statusPtr(v Status) *Status       { return &v }
func priorityPtr(v Priority) *Priority { return &v }
func timePtr(v time.Time) *time.Time   { return &v }

func TestResolveFilterPrecedence(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		params FilterParams
		want   FilterKind
	}{
		{
			name: "PriorityAndCategoryWinOverEverything",
			params: FilterParams{
				Rating:    intPtr(4),
				Category:  categoryPtr(CategoryBugReport),
				Status:    statusPtr(StatusNew),
				Priority:  priorityPtr(PriorityHigh),
				StartDate: timePtr(start),
				EndDate:   timePtr(end),
			},
			want: FilterPriorityCategory,
		},
		{
			name:   "PriorityAlone",
			params: FilterParams{Priority: priorityPtr(PriorityLow), Rating: intPtr(2)},
			want:   FilterPriority,
		},
		{
			name: "StatusAndCategory",
			params: FilterParams{
				Status:   statusPtr(StatusResolved),
				Category: categoryPtr(CategoryGeneral),
				Rating:   intPtr(1),
			},
			want: FilterStatusCategory,
		},
		{
			name:   "StatusAlone",
			params: FilterParams{Status: statusPtr(StatusClosed)},
			want:   FilterStatus,
		},
		{
			name:   "CategoryAndRating",
			params: FilterParams{Category: categoryPtr(CategoryComplaint), Rating: intPtr(5)},
			want:   FilterCategoryRating,
		},
		{
			name:   "CategoryAlone",
			params: FilterParams{Category: categoryPtr(CategoryFeatureRequest)},
			want:   FilterCategory,
		},
		{
			name: "RatingAndDateRange",
			params: FilterParams{
				Rating:    intPtr(3),
				StartDate: timePtr(start),
				EndDate:   timePtr(end),
			},
			want: FilterRatingDateRange,
		},
		{
			name:   "RatingWithOnlyStartDateFallsToRating",
			params: FilterParams{Rating: intPtr(3), StartDate: timePtr(start)},
			want:   FilterRating,
		},
		{
			name:   "DateRangeAlone",
			params: FilterParams{StartDate: timePtr(start), EndDate: timePtr(end)},
			want:   FilterDateRange,
		},
		{
			name:   "NoFilters",
			params: FilterParams{},
			want:   FilterNone,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := ResolveFilter(tc.params)
			require.Equal(t, tc.want, spec.Kind)
		})
	}
}

func TestResolveFilterBugReportHighPriority(t *testing.T) {
	spec := ResolveFilter(FilterParams{
		Category: categoryPtr(CategoryBugReport),
		Priority: priorityPtr(PriorityHigh),
	})

	require.Equal(t, FilterPriorityCategory, spec.Kind)
	require.Equal(t, CategoryBugReport, spec.Category)
	require.Equal(t, PriorityHigh, spec.Priority)
	// The rating dimension must stay untouched.
	require.Zero(t, spec.Rating)
}

func TestResolveFilterDefaults(t *testing.T) {
	t.Run("AppliedWhenOmitted", func(t *testing.T) {
		spec := ResolveFilter(FilterParams{})
		require.Equal(t, DefaultSortKey, spec.SortBy)
		require.Equal(t, SortDesc, spec.SortDir)
		require.Equal(t, DefaultPage, spec.Page)
		require.Equal(t, DefaultPageSize, spec.Size)
	})

	t.Run("DateRangeKeepsSortAndPageDefaults", func(t *testing.T) {
		start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
		spec := ResolveFilter(FilterParams{StartDate: timePtr(start), EndDate: timePtr(end)})

		require.Equal(t, FilterDateRange, spec.Kind)
		require.Equal(t, start, spec.StartDate)
		require.Equal(t, end, spec.EndDate)
		require.Equal(t, DefaultSortKey, spec.SortBy)
		require.Equal(t, SortDesc, spec.SortDir)
		require.Equal(t, DefaultPage, spec.Page)
		require.Equal(t, DefaultPageSize, spec.Size)
	})

	t.Run("AnythingButDescSortsAscending", func(t *testing.T) {
		require.Equal(t, SortAsc, ResolveFilter(FilterParams{SortDir: "asc"}).SortDir)
		require.Equal(t, SortAsc, ResolveFilter(FilterParams{SortDir: "upwards"}).SortDir)
		require.Equal(t, SortDesc, ResolveFilter(FilterParams{SortDir: "DESC"}).SortDir)
		require.Equal(t, SortDesc, ResolveFilter(FilterParams{SortDir: "desc"}).SortDir)
	})

	t.Run("UnknownSortKeyFallsBackToCreatedAt", func(t *testing.T) {
		spec := ResolveFilter(FilterParams{SortBy: "password_hash"})
		require.Equal(t, "created_at", spec.SortColumn())
	})
}

func TestResolveFilterDeterministic(t *testing.T) {
	params := FilterParams{
		Rating:   intPtr(4),
		Category: categoryPtr(CategoryBugReport),
		Status:   statusPtr(StatusNew),
		SortBy:   "rating",
		SortDir:  "asc",
		Page:     intPtr(2),
		Size:     intPtr(25),
	}

	first := ResolveFilter(params)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, ResolveFilter(params))
	}
	require.Equal(t, 50, first.Offset())
}

func TestParseFilterParams(t *testing.T) {
	t.Run("FullQuery", func(t *testing.T) {
		values := url.Values{}
		values.Set("rating", "4")
		values.Set("category", "bug_report")
		values.Set("status", "NEW")
		values.Set("priority", "HIGH")
		values.Set("startDate", "2025-01-01T00:00:00Z")
		values.Set("endDate", "2025-02-01T00:00:00")
		values.Set("page", "1")
		values.Set("size", "20")
		values.Set("sortBy", "rating")
		values.Set("sortDir", "ASC")

		params, problems := ParseFilterParams(values.Get)
		require.Empty(t, problems)
		require.Equal(t, 4, *params.Rating)
		require.Equal(t, CategoryBugReport, *params.Category)
		require.Equal(t, StatusNew, *params.Status)
		require.Equal(t, PriorityHigh, *params.Priority)
		require.Equal(t, 1, *params.Page)
		require.Equal(t, 20, *params.Size)
	})

	t.Run("BadValuesReported", func(t *testing.T) {
		values := url.Values{}
		values.Set("rating", "6")
		values.Set("category", "nonsense")
		values.Set("startDate", "yesterday")
		values.Set("page", "-1")
		values.Set("size", "0")

		_, problems := ParseFilterParams(values.Get)
		require.Len(t, problems, 5)
		require.Contains(t, problems, "rating")
		require.Contains(t, problems, "category")
		require.Contains(t, problems, "startDate")
		require.Contains(t, problems, "page")
		require.Contains(t, problems, "size")
	})
}
