//go:build cgo

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/intakehq/intake/internal/config"
	"github.com/intakehq/intake/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	cfg := config.StoreConfig{
		Driver: "libsql",
		Path:   ":memory:",
	}

	s, err := Open(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(ctx))
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestOpenMemoryStore(t *testing.T) {
	s := openTestStore(t)
	require.Equal(t, "libsql", s.Driver())
}

func seedFeedback(t *testing.T, s *Store, rating int, category core.Category, status core.Status, priority core.Priority, createdAt time.Time) core.Feedback {
	t.Helper()

	f := core.NewFeedback()
	f.UserID = "user-1"
	f.Message = "seed"
	f.Rating = rating
	f.Category = category
	f.Status = status
	f.Priority = priority
	f.CreatedAt = createdAt

	require.NoError(t, s.InsertFeedback(context.Background(), f))
	return f
}

func TestFeedbackRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created := seedFeedback(t, s, 4, core.CategoryBugReport, core.StatusNew, core.PriorityHigh, time.Now().UTC().Truncate(time.Second))

	got, err := s.GetFeedback(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, created.ID, got.ID)
	require.Equal(t, "user-1", got.UserID)
	require.Equal(t, 4, got.Rating)
	require.Equal(t, core.CategoryBugReport, got.Category)
	require.Equal(t, core.StatusNew, got.Status)
	require.Equal(t, core.PriorityHigh, got.Priority)
	require.Equal(t, created.CreatedAt, got.CreatedAt)
}

func TestGetFeedbackMissing(t *testing.T) {
	s := openTestStore(t)

	got, err := s.GetFeedback(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestListFeedbackFilterCombinations(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	seedFeedback(t, s, 5, core.CategoryBugReport, core.StatusNew, core.PriorityHigh, base)
	seedFeedback(t, s, 3, core.CategoryBugReport, core.StatusResolved, core.PriorityLow, base.Add(time.Hour))
	seedFeedback(t, s, 5, core.CategoryGeneral, core.StatusNew, "", base.Add(2*time.Hour))

	list := func(spec core.FilterSpec) []core.Feedback {
		t.Helper()
		if spec.Size == 0 {
			spec.Size = core.DefaultPageSize
		}
		if spec.SortBy == "" {
			spec.SortBy = core.DefaultSortKey
		}
		records, err := s.ListFeedback(ctx, spec)
		require.NoError(t, err)
		return records
	}

	t.Run("PriorityAndCategory", func(t *testing.T) {
		records := list(core.FilterSpec{
			Kind:     core.FilterPriorityCategory,
			Priority: core.PriorityHigh,
			Category: core.CategoryBugReport,
		})
		require.Len(t, records, 1)
		require.Equal(t, core.PriorityHigh, records[0].Priority)
	})

	t.Run("StatusOnly", func(t *testing.T) {
		records := list(core.FilterSpec{Kind: core.FilterStatus, Status: core.StatusNew})
		require.Len(t, records, 2)
	})

	t.Run("CategoryAndRating", func(t *testing.T) {
		records := list(core.FilterSpec{
			Kind:     core.FilterCategoryRating,
			Category: core.CategoryBugReport,
			Rating:   5,
		})
		require.Len(t, records, 1)
	})

	t.Run("DateRangeHalfOpen", func(t *testing.T) {
		records := list(core.FilterSpec{
			Kind:      core.FilterDateRange,
			StartDate: base,
			EndDate:   base.Add(2 * time.Hour),
		})
		// End bound is exclusive: the record at base+2h stays out.
		require.Len(t, records, 2)
	})

	t.Run("NoFilterSortedDescending", func(t *testing.T) {
		records := list(core.FilterSpec{Kind: core.FilterNone, SortDir: core.SortDesc})
		require.Len(t, records, 3)
		require.True(t, records[0].CreatedAt.After(records[2].CreatedAt))
	})

	t.Run("Paging", func(t *testing.T) {
		records := list(core.FilterSpec{Kind: core.FilterNone, Page: 1, Size: 2})
		require.Len(t, records, 1)

		count, err := s.CountFeedback(ctx, core.FilterSpec{Kind: core.FilterNone})
		require.NoError(t, err)
		require.Equal(t, 3, count)
	})
}

func TestUpdateFeedbackStatus(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created := seedFeedback(t, s, 2, core.CategoryComplaint, core.StatusNew, "", time.Now().UTC())

	updated, err := s.UpdateFeedbackStatus(ctx, created.ID, core.StatusInReview)
	require.NoError(t, err)
	require.True(t, updated)

	got, err := s.GetFeedback(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, core.StatusInReview, got.Status)

	updated, err = s.UpdateFeedbackStatus(ctx, uuid.New(), core.StatusClosed)
	require.NoError(t, err)
	require.False(t, updated)
}

func TestUserUniqueness(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := core.NewUser()
	u.Username = "alice"
	u.Email = "alice@example.com"
	u.PasswordHash = "hash"
	require.NoError(t, s.CreateUser(ctx, u))

	exists, err := s.UsernameExists(ctx, "alice")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = s.EmailExists(ctx, "alice@example.com")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = s.UsernameExists(ctx, "bob")
	require.NoError(t, err)
	require.False(t, exists)

	got, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, core.RoleUser, got.Role)

	dup := core.NewUser()
	dup.Username = "alice"
	dup.Email = "other@example.com"
	dup.PasswordHash = "hash"
	require.Error(t, s.CreateUser(ctx, dup))
}

func TestAdminResponsesAndAttachments(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created := seedFeedback(t, s, 1, core.CategoryGeneral, core.StatusNew, "", time.Now().UTC())

	resp := core.AdminResponse{
		ID:         uuid.New(),
		FeedbackID: created.ID,
		AdminID:    "admin-1",
		Response:   "thanks, looking into it",
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.InsertAdminResponse(ctx, resp))

	responses, err := s.ListAdminResponses(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	require.Equal(t, "admin-1", responses[0].AdminID)

	att := core.Attachment{
		ID:          uuid.New(),
		FeedbackID:  created.ID,
		FileName:    "screenshot.png",
		ContentType: "image/png",
		FileSize:    2048,
		UploadedAt:  time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.InsertAttachment(ctx, att))

	attachments, err := s.ListAttachments(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, attachments, 1)
	require.Equal(t, "screenshot.png", attachments[0].FileName)
	require.Equal(t, int64(2048), attachments[0].FileSize)
}
