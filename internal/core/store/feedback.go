package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/intakehq/intake/internal/core"
)

// InsertFeedback persists a new feedback record.
func (s *Store) InsertFeedback(ctx context.Context, f core.Feedback) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var priority sql.NullString
	if f.Priority != "" {
		priority = sql.NullString{String: string(f.Priority), Valid: true}
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO feedback (id, user_id, message, rating, category, status, priority, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, f.ID.String(), f.UserID, f.Message, f.Rating, string(f.Category), string(f.Status), priority, f.CreatedAt.UTC().Unix())
	if err != nil {
		return fmt.Errorf("store feedback: %w", err)
	}

	return nil
}

// GetFeedback returns a feedback record by ID, or nil when absent.
func (s *Store) GetFeedback(ctx context.Context, id uuid.UUID) (*core.Feedback, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	row := s.DB.QueryRowContext(ctx, `
		SELECT id, user_id, message, rating, category, status, priority, created_at
		FROM feedback
		WHERE id = ?
	`, id.String())

	f, err := scanFeedback(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch feedback: %w", err)
	}

	return f, nil
}

// ListFeedback executes a resolved retrieval request. Exactly one filter
// combination applies, selected by spec.Kind; sorting and paging always apply.
func (s *Store) ListFeedback(ctx context.Context, spec core.FilterSpec) ([]core.Feedback, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	where, args := feedbackFilterClause(spec)

	query := fmt.Sprintf(`
		SELECT id, user_id, message, rating, category, status, priority, created_at
		FROM feedback
		%s
		ORDER BY %s %s
		LIMIT ? OFFSET ?
	`, where, spec.SortColumn(), sortKeyword(spec.SortDir))
	args = append(args, spec.Size, spec.Offset())

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	var records []core.Feedback
	for rows.Next() {
		f, err := scanFeedback(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list feedback: %w", err)
		}
		records = append(records, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	return records, nil
}

// CountFeedback returns the number of records matching the spec's filter,
// ignoring paging. Used to report total pages on listing responses.
func (s *Store) CountFeedback(ctx context.Context, spec core.FilterSpec) (int, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	where, args := feedbackFilterClause(spec)

	var count int
	row := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM feedback "+where, args...)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count feedback: %w", err)
	}

	return count, nil
}

// UpdateFeedbackStatus transitions a feedback record to a new status. It
// returns false when no record with the given ID exists.
func (s *Store) UpdateFeedbackStatus(ctx context.Context, id uuid.UUID, status core.Status) (bool, error) {
	if s == nil || s.DB == nil {
		return false, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	result, err := s.DB.ExecContext(ctx, `
		UPDATE feedback SET status = ? WHERE id = ?
	`, string(status), id.String())
	if err != nil {
		return false, fmt.Errorf("update feedback status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update feedback status: %w", err)
	}

	return affected > 0, nil
}

// UpdateFeedbackPriority assigns a triage priority. It returns false when no
// record with the given ID exists.
func (s *Store) UpdateFeedbackPriority(ctx context.Context, id uuid.UUID, priority core.Priority) (bool, error) {
	if s == nil || s.DB == nil {
		return false, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	result, err := s.DB.ExecContext(ctx, `
		UPDATE feedback SET priority = ? WHERE id = ?
	`, string(priority), id.String())
	if err != nil {
		return false, fmt.Errorf("update feedback priority: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update feedback priority: %w", err)
	}

	return affected > 0, nil
}

// feedbackFilterClause builds the WHERE clause for the resolved filter
// combination. Fields outside the combination contribute nothing.
func feedbackFilterClause(spec core.FilterSpec) (string, []any) {
	var (
		conds []string
		args  []any
	)

	switch spec.Kind {
	case core.FilterPriorityCategory:
		conds = append(conds, "priority = ?", "category = ?")
		args = append(args, string(spec.Priority), string(spec.Category))
	case core.FilterPriority:
		conds = append(conds, "priority = ?")
		args = append(args, string(spec.Priority))
	case core.FilterStatusCategory:
		conds = append(conds, "status = ?", "category = ?")
		args = append(args, string(spec.Status), string(spec.Category))
	case core.FilterStatus:
		conds = append(conds, "status = ?")
		args = append(args, string(spec.Status))
	case core.FilterCategoryRating:
		conds = append(conds, "category = ?", "rating = ?")
		args = append(args, string(spec.Category), spec.Rating)
	case core.FilterCategory:
		conds = append(conds, "category = ?")
		args = append(args, string(spec.Category))
	case core.FilterRatingDateRange:
		conds = append(conds, "rating = ?", "created_at >= ?", "created_at < ?")
		args = append(args, spec.Rating, spec.StartDate.UTC().Unix(), spec.EndDate.UTC().Unix())
	case core.FilterRating:
		conds = append(conds, "rating = ?")
		args = append(args, spec.Rating)
	case core.FilterDateRange:
		conds = append(conds, "created_at >= ?", "created_at < ?")
		args = append(args, spec.StartDate.UTC().Unix(), spec.EndDate.UTC().Unix())
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func sortKeyword(dir core.SortDirection) string {
	if dir == core.SortAsc {
		return "ASC"
	}
	return "DESC"
}

// scanFeedback decodes one feedback row from either a QueryRow or Rows scan.
func scanFeedback(scan func(dest ...any) error) (*core.Feedback, error) {
	var (
		id        string
		userID    string
		message   string
		rating    int
		category  string
		status    string
		priority  sql.NullString
		createdAt int64
	)

	if err := scan(&id, &userID, &message, &rating, &category, &status, &priority, &createdAt); err != nil {
		return nil, err
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("decode feedback id: %w", err)
	}

	f := &core.Feedback{
		ID:        parsedID,
		UserID:    userID,
		Message:   message,
		Rating:    rating,
		Category:  core.Category(category),
		Status:    core.Status(status),
		CreatedAt: time.Unix(createdAt, 0).UTC(),
	}
	if priority.Valid && priority.String != "" {
		f.Priority = core.Priority(priority.String)
	}

	return f, nil
}
