package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/intakehq/intake/internal/core"
)

// InsertAdminResponse persists an admin reply to a feedback record.
func (s *Store) InsertAdminResponse(ctx context.Context, r core.AdminResponse) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO admin_responses (id, feedback_id, admin_id, response, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, r.ID.String(), r.FeedbackID.String(), r.AdminID, r.Response, r.CreatedAt.UTC().Unix())
	if err != nil {
		return fmt.Errorf("store admin response: %w", err)
	}

	return nil
}

// ListAdminResponses returns the replies for a feedback record, oldest first.
func (s *Store) ListAdminResponses(ctx context.Context, feedbackID uuid.UUID) ([]core.AdminResponse, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, admin_id, response, created_at
		FROM admin_responses
		WHERE feedback_id = ?
		ORDER BY created_at
	`, feedbackID.String())
	if err != nil {
		return nil, fmt.Errorf("list admin responses: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	var records []core.AdminResponse
	for rows.Next() {
		var (
			id        string
			adminID   string
			response  string
			createdAt int64
		)
		if err := rows.Scan(&id, &adminID, &response, &createdAt); err != nil {
			return nil, fmt.Errorf("list admin responses: %w", err)
		}

		parsedID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("decode admin response id: %w", err)
		}

		records = append(records, core.AdminResponse{
			ID:         parsedID,
			FeedbackID: feedbackID,
			AdminID:    adminID,
			Response:   response,
			CreatedAt:  time.Unix(createdAt, 0).UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list admin responses: %w", err)
	}

	return records, nil
}
