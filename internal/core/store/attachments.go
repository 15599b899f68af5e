package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/intakehq/intake/internal/core"
)

// InsertAttachment records attachment metadata for a feedback record.
func (s *Store) InsertAttachment(ctx context.Context, a core.Attachment) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var contentType, filePath sql.NullString
	if a.ContentType != "" {
		contentType = sql.NullString{String: a.ContentType, Valid: true}
	}
	if a.FilePath != "" {
		filePath = sql.NullString{String: a.FilePath, Valid: true}
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO attachments (id, feedback_id, file_name, content_type, file_size, file_path, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.ID.String(), a.FeedbackID.String(), a.FileName, contentType, a.FileSize, filePath, a.UploadedAt.UTC().Unix())
	if err != nil {
		return fmt.Errorf("store attachment: %w", err)
	}

	return nil
}

// ListAttachments returns attachment metadata for a feedback record, oldest first.
func (s *Store) ListAttachments(ctx context.Context, feedbackID uuid.UUID) ([]core.Attachment, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, file_name, content_type, file_size, file_path, uploaded_at
		FROM attachments
		WHERE feedback_id = ?
		ORDER BY uploaded_at
	`, feedbackID.String())
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	var records []core.Attachment
	for rows.Next() {
		var (
			id          string
			fileName    string
			contentType sql.NullString
			fileSize    int64
			filePath    sql.NullString
			uploadedAt  int64
		)
		if err := rows.Scan(&id, &fileName, &contentType, &fileSize, &filePath, &uploadedAt); err != nil {
			return nil, fmt.Errorf("list attachments: %w", err)
		}

		parsedID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("decode attachment id: %w", err)
		}

		records = append(records, core.Attachment{
			ID:          parsedID,
			FeedbackID:  feedbackID,
			FileName:    fileName,
			ContentType: contentType.String,
			FileSize:    fileSize,
			FilePath:    filePath.String,
			UploadedAt:  time.Unix(uploadedAt, 0).UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}

	return records, nil
}
