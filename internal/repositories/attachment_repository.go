package repositories

import (
	"context"
	"database/sql"
	"errors"

	"helpdesk/internal/domain"
)

// AttachmentRepository writes the file / chunk / attachment triple that hangs
// a stored file off a thread entry. All writes run on the caller's
// transaction.
type AttachmentRepository struct{}

func (r AttachmentRepository) InsertFile(ctx context.Context, tx *sql.Tx, contentType, name, key, signature string, size int) (int64, error) {
	res, err := tx.ExecContext(ctx, `
        INSERT INTO ost_file (ft, type, size, name, `+"`key`"+`, signature, created)
        VALUES ('T', ?, ?, ?, ?, ?, NOW())
    `, contentType, size, name, key, signature)
	if err != nil {
		return 0, domain.InternalError{Msg: "insert file", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.InternalError{Msg: "file insert id", Err: err}
	}
	return id, nil
}

func (r AttachmentRepository) InsertChunk(ctx context.Context, tx *sql.Tx, fileID int64, data []byte) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO ost_file_chunk (file_id, chunk_id, filedata) VALUES (?, 0, ?)", fileID, data)
	if err != nil {
		return domain.InternalError{Msg: "insert file chunk", Err: err}
	}
	return nil
}

// LatestThreadEntry finds the entry an upload attaches to: the most recent
// message or note on the ticket's thread.
func (r AttachmentRepository) LatestThreadEntry(ctx context.Context, tx *sql.Tx, ticketID int64) (int64, error) {
	var entryID int64
	err := tx.QueryRowContext(ctx, `
        SELECT id FROM ost_thread_entry
        WHERE thread_id = (SELECT id FROM ost_thread WHERE object_id = ? AND object_type = 'T')
        ORDER BY id DESC LIMIT 1
    `, ticketID).Scan(&entryID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.NotFoundError{Resource: "ticket thread"}
	}
	if err != nil {
		return 0, domain.InternalError{Msg: "find thread entry", Err: err}
	}
	return entryID, nil
}

func (r AttachmentRepository) InsertAttachment(ctx context.Context, tx *sql.Tx, entryID, fileID int64) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO ost_attachment (object_id, type, file_id) VALUES (?, 'H', ?)", entryID, fileID)
	if err != nil {
		return domain.InternalError{Msg: "insert attachment", Err: err}
	}
	return nil
}
