package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"helpdesk/internal/domain"
)

// NumberingConfig is the deployment's ticket numbering setup: which sequence
// feeds the counter and the mask its values are rendered through.
type NumberingConfig struct {
	SequenceID int64
	Format     string
}

// SequenceRepository reads numbering configuration and advances named
// counters. All methods run on the caller's transaction so a rolled-back
// creation rolls the counter advance back with it.
type SequenceRepository struct{}

func (r SequenceRepository) NumberingConfig(ctx context.Context, tx *sql.Tx) (NumberingConfig, error) {
	cfg := NumberingConfig{SequenceID: 1, Format: "%SEQ"}

	rows, err := tx.QueryContext(ctx,
		"SELECT `key`, `value` FROM ost_config WHERE `key` IN ('ticket_sequence_id', 'ticket_number_format')")
	if err != nil {
		return cfg, domain.InternalError{Msg: "read numbering config", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return cfg, domain.InternalError{Msg: "scan numbering config", Err: err}
		}
		switch key {
		case "ticket_sequence_id":
			if id, err := strconv.ParseInt(value, 10, 64); err == nil && id > 0 {
				cfg.SequenceID = id
			}
		case "ticket_number_format":
			if value != "" {
				cfg.Format = value
			}
		}
	}
	return cfg, rows.Err()
}

// SequenceName resolves the sequence row's name, falling back to the
// schema's default when the configured id points nowhere.
func (r SequenceRepository) SequenceName(ctx context.Context, tx *sql.Tx, id int64) (string, error) {
	var name string
	err := tx.QueryRowContext(ctx, "SELECT `name` FROM ost_sequence WHERE `id` = ?", id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "ticket_number", nil
	}
	if err != nil {
		return "", domain.InternalError{Msg: "read sequence name", Err: err}
	}
	return name, nil
}

// NextValue advances the named counter and returns the post-increment value.
// The UPDATE routes the new value through LAST_INSERT_ID(), so the advance
// and the read are one atomic statement: two concurrent callers always
// observe distinct values, whichever interleaving the server picks.
func (r SequenceRepository) NextValue(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	res, err := tx.ExecContext(ctx,
		"UPDATE ost_sequence SET next = LAST_INSERT_ID(next + 1) WHERE name = ?", name)
	if err != nil {
		return 0, domain.InternalError{Msg: "advance sequence", Err: err}
	}
	value, err := res.LastInsertId()
	if err != nil {
		return 0, domain.InternalError{Msg: "read sequence value", Err: err}
	}
	return value, nil
}
