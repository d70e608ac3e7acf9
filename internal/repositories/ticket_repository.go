package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"helpdesk/internal/domain"
)

type Ticket struct {
	TicketID     int64          `json:"ticket_id"`
	Number       string         `json:"number"`
	Created      time.Time      `json:"created"`
	StatusID     int64          `json:"status_id"`
	StatusName   string         `json:"status_name"`
	TopicID      int64          `json:"topic_id"`
	TopicName    *string        `json:"topic_name"`
	DeptID       int64          `json:"dept_id"`
	DeptName     *string        `json:"dept_name"`
	UserID       int64          `json:"user_id"`
	UserName     string         `json:"user_name"`
	UserEmail    string         `json:"user_email"`
	CustomFields map[string]any `json:"custom_fields"`
}

type TicketRepository struct {
	DB      *sql.DB
	Catalog FieldCatalog
}

func (r TicketRepository) catalog() FieldCatalog {
	if r.Catalog.EntryTable != "" {
		return r.Catalog
	}
	return TicketFieldCatalog()
}

const ticketSelectCols = `t.ticket_id, t.number, t.created, t.status_id, s.name AS status_name,
       t.topic_id, ht.topic AS topic_name, t.dept_id, d.name AS dept_name,
       t.user_id, u.name AS user_name, ue.address AS user_email`

const ticketBaseJoins = ` FROM ost_ticket t
 JOIN ost_ticket_status s ON t.status_id = s.id
 JOIN ost_user u ON t.user_id = u.id
 JOIN ost_user_email ue ON u.id = ue.user_id
 LEFT JOIN ost_help_topic ht ON t.topic_id = ht.topic_id
 LEFT JOIN ost_department d ON t.dept_id = d.id`

// countJoins omits the LEFT JOINs that only feed display columns; the filter
// predicate can only reference the inner joins and the custom-field joins.
const ticketCountJoins = ` FROM ost_ticket t
 JOIN ost_user u ON t.user_id = u.id
 JOIN ost_user_email ue ON u.id = ue.user_id`

// List runs the count and page queries under one compiled predicate and
// returns the window of tickets plus the total under that predicate.
func (r TicketRepository) List(ctx context.Context, f TicketFilter, limit, offset int) ([]Ticket, int, error) {
	compiled := f.compile(r.catalog(), "t.ticket_id")

	var total int
	countSQL := "SELECT COUNT(t.ticket_id)" + ticketCountJoins + compiled.Joins + compiled.Where
	if err := r.DB.QueryRowContext(ctx, countSQL, compiled.Args...).Scan(&total); err != nil {
		return nil, 0, domain.InternalError{Msg: "count tickets", Err: err}
	}

	dataSQL := "SELECT " + ticketSelectCols + ticketBaseJoins + compiled.Joins + compiled.Where +
		" ORDER BY t.created DESC, t.ticket_id DESC LIMIT ? OFFSET ?"
	args := append(append([]any{}, compiled.Args...), limit, offset)

	rows, err := r.DB.QueryContext(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, domain.InternalError{Msg: "list tickets", Err: err}
	}
	defer rows.Close()

	tickets := make([]Ticket, 0, limit)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.InternalError{Msg: "iterate tickets", Err: err}
	}
	return tickets, total, nil
}

func (r TicketRepository) GetByID(ctx context.Context, id int64) (Ticket, error) {
	query := "SELECT " + ticketSelectCols + ticketBaseJoins + " WHERE t.ticket_id = ?"
	t, err := scanTicket(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Ticket{}, domain.NotFoundError{Resource: "ticket"}
	}
	if err != nil {
		return Ticket{}, err
	}
	return t, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(rs rowScanner) (Ticket, error) {
	var (
		t         Ticket
		topicName sql.NullString
		deptName  sql.NullString
	)
	err := rs.Scan(&t.TicketID, &t.Number, &t.Created, &t.StatusID, &t.StatusName,
		&t.TopicID, &topicName, &t.DeptID, &deptName,
		&t.UserID, &t.UserName, &t.UserEmail)
	if err != nil {
		return Ticket{}, domain.InternalError{Msg: "scan ticket", Err: err}
	}
	if topicName.Valid {
		t.TopicName = &topicName.String
	}
	if deptName.Valid {
		t.DeptName = &deptName.String
	}
	t.CustomFields = map[string]any{}
	return t, nil
}

// Insert writes the ticket row inside the creation transaction. status_id 1
// is the schema's initial "open" status.
func (r TicketRepository) Insert(ctx context.Context, tx *sql.Tx, number string, userID, deptID, topicID int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `
        INSERT INTO ost_ticket (number, user_id, dept_id, topic_id, status_id, created, updated)
        VALUES (?, ?, ?, ?, 1, NOW(), NOW())
    `, number, userID, deptID, topicID)
	if err != nil {
		return 0, domain.InternalError{Msg: "insert ticket", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.InternalError{Msg: "ticket insert id", Err: err}
	}
	return id, nil
}

func (r TicketRepository) InsertThread(ctx context.Context, tx *sql.Tx, ticketID int64) (int64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO ost_thread (object_id, object_type, created) VALUES (?, 'T', NOW())", ticketID)
	if err != nil {
		return 0, domain.InternalError{Msg: "insert thread", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.InternalError{Msg: "thread insert id", Err: err}
	}
	return id, nil
}

func (r TicketRepository) InsertThreadEntry(ctx context.Context, tx *sql.Tx, threadID int64, body, poster string) error {
	_, err := tx.ExecContext(ctx, `
        INSERT INTO ost_thread_entry (thread_id, type, body, poster, created, updated)
        VALUES (?, 'M', ?, ?, NOW(), NOW())
    `, threadID, body, poster)
	if err != nil {
		return domain.InternalError{Msg: "insert thread entry", Err: err}
	}
	return nil
}

// MarkClosed flips the ticket to the closed status and stamps it.
func (r TicketRepository) MarkClosed(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE ost_ticket SET status_id = 3, closed = NOW(), updated = NOW() WHERE ticket_id = ?", id)
	if err != nil {
		return domain.InternalError{Msg: "close ticket", Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// zero rows can also mean "already closed"; only a missing ticket is
		// worth reporting, so check existence before deciding
		var exists int64
		lookupErr := r.DB.QueryRowContext(ctx, "SELECT ticket_id FROM ost_ticket WHERE ticket_id = ?", id).Scan(&exists)
		if errors.Is(lookupErr, sql.ErrNoRows) {
			return domain.NotFoundError{Resource: "ticket"}
		}
	}
	return nil
}
