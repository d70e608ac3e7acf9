package repositories

import (
	"context"
	"database/sql"

	"helpdesk/internal/domain"
)

type Topic struct {
	TopicID  int64  `json:"topic_id"`
	Topic    string `json:"topic"`
	IsPublic int    `json:"ispublic"`
}

type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Status struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}

// LookupRepository serves the small fixed reference tables.
type LookupRepository struct {
	DB *sql.DB
}

func (r LookupRepository) Topics(ctx context.Context) ([]Topic, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT topic_id, topic, ispublic FROM ost_help_topic WHERE isactive = 1 ORDER BY topic ASC")
	if err != nil {
		return nil, domain.InternalError{Msg: "list topics", Err: err}
	}
	defer rows.Close()

	out := []Topic{}
	for rows.Next() {
		var t Topic
		if err := rows.Scan(&t.TopicID, &t.Topic, &t.IsPublic); err != nil {
			return nil, domain.InternalError{Msg: "scan topic", Err: err}
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r LookupRepository) Departments(ctx context.Context) ([]Department, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name FROM ost_department ORDER BY name ASC")
	if err != nil {
		return nil, domain.InternalError{Msg: "list departments", Err: err}
	}
	defer rows.Close()

	out := []Department{}
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, domain.InternalError{Msg: "scan department", Err: err}
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r LookupRepository) Statuses(ctx context.Context) ([]Status, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name, state FROM ost_ticket_status ORDER BY sort ASC")
	if err != nil {
		return nil, domain.InternalError{Msg: "list statuses", Err: err}
	}
	defer rows.Close()

	out := []Status{}
	for rows.Next() {
		var s Status
		if err := rows.Scan(&s.ID, &s.Name, &s.State); err != nil {
			return nil, domain.InternalError{Msg: "scan status", Err: err}
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
