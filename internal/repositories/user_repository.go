package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"helpdesk/internal/domain"
)

type User struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

type UserRepository struct {
	DB *sql.DB
}

const userSelect = `SELECT u.id, u.name, ue.address AS email, u.created, u.updated
 FROM ost_user u
 JOIN ost_user_email ue ON u.id = ue.user_id`

const userCount = `SELECT COUNT(u.id)
 FROM ost_user u
 JOIN ost_user_email ue ON u.id = ue.user_id`

// List returns a page of users plus the total, both under the same optional
// email equality predicate.
func (r UserRepository) List(ctx context.Context, email string, limit, offset int) ([]User, int, error) {
	where := ""
	var args []any
	if email != "" {
		where = " WHERE ue.address = ?"
		args = append(args, email)
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, userCount+where, args...).Scan(&total); err != nil {
		return nil, 0, domain.InternalError{Msg: "count users", Err: err}
	}

	rows, err := r.DB.QueryContext(ctx, userSelect+where+" ORDER BY u.created DESC, u.id DESC LIMIT ? OFFSET ?",
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, domain.InternalError{Msg: "list users", Err: err}
	}
	defer rows.Close()

	users := make([]User, 0, limit)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Created, &u.Updated); err != nil {
			return nil, 0, domain.InternalError{Msg: "scan user", Err: err}
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.InternalError{Msg: "iterate users", Err: err}
	}
	return users, total, nil
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (User, error) {
	var u User
	err := r.DB.QueryRowContext(ctx, userSelect+" WHERE u.id = ?", id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Created, &u.Updated)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, domain.NotFoundError{Resource: "user"}
	}
	if err != nil {
		return User{}, domain.InternalError{Msg: "get user", Err: err}
	}
	return u, nil
}

// Exists checks the owner row through whatever connection the caller is on,
// typically the creation transaction.
func (r UserRepository) Exists(ctx context.Context, q QueryRower, id int64) (bool, error) {
	var found int64
	err := q.QueryRowContext(ctx, "SELECT id FROM ost_user WHERE id = ?", id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, domain.InternalError{Msg: "check user", Err: err}
	}
	return true, nil
}
