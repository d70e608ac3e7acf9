package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"helpdesk/internal/repositories"
	"helpdesk/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func newTicketHandler(t *testing.T) (TicketHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	h := TicketHandler{
		Service: services.TicketService{
			DB:      db,
			Tickets: repositories.TicketRepository{DB: db},
			Users:   repositories.UserRepository{DB: db},
		},
	}
	return h, mock, func() { db.Close() }
}

type envelope struct {
	Total    int              `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
	Next     *string          `json:"next"`
	Previous *string          `json:"previous"`
	Items    []map[string]any `json:"items"`
}

func TestTicketListEnvelope(t *testing.T) {
	h, mock, done := newTicketHandler(t)
	defer done()

	created := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery("ORDER BY t.created DESC").
		WithArgs(int64(1), 2, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"ticket_id", "number", "created", "status_id", "status_name",
			"topic_id", "topic_name", "dept_id", "dept_name",
			"user_id", "user_name", "user_email",
		}).
			AddRow(20, "GCE-000020", created, 1, "Open", 1, "General", 1, "Support", 4, "Ana", "a@b.c").
			AddRow(19, "GCE-000019", created, 1, "Open", 1, "General", 1, "Support", 4, "Ana", "a@b.c"))
	mock.ExpectQuery("SELECT fe.object_id, ff.name, fev.value").
		WithArgs(int64(20), int64(19), "T").
		WillReturnRows(sqlmock.NewRows([]string{"object_id", "name", "value"}).
			AddRow(20, "EFR", `{"14":"Médis"}`))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/tickets?status_id=1&limit=2&offset=0", nil)
	h.List(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var got envelope
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Total != 5 || got.Limit != 2 || got.Offset != 0 {
		t.Fatalf("envelope = %+v", got)
	}
	if got.Next == nil || got.Previous != nil {
		t.Fatalf("next/previous = %v/%v, want next only", got.Next, got.Previous)
	}
	if len(got.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(got.Items))
	}

	first := got.Items[0]
	cf, ok := first["custom_fields"].(map[string]any)
	if !ok || cf["EFR"] != "Médis" {
		t.Fatalf("custom_fields = %v", first["custom_fields"])
	}
	// items without custom data still carry an empty map
	second := got.Items[1]
	cf2, ok := second["custom_fields"].(map[string]any)
	if !ok || cf2 == nil || len(cf2) != 0 {
		t.Fatalf("second custom_fields = %v, want empty map", second["custom_fields"])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTicketGetNotFound(t *testing.T) {
	h, mock, done := newTicketHandler(t)
	defer done()

	mock.ExpectQuery("WHERE t.ticket_id").
		WithArgs(int64(999)).
		WillReturnRows(sqlmock.NewRows([]string{"ticket_id"}))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/tickets/999", nil)
	c.Params = gin.Params{{Key: "id", Value: "999"}}
	h.Get(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body = %s", w.Code, w.Body.String())
	}
}

func TestTicketCloseResponse(t *testing.T) {
	h, mock, done := newTicketHandler(t)
	defer done()

	mock.ExpectExec("UPDATE ost_ticket SET status_id = 3").
		WithArgs(int64(20)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/api/tickets/20/close", nil)
	c.Params = gin.Params{{Key: "id", Value: "20"}}
	h.Close(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "closed" {
		t.Fatalf("body = %v", body)
	}
}
