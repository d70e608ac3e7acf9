package services

import (
	"context"
	"crypto/sha1"
	"database/sql"
	"encoding/base64"
	"fmt"

	"helpdesk/internal/domain"
	"helpdesk/internal/repositories"
	"helpdesk/internal/utils"
)

type CreateTicketRequest struct {
	UserID  int64  `json:"user_id" binding:"required"`
	TopicID *int64 `json:"topic_id"`
	DeptID  *int64 `json:"dept_id"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

type CreateTicketResult struct {
	TicketID int64  `json:"ticket_id"`
	Number   string `json:"number"`
}

type TicketService struct {
	DB          *sql.DB
	Tickets     repositories.TicketRepository
	Users       repositories.UserRepository
	Attachments repositories.AttachmentRepository
	Numbers     TicketNumberGenerator
}

// List fetches one page of tickets under the compiled filter and enriches
// every item with its decoded custom-field map before returning.
func (s TicketService) List(ctx context.Context, f repositories.TicketFilter, page utils.PageWindow) ([]repositories.Ticket, int, error) {
	tickets, total, err := s.Tickets.List(ctx, f, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, len(tickets))
	for i, t := range tickets {
		ids[i] = t.TicketID
	}
	fields, err := s.Tickets.CustomFields(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range tickets {
		tickets[i].CustomFields = fields[tickets[i].TicketID]
	}
	return tickets, total, nil
}

func (s TicketService) Get(ctx context.Context, id int64) (repositories.Ticket, error) {
	t, err := s.Tickets.GetByID(ctx, id)
	if err != nil {
		return repositories.Ticket{}, err
	}
	fields, err := s.Tickets.CustomFields(ctx, []int64{id})
	if err != nil {
		return repositories.Ticket{}, err
	}
	t.CustomFields = fields[id]
	return t, nil
}

// Create validates the owner, issues the ticket number and writes the
// ticket, its thread and the first thread entry in one transaction. Any
// failure rolls everything back, the sequence advance included.
func (s TicketService) Create(ctx context.Context, req CreateTicketRequest, requestID string) (out CreateTicketResult, err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return out, domain.InternalError{Msg: "begin transaction", Err: err}
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	exists, err := s.Users.Exists(ctx, tx, req.UserID)
	if err != nil {
		return out, err
	}
	if !exists {
		err = domain.ValidationError{Field: "user_id", Msg: fmt.Sprintf("user with id %d does not exist", req.UserID)}
		return out, err
	}

	number, err := s.Numbers.Next(ctx, tx)
	if err != nil {
		return out, err
	}

	topicID := int64(1)
	if req.TopicID != nil {
		topicID = *req.TopicID
	}
	deptID := int64(1)
	if req.DeptID != nil {
		deptID = *req.DeptID
	}

	ticketID, err := s.Tickets.Insert(ctx, tx, number, req.UserID, deptID, topicID)
	if err != nil {
		return out, err
	}
	threadID, err := s.Tickets.InsertThread(ctx, tx, ticketID)
	if err != nil {
		return out, err
	}
	if err = s.Tickets.InsertThreadEntry(ctx, tx, threadID, req.Message, "API"); err != nil {
		return out, err
	}

	if err = tx.Commit(); err != nil {
		err = domain.InternalError{Msg: "commit ticket", Err: err}
		return out, err
	}

	utils.LogEvent(requestID, "tickets", "create", fmt.Sprintf("ticket_id=%d number=%s", ticketID, number))
	return CreateTicketResult{TicketID: ticketID, Number: number}, nil
}

func (s TicketService) Close(ctx context.Context, id int64, requestID string) error {
	if err := s.Tickets.MarkClosed(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(requestID, "tickets", "close", fmt.Sprintf("ticket_id=%d", id))
	return nil
}

// Attach stores an uploaded file and links it to the latest entry on the
// ticket's thread, all in one transaction.
func (s TicketService) Attach(ctx context.Context, ticketID int64, filename, contentType string, data []byte) (fileID int64, err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, domain.InternalError{Msg: "begin transaction", Err: err}
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	sum := sha1.Sum(data)
	signature := base64.StdEncoding.EncodeToString(sum[:])
	key := signature
	if len(key) > 32 {
		key = key[:32]
	}

	fileID, err = s.Attachments.InsertFile(ctx, tx, contentType, filename, key, signature, len(data))
	if err != nil {
		return 0, err
	}
	if err = s.Attachments.InsertChunk(ctx, tx, fileID, data); err != nil {
		return 0, err
	}
	entryID, err := s.Attachments.LatestThreadEntry(ctx, tx, ticketID)
	if err != nil {
		return 0, err
	}
	if err = s.Attachments.InsertAttachment(ctx, tx, entryID, fileID); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		err = domain.InternalError{Msg: "commit attachment", Err: err}
		return 0, err
	}
	return fileID, nil
}
