package handlers

import (
	"io"
	"net/http"
	"strconv"

	"helpdesk/internal/http/middleware"
	"helpdesk/internal/services"
	"helpdesk/internal/utils"

	"github.com/gin-gonic/gin"
)

// maxAttachmentBytes caps uploaded file size (matches the schema's chunk
// storage comfort zone).
const maxAttachmentBytes = 16 << 20

type TicketHandler struct {
	Service services.TicketService
	Export  services.ExportService
}

// List is the dynamic listing endpoint: fixed filters, arbitrary
// custom-field filters, pagination with continuation links.
func (h TicketHandler) List(c *gin.Context) {
	q, err := parseTicketListing(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	tickets, total, err := h.Service.List(c.Request.Context(), q.Filter, q.Page)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	next, prev := utils.PageLinks(c.Request.URL.Path, q.Values, q.Page, total)
	c.JSON(http.StatusOK, ListEnvelope{
		Total:    total,
		Limit:    q.Page.Limit,
		Offset:   q.Page.Offset,
		Next:     next,
		Previous: prev,
		Items:    tickets,
	})
}

func (h TicketHandler) Get(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}
	ticket, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h TicketHandler) Create(c *gin.Context) {
	var req services.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid payload: "+err.Error())
		return
	}

	result, err := h.Service.Create(c.Request.Context(), req, middleware.GetRequestID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h TicketHandler) Close(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}
	if err := h.Service.Close(c.Request.Context(), id, middleware.GetRequestID(c)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}

// Attach uploads a file and links it to the ticket's latest thread entry.
func (h TicketHandler) Attach(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "missing file upload")
		return
	}
	if header.Size > maxAttachmentBytes {
		respondError(c, http.StatusBadRequest, "validation_error", "file too large")
		return
	}

	f, err := header.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "unreadable file upload")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxAttachmentBytes+1))
	if err != nil || len(data) > maxAttachmentBytes {
		respondError(c, http.StatusBadRequest, "validation_error", "unreadable file upload")
		return
	}

	fileID, err := h.Service.Attach(c.Request.Context(), id, header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"file_id": fileID})
}

// PDF serves a printable summary sheet for the ticket.
func (h TicketHandler) PDF(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}
	ticket, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	data, filename, err := h.Export.TicketSummary(ticket)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func ticketID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "id must be an integer")
		return 0, false
	}
	return id, true
}
