package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"helpdesk/internal/repositories"
	"helpdesk/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	Users repositories.UserRepository
}

// ListEnvelope is the shared paginated response shape.
type ListEnvelope struct {
	Total    int     `json:"total"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Items    any     `json:"items"`
}

// List returns a page of users, optionally filtered by email address.
func (h UserHandler) List(c *gin.Context) {
	values := c.Request.URL.Query()
	page, err := parsePage(values)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	email := strings.TrimSpace(values.Get("email"))

	users, total, err := h.Users.List(c.Request.Context(), email, page.Limit, page.Offset)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	next, prev := utils.PageLinks(c.Request.URL.Path, values, page, total)
	c.JSON(http.StatusOK, ListEnvelope{
		Total:    total,
		Limit:    page.Limit,
		Offset:   page.Offset,
		Next:     next,
		Previous: prev,
		Items:    users,
	})
}

func (h UserHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "id must be an integer")
		return
	}
	user, err := h.Users.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
