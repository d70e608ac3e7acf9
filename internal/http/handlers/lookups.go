package handlers

import (
	"net/http"

	"helpdesk/internal/repositories"

	"github.com/gin-gonic/gin"
)

type LookupHandler struct {
	Lookups repositories.LookupRepository
}

// Topics lists the active help topics.
func (h LookupHandler) Topics(c *gin.Context) {
	topics, err := h.Lookups.Topics(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, topics)
}

func (h LookupHandler) Departments(c *gin.Context) {
	departments, err := h.Lookups.Departments(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, departments)
}

func (h LookupHandler) Statuses(c *gin.Context) {
	statuses, err := h.Lookups.Statuses(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}
