package handlers

import (
	"net/url"
	"strconv"
	"strings"

	"helpdesk/internal/domain"
	"helpdesk/internal/repositories"
	"helpdesk/internal/utils"

	"github.com/gin-gonic/gin"
)

// ticketFilterParams are the declared fixed-column filters plus the paging
// controls; every other query parameter is a custom-field filter.
var ticketFilterParams = map[string]bool{
	"status_id": true,
	"topic_id":  true,
	"dept_id":   true,
	"email":     true,
	"limit":     true,
	"offset":    true,
}

type ticketListingQuery struct {
	Filter repositories.TicketFilter
	Page   utils.PageWindow
	Values url.Values
}

func parseTicketListing(c *gin.Context) (ticketListingQuery, error) {
	values := c.Request.URL.Query()

	page, err := parsePage(values)
	if err != nil {
		return ticketListingQuery{}, err
	}

	f := repositories.TicketFilter{Email: strings.TrimSpace(values.Get("email"))}
	if f.StatusIDs, err = intTokens(values, "status_id"); err != nil {
		return ticketListingQuery{}, err
	}
	if f.TopicIDs, err = intTokens(values, "topic_id"); err != nil {
		return ticketListingQuery{}, err
	}
	if f.DeptIDs, err = intTokens(values, "dept_id"); err != nil {
		return ticketListingQuery{}, err
	}

	// Custom filters keep the caller's parameter order; join aliases are
	// assigned by position in this list.
	for _, name := range customFilterNames(c.Request.URL.RawQuery) {
		f.Custom = append(f.Custom, repositories.CustomFilter{
			Field:  name,
			Tokens: flattenTokens(values[name]),
		})
	}

	return ticketListingQuery{Filter: f, Page: page, Values: values}, nil
}

func parsePage(values url.Values) (utils.PageWindow, error) {
	limit := utils.DefaultPageLimit
	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return utils.PageWindow{}, domain.ValidationError{Field: "limit", Msg: "must be an integer"}
		}
		limit = n
	}
	offset := 0
	if raw := strings.TrimSpace(values.Get("offset")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return utils.PageWindow{}, domain.ValidationError{Field: "offset", Msg: "must be an integer"}
		}
		offset = n
	}
	return utils.ClampPage(limit, offset), nil
}

// intTokens unions repeated parameters and comma-separated values into one
// integer list, dropping empties.
func intTokens(values url.Values, name string) ([]int64, error) {
	var out []int64
	for _, tok := range flattenTokens(values[name]) {
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, domain.ValidationError{Field: name, Msg: "must be an integer or comma-separated integers"}
		}
		out = append(out, n)
	}
	return out, nil
}

func flattenTokens(raw []string) []string {
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// customFilterNames walks the raw query string so custom filters come back in
// first-appearance order, which url.Values (a map) cannot provide.
func customFilterNames(rawQuery string) []string {
	var names []string
	seen := map[string]bool{}
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key := pair
		if i := strings.IndexByte(pair, '='); i >= 0 {
			key = pair[:i]
		}
		decoded, err := url.QueryUnescape(key)
		if err != nil {
			decoded = key
		}
		if ticketFilterParams[decoded] || seen[decoded] {
			continue
		}
		seen[decoded] = true
		names = append(names, decoded)
	}
	return names
}
