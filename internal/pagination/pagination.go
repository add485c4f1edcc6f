// Package pagination implements the limit/offset page envelope used by
// every list endpoint: {count, next, previous, results}.
package pagination

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 6
	MaxLimit     = 100
)

// Params holds the requested window into an ordered sequence.
type Params struct {
	Limit  int
	Offset int
}

// FromQuery reads limit/offset from the request, clamping to sane
// bounds. Malformed values fall back to the defaults.
func FromQuery(c *gin.Context) Params {
	p := Params{Limit: DefaultLimit}

	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Limit = n
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Offset = n
		}
	}

	return p
}

// Page is the response envelope for a paginated listing.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewPage wraps one window of results together with links to the
// neighbouring windows, rebuilt from the request URL.
func NewPage[T any](c *gin.Context, p Params, count int64, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	page := Page[T]{Count: count, Results: results}

	if int64(p.Offset+p.Limit) < count {
		page.Next = pageLink(c.Request.URL, p.Limit, p.Offset+p.Limit)
	}
	if p.Offset > 0 {
		prev := p.Offset - p.Limit
		if prev < 0 {
			prev = 0
		}
		page.Previous = pageLink(c.Request.URL, p.Limit, prev)
	}

	return page
}

func pageLink(u *url.URL, limit, offset int) *string {
	link := *u
	q := link.Query()
	q.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	} else {
		q.Del("offset")
	}
	link.RawQuery = q.Encode()
	s := link.String()
	return &s
}

// RecipesLimit parses the recipes_limit query control used by the
// subscription listings. Absent or non-numeric values mean unlimited.
func RecipesLimit(c *gin.Context) *int {
	v, ok := c.GetQuery("recipes_limit")
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	if n < 0 {
		n = 0
	}
	return &n
}

// String is a convenience for tests and logs.
func (p Params) String() string {
	return fmt.Sprintf("limit=%d offset=%d", p.Limit, p.Offset)
}
