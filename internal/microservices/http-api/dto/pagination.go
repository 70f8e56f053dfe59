package dto

import (
	"errors"
	"net/url"
	"strconv"
)

// PageQueryParam is the query parameter selecting a page.
const PageQueryParam = "page"

var ErrInvalidPage = errors.New("invalid page")

// PageRequest is a resolved page-number window.
type PageRequest struct {
	Number int
	Size   int
}

func (p PageRequest) Offset() int {
	return (p.Number - 1) * p.Size
}

// ParsePageNumber reads ?page=; empty means the first page and "last" is
// resolved later against the total.
func ParsePageNumber(raw string) (n int, last bool, err error) {
	switch raw {
	case "":
		return 1, false, nil
	case "last":
		return 0, true, nil
	}
	n, err = strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false, ErrInvalidPage
	}
	return n, false, nil
}

// PageCount is the number of pages for total items; an empty set still has one page.
func PageCount(total int64, size int) int {
	if total == 0 {
		return 1
	}
	pages := int(total) / size
	if int(total)%size != 0 {
		pages++
	}
	return pages
}

// Page is the paginated list envelope.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewPage builds the envelope; links are derived from the absolute request URL.
func NewPage[T any](results []T, total int64, req PageRequest, requestURL *url.URL) Page[T] {
	page := Page[T]{Count: total, Results: results}
	if req.Number < PageCount(total, req.Size) {
		next := pageLink(requestURL, req.Number+1)
		page.Next = &next
	}
	if req.Number > 1 {
		prev := pageLink(requestURL, req.Number-1)
		page.Previous = &prev
	}
	return page
}

func pageLink(u *url.URL, number int) string {
	link := *u
	q := link.Query()
	if number == 1 {
		q.Del(PageQueryParam)
	} else {
		q.Set(PageQueryParam, strconv.Itoa(number))
	}
	link.RawQuery = q.Encode()
	return link.String()
}
