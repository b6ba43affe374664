package wordpress

import (
	"net/url"
	"strconv"
	"strings"
)

// query builds a WordPress query string in insertion order. url.Values is
// not used because it sorts keys and escapes the commas in id lists, and
// WordPress expects categories=3,7 verbatim.
type query struct {
	parts []string
}

func newQuery() *query {
	return &query{}
}

func (q *query) set(key, value string) *query {
	q.parts = append(q.parts, key+"="+url.QueryEscape(value))
	return q
}

func (q *query) setInt(key string, value int) *query {
	q.parts = append(q.parts, key+"="+strconv.Itoa(value))
	return q
}

func (q *query) setIDs(key string, ids []int) *query {
	csv := make([]string, len(ids))
	for i, id := range ids {
		csv[i] = strconv.Itoa(id)
	}
	q.parts = append(q.parts, key+"="+strings.Join(csv, ","))
	return q
}

// embed asks WordPress to inline author, media and terms.
func (q *query) embed() *query {
	q.parts = append(q.parts, "_embed")
	return q
}

func (q *query) encode() string {
	if q == nil {
		return ""
	}
	return strings.Join(q.parts, "&")
}
