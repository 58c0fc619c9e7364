package web

import (
	"net/http"
	"strconv"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// PageParams lê ?page= e ?limit= com defaults e teto.
func PageParams(r *http.Request) (page, limit int) {
	page = intQuery(r, "page", 1)
	if page < 1 {
		page = 1
	}
	limit = intQuery(r, "limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func intQuery(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
