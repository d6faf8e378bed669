package api

import (
	"net/http"
	"strconv"
	"time"
)

const defaultLimit = 20
const maxLimit = 100

// ParseLimitOffset reads limit and offset from query params. Default limit is 20, max 100.
func ParseLimitOffset(r *http.Request) (limit, offset int) {
	limit = defaultLimit
	offset = 0
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
			if limit > maxLimit {
				limit = maxLimit
			}
		}
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

// startOfDay devolve a meia-noite do dia de t no fuso de t. Truncate(24h)
// trunca em UTC e erra o dia à noite no horário de Brasília.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// parseDateParam lê um query param de data. Aceita YYYY-MM-DD (preferido pelo
// frontend) e DD/MM/YYYY (formato das planilhas).
func parseDateParam(r *http.Request, name string) (time.Time, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse("02/01/2006", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
