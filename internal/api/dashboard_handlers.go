package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/agendacoleta/backend/internal/repo"
)

// DashboardSummary devolve os totais do dia para os cards do dashboard:
// coletas por status e ocupação por carro. ?date= (padrão: hoje).
// A resposta fica em cache por alguns segundos; gravações invalidam.
func (h *Handler) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDateParam(r, "date")
	if !ok {
		date = startOfDay(time.Now())
	}
	cacheKey := "dashboard:" + date.Format("2006-01-02")
	if cached := h.Cache.Get(cacheKey); cached != nil {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(cached)
		return
	}

	byStatus, err := repo.CountAppointmentsByStatusForDate(r.Context(), h.Pool, date)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	byCar, err := repo.CountAppointmentsByCarForDate(r.Context(), h.Pool, date)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}

	total := 0
	statusOut := make(map[string]int, len(byStatus))
	for _, s := range byStatus {
		statusOut[s.Status] = s.Count
		if s.Status != "Cancelado" {
			total += s.Count
		}
	}
	type carSummary struct {
		CarName   string `json:"car_name"`
		Total     int    `json:"total"`
		Confirmed int    `json:"confirmed"`
		Pending   int    `json:"pending"`
	}
	carsOut := make([]carSummary, len(byCar))
	for i := range byCar {
		carsOut[i] = carSummary{
			CarName:   byCar[i].CarName,
			Total:     byCar[i].Total,
			Confirmed: byCar[i].Confirmed,
			Pending:   byCar[i].Pending,
		}
	}

	body, err := json.Marshal(map[string]interface{}{
		"date":      date.Format("2006-01-02"),
		"total":     total,
		"by_status": statusOut,
		"by_car":    carsOut,
	})
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	h.Cache.Set(cacheKey, body)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}
