package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/agendacoleta/backend/internal/repo"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
)

type appointmentResp struct {
	ID              string   `json:"id"`
	PatientID       string   `json:"patient_id"`
	PatientName     string   `json:"patient_name"`
	CPF             *string  `json:"cpf,omitempty"`
	CarID           string   `json:"car_id"`
	CarName         string   `json:"car_name"`
	Date            string   `json:"date"` // YYYY-MM-DD
	Time            string   `json:"time"` // HH:MM
	DurationMinutes int      `json:"duration_minutes"`
	Exams           []string `json:"exams"`
	Status          string   `json:"status"`
	Address         *string  `json:"address,omitempty"`
}

func toAppointmentResp(v repo.AppointmentView) appointmentResp {
	return appointmentResp{
		ID:              v.ID.String(),
		PatientID:       v.PatientID.String(),
		PatientName:     v.PatientName,
		CPF:             v.PatientCPF,
		CarID:           v.CarID.String(),
		CarName:         v.CarName,
		Date:            v.ScheduledDate.Format("2006-01-02"),
		Time:            v.StartTime,
		DurationMinutes: v.DurationMinutes,
		Exams:           v.Exams,
		Status:          v.Status,
		Address:         v.Address,
	}
}

// ListAppointments lista as coletas do intervalo [from, to] (padrão: hoje),
// já ordenadas por dia, carro e horário.
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	from, okFrom := parseDateParam(r, "from")
	to, okTo := parseDateParam(r, "to")
	if !okFrom && !okTo {
		today := startOfDay(time.Now())
		from, to = today, today
	} else if !okTo {
		to = from
	} else if !okFrom {
		from = to
	}
	if to.Before(from) {
		http.Error(w, `{"error":"to before from"}`, http.StatusBadRequest)
		return
	}
	list, err := repo.ListAppointmentsByDateRange(r.Context(), h.Pool, from, to)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	out := make([]appointmentResp, len(list))
	for i := range list {
		out[i] = toAppointmentResp(list[i])
	}
	// Visão agrupada por carro para o calendário (a lista já vem ordenada
	// por dia, carro e horário, então os grupos saem na ordem certa).
	type carGroup struct {
		Date         string            `json:"date"`
		CarName      string            `json:"car_name"`
		Appointments []appointmentResp `json:"appointments"`
	}
	var groups []carGroup
	for _, a := range out {
		last := len(groups) - 1
		if last < 0 || groups[last].CarName != a.CarName || groups[last].Date != a.Date {
			groups = append(groups, carGroup{Date: a.Date, CarName: a.CarName})
			last++
		}
		groups[last].Appointments = append(groups[last].Appointments, a)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"appointments": out,
		"by_car":       groups,
		"from":         from.Format("2006-01-02"),
		"to":           to.Format("2006-01-02"),
		"total":        len(out),
	})
}

type patchAppointmentRequest struct {
	Date   *string `json:"date"`   // YYYY-MM-DD
	Time   *string `json:"time"`   // HH:MM
	CarID  *string `json:"car_id"` // mover para outro carro
	Status *string `json:"status"`
}

// PatchAppointment altera data, horário, carro e/ou status de uma coleta.
// Campos ausentes não mudam. É o endpoint do drag-and-drop do calendário e
// dos botões de confirmação.
func (h *Handler) PatchAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, `{"error":"invalid id"}`, http.StatusBadRequest)
		return
	}
	var req patchAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	if req.Date == nil && req.Time == nil && req.CarID == nil && req.Status == nil {
		http.Error(w, `{"error":"nothing to update"}`, http.StatusBadRequest)
		return
	}
	var date *time.Time
	if req.Date != nil {
		t, err := parseDateBR(*req.Date)
		if err != nil {
			http.Error(w, `{"error":"invalid date"}`, http.StatusBadRequest)
			return
		}
		date = &t
	}
	var startTime *string
	if req.Time != nil {
		if _, err := time.Parse("15:04", *req.Time); err != nil {
			http.Error(w, `{"error":"invalid time, expected HH:MM"}`, http.StatusBadRequest)
			return
		}
		startTime = req.Time
	}
	var carID *uuid.UUID
	if req.CarID != nil {
		cid, err := uuid.Parse(*req.CarID)
		if err != nil {
			http.Error(w, `{"error":"invalid car_id"}`, http.StatusBadRequest)
			return
		}
		if _, err := repo.CarByID(r.Context(), h.Pool, cid); err != nil {
			http.Error(w, `{"error":"car not found"}`, http.StatusBadRequest)
			return
		}
		carID = &cid
	}
	var status *string
	if req.Status != nil {
		s := strings.TrimSpace(*req.Status)
		if !repo.AllowedStatuses[s] {
			http.Error(w, `{"error":"invalid status"}`, http.StatusBadRequest)
			return
		}
		status = &s
	}
	if err := repo.UpdateAppointment(r.Context(), h.Pool, id, date, startTime, carID, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	h.Cache.DeletePrefix("dashboard:")
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Coleta atualizada."})
}
