package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/agendacoleta/backend/internal/repo"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type carResp struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// ListCars lista os carros de coleta. ?active=true filtra só os ativos.
func (h *Handler) ListCars(w http.ResponseWriter, r *http.Request) {
	onlyActive := r.URL.Query().Get("active") == "true"
	list, err := repo.ListCars(r.Context(), h.Pool, onlyActive)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	out := make([]carResp, len(list))
	for i := range list {
		out[i] = carResp{ID: list[i].ID.String(), Name: list[i].Name, Active: list[i].Active}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"cars": out})
}

type carRequest struct {
	Name   string `json:"name"`
	Active *bool  `json:"active"`
}

func (h *Handler) CreateCar(w http.ResponseWriter, r *http.Request) {
	var req carRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	name := strings.ToUpper(strings.TrimSpace(req.Name))
	if name == "" {
		http.Error(w, `{"error":"name required"}`, http.StatusBadRequest)
		return
	}
	id, err := repo.CreateCar(r.Context(), h.Pool, name)
	if err != nil {
		if isUniqueViolation(err) {
			http.Error(w, `{"error":"car already exists"}`, http.StatusConflict)
			return
		}
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": id.String()})
}

// UpdateCar renomeia e/ou ativa/desativa um carro. Desativar não apaga as
// coletas já agendadas para ele.
func (h *Handler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["carId"])
	if err != nil {
		http.Error(w, `{"error":"invalid car_id"}`, http.StatusBadRequest)
		return
	}
	c, err := repo.CarByID(r.Context(), h.Pool, id)
	if err != nil {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	var req carRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	name := c.Name
	if s := strings.ToUpper(strings.TrimSpace(req.Name)); s != "" {
		name = s
	}
	active := c.Active
	if req.Active != nil {
		active = *req.Active
	}
	if err := repo.UpdateCar(r.Context(), h.Pool, id, name, active); err != nil {
		if isUniqueViolation(err) {
			http.Error(w, `{"error":"car name already in use"}`, http.StatusConflict)
			return
		}
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Carro atualizado."})
}
