package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/agendacoleta/backend/internal/repo"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
)

// cpfDigitsRe aceita CPF com ou sem pontuação.
var cpfDigitsRe = regexp.MustCompile(`^\d{3}\.?\d{3}\.?\d{3}-?\d{2}$`)

func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

type patientResp struct {
	ID       string  `json:"id"`
	FullName string  `json:"full_name"`
	CPF      *string `json:"cpf,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
}

func toPatientResp(p repo.Patient) patientResp {
	return patientResp{ID: p.ID.String(), FullName: p.FullName, CPF: p.CPF, Phone: p.Phone, Address: p.Address}
}

// ListPatients lista pacientes com busca opcional (?q= nome, CPF ou telefone).
func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	limit, offset := ParseLimitOffset(r)
	total, err := repo.CountPatients(r.Context(), h.Pool, q)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	list, err := repo.ListPatients(r.Context(), h.Pool, q, limit, offset)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	out := make([]patientResp, len(list))
	for i := range list {
		out[i] = toPatientResp(list[i])
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"patients": out,
		"limit":    limit,
		"offset":   offset,
		"total":    total,
	})
}

func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["patientId"])
	if err != nil {
		http.Error(w, `{"error":"invalid patient_id"}`, http.StatusBadRequest)
		return
	}
	p, err := repo.PatientByID(r.Context(), h.Pool, id)
	if err != nil {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toPatientResp(*p))
}

type createPatientRequest struct {
	FullName string  `json:"full_name"`
	CPF      *string `json:"cpf"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req createPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		http.Error(w, `{"error":"full_name required"}`, http.StatusBadRequest)
		return
	}
	cpf := normalizeOptional(req.CPF)
	if cpf != nil && !cpfDigitsRe.MatchString(*cpf) {
		http.Error(w, `{"error":"invalid cpf"}`, http.StatusBadRequest)
		return
	}
	id, err := repo.CreatePatient(r.Context(), h.Pool, fullName, cpf, normalizeOptional(req.Phone), normalizeOptional(req.Address))
	if err != nil {
		if isUniqueViolation(err) {
			http.Error(w, `{"error":"CPF already registered"}`, http.StatusConflict)
			return
		}
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": id.String()})
}

type updatePatientRequest struct {
	FullName *string `json:"full_name"`
	CPF      *string `json:"cpf"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

func (h *Handler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["patientId"])
	if err != nil {
		http.Error(w, `{"error":"invalid patient_id"}`, http.StatusBadRequest)
		return
	}
	p, err := repo.PatientByID(r.Context(), h.Pool, id)
	if err != nil {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	var req updatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	fullName := p.FullName
	if req.FullName != nil {
		fullName = strings.TrimSpace(*req.FullName)
		if fullName == "" {
			http.Error(w, `{"error":"full_name cannot be empty"}`, http.StatusBadRequest)
			return
		}
	}
	cpf := p.CPF
	if req.CPF != nil {
		cpf = normalizeOptional(req.CPF)
		if cpf != nil && !cpfDigitsRe.MatchString(*cpf) {
			http.Error(w, `{"error":"invalid cpf"}`, http.StatusBadRequest)
			return
		}
	}
	phone := p.Phone
	if req.Phone != nil {
		phone = normalizeOptional(req.Phone)
	}
	address := p.Address
	if req.Address != nil {
		address = normalizeOptional(req.Address)
	}
	if err := repo.UpdatePatient(r.Context(), h.Pool, id, fullName, cpf, phone, address); err != nil {
		if isUniqueViolation(err) {
			http.Error(w, `{"error":"CPF already registered for another patient"}`, http.StatusConflict)
			return
		}
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Paciente atualizado."})
}

// SoftDeletePatient marca o paciente como removido; o histórico de coletas fica.
func (h *Handler) SoftDeletePatient(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["patientId"])
	if err != nil {
		http.Error(w, `{"error":"invalid patient_id"}`, http.StatusBadRequest)
		return
	}
	if err := repo.SoftDeletePatient(r.Context(), h.Pool, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Paciente removido."})
}
