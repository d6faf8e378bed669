package api

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/agendacoleta/backend/internal/ingest"
	"github.com/agendacoleta/backend/internal/repo"
	"github.com/xuri/excelize/v2"
)

// UploadSchedule recebe a planilha de agendamentos (multipart, campo "file"),
// roda o pipeline de importação e devolve o resultado agrupado por carro.
// Nada é gravado no banco aqui: o frontend revisa e chama /schedule/confirm.
func (h *Handler) UploadSchedule(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadBytes); err != nil {
		http.Error(w, `{"error":"file too large or invalid multipart body"}`, http.StatusRequestEntityTooLarge)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, `{"error":"missing file field"}`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := ingest.Process(header.Filename, file)
	if err != nil {
		if errors.Is(err, ingest.ErrUnsupportedFormat) {
			http.Error(w, `{"error":"unsupported file format: use .csv, .xls or .xlsx"}`, http.StatusUnsupportedMediaType)
			return
		}
		// Erros de leitura/esquema viram um Result degenerado com o issue de
		// erro; o frontend mostra a mensagem na mesma tela do upload.
		log.Printf("[upload] %s: %v", header.Filename, err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(result)
		return
	}
	log.Printf("[upload] %s: %d registros, %d válidos, %d erros, %d avisos",
		header.Filename, result.TotalRecords, result.ValidRecords, result.ErrorCount, result.WarningCount)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		*ingest.Result
		VehicleStats map[string]ingest.VehicleStat `json:"vehicle_stats"`
	}{result, result.VehicleStats()})
}

type confirmScheduleRequest struct {
	Date     string                    `json:"date"` // YYYY-MM-DD ou DD/MM/YYYY
	Vehicles map[string][]ingest.Entry `json:"vehicles"`
}

func parseDateBR(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse("02/01/2006", s)
}

// ConfirmSchedule grava no banco um resultado de importação revisado.
// O upload substitui a agenda do dia: as coletas existentes da data são
// removidas antes de inserir as novas.
func (h *Handler) ConfirmSchedule(w http.ResponseWriter, r *http.Request) {
	var req confirmScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	if req.Date == "" || len(req.Vehicles) == 0 {
		http.Error(w, `{"error":"date and vehicles required"}`, http.StatusBadRequest)
		return
	}
	date, err := parseDateBR(req.Date)
	if err != nil {
		http.Error(w, `{"error":"invalid date"}`, http.StatusBadRequest)
		return
	}
	// Apagar o dia e regravar é tudo-ou-nada: qualquer falha no meio desfaz
	// o delete e a agenda existente fica como estava.
	tx, err := h.Pool.Begin(r.Context())
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(r.Context()) }()

	deleted, err := repo.DeleteAppointmentsByDate(r.Context(), tx, date)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	created := 0
	for carName, entries := range req.Vehicles {
		carID, err := repo.UpsertCarByName(r.Context(), tx, carName)
		if err != nil {
			http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
			return
		}
		for _, e := range entries {
			name := strings.TrimSpace(e.PatientName)
			if name == "" || e.Time == "" {
				continue
			}
			var addr *string
			if e.Address != "" {
				a := e.Address
				addr = &a
			}
			patientID, err := repo.UpsertPatientByCPF(r.Context(), tx, name, e.CPF, e.Phone, addr)
			if err != nil {
				log.Printf("[confirm] paciente %q: %v", name, err)
				http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
				return
			}
			entryDate := date
			if e.Date != "" {
				if d, err := parseDateBR(e.Date); err == nil {
					entryDate = d
				}
			}
			dur := e.DurationMinutes
			if dur <= 0 {
				dur = 40
			}
			status := e.Status
			if !repo.AllowedStatuses[status] {
				status = "Não Confirmado"
			}
			if _, err := repo.CreateAppointment(r.Context(), tx, patientID, carID, entryDate, e.Time, dur, e.Exams, status, addr); err != nil {
				log.Printf("[confirm] coleta %s %s: %v", name, e.Time, err)
				http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
				return
			}
			created++
		}
	}
	if err := tx.Commit(r.Context()); err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	h.Cache.DeletePrefix("dashboard:")
	log.Printf("[confirm] %s: %d coletas gravadas (%d removidas)", date.Format("02/01/2006"), created, deleted)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Agenda gravada.",
		"date":    date.Format("2006-01-02"),
		"created": created,
		"deleted": deleted,
	})
}

// templateHeaders são as colunas esperadas pela importação, na ordem em que o
// sistema de agendamento do laboratório exporta.
var templateHeaders = []string{
	ingest.ColSala, ingest.ColPaciente, ingest.ColInicio, ingest.ColFim,
	ingest.ColCodExames, ingest.ColExames, ingest.ColDocs, ingest.ColContatos,
	ingest.ColStatus, ingest.ColEndereco,
}

var templateExampleRow = []string{
	"CARRO 1 - ZONA SUL", "Maria da Silva", "02/01/2026 07:30:00", "02/01/2026 08:10:00",
	"HEM, GLI", "Hemograma, Glicemia", "CPF: 123.456.789-00", "Celular: (21) 99999-1234",
	"Não Confirmado", "rua das flores, 123, copacabana",
}

// DownloadTemplate devolve uma planilha modelo com os cabeçalhos esperados e
// uma linha de exemplo. format=csv|xlsx (padrão xlsx).
func (h *Handler) DownloadTemplate(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="modelo-agendamentos.csv"`)
		cw := csv.NewWriter(w)
		_ = cw.Write(templateHeaders)
		_ = cw.Write(templateExampleRow)
		cw.Flush()
		return
	}
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetRow(sheet, "A1", &templateHeaders)
	_ = f.SetSheetRow(sheet, "A2", &templateExampleRow)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="modelo-agendamentos.xlsx"`)
	if err := f.Write(w); err != nil {
		log.Printf("[template] write xlsx: %v", err)
	}
}
