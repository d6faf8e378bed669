package api

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/agendacoleta/backend/internal/pdf"
	"github.com/agendacoleta/backend/internal/repo"
	"github.com/google/uuid"
)

func strPtrVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// RouteSheetPDF gera o romaneio de um carro em um dia: a lista de paradas em
// ordem de horário, para imprimir e entregar ao motorista.
// Query: date (obrigatório), car (id ou nome, obrigatório).
func (h *Handler) RouteSheetPDF(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDateParam(r, "date")
	if !ok {
		http.Error(w, `{"error":"date required (YYYY-MM-DD)"}`, http.StatusBadRequest)
		return
	}
	carParam := strings.TrimSpace(r.URL.Query().Get("car"))
	if carParam == "" {
		http.Error(w, `{"error":"car required (id or name)"}`, http.StatusBadRequest)
		return
	}
	var car *repo.Car
	var err error
	if id, e := uuid.Parse(carParam); e == nil {
		car, err = repo.CarByID(r.Context(), h.Pool, id)
	} else {
		car, err = repo.CarByName(r.Context(), h.Pool, strings.ToUpper(carParam))
	}
	if err != nil {
		http.Error(w, `{"error":"car not found"}`, http.StatusNotFound)
		return
	}
	list, err := repo.ListAppointmentsForCarAndDate(r.Context(), h.Pool, car.ID, date)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	if len(list) == 0 {
		http.Error(w, `{"error":"no appointments for this car and date"}`, http.StatusNotFound)
		return
	}
	sheet := pdf.RouteSheet{
		CarName: car.Name,
		Date:    date.Format("02/01/2006"),
	}
	if h.Cfg.AppPublicURL != "" {
		sheet.ConfirmURL = h.Cfg.AppPublicURL + "/agenda?date=" + date.Format("2006-01-02") + "&car=" + url.QueryEscape(car.Name)
	}
	for _, a := range list {
		sheet.Stops = append(sheet.Stops, pdf.RouteStop{
			Time:        a.StartTime,
			PatientName: a.PatientName,
			CPF:         strPtrVal(a.PatientCPF),
			Phone:       strPtrVal(a.PatientPhone),
			Address:     strPtrVal(a.Address),
			Exams:       a.Exams,
			Status:      a.Status,
		})
	}
	out, err := pdf.BuildRouteSheetPDF(sheet)
	if err != nil {
		log.Printf("[route-sheet] %s %s: %v", car.Name, sheet.Date, err)
		http.Error(w, `{"error":"pdf generation failed"}`, http.StatusInternalServerError)
		return
	}
	filename := "romaneio-" + strings.ToLower(strings.ReplaceAll(car.Name, " ", "-")) + "-" + date.Format("2006-01-02") + ".pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(out)
}
