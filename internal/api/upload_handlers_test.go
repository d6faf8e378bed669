package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agendacoleta/backend/internal/cache"
	"github.com/agendacoleta/backend/internal/config"
	"github.com/agendacoleta/backend/internal/ingest"
	"github.com/xuri/excelize/v2"
)

func newTestHandler() *Handler {
	return &Handler{
		Cfg:   &config.Config{MaxUploadBytes: 10 << 20, AppPublicURL: "http://localhost:5173"},
		Cache: cache.New(30 * time.Second),
	}
}

func multipartUpload(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/schedule/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

const uploadCSV = `Nome da Sala,Nome do Paciente,Data Início,Documentos do Paciente,Contatos do Paciente,Nomes dos Exames,Endereço de Coleta
CARRO 1 - ROTA SUL,Maria da Silva,02/01/2026 07:30:00,CPF: 123.456.789-00,Celular: (21) 99999-1234,"Hemograma, Glicemia","rua das flores, 123"
CARRO 2 - ROTA NORTE,João Pereira,02/01/2026 08:00:00,CPF: 987.654.321-00,Celular: (21) 98888-4321,TSH,"av. brasil, 456"
`

func TestUploadSchedule_CSV(t *testing.T) {
	h := newTestHandler()
	req := multipartUpload(t, "agenda.csv", []byte(uploadCSV))
	rec := httptest.NewRecorder()
	h.UploadSchedule(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var res ingest.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.TotalRecords != 2 || res.ValidRecords != 2 {
		t.Fatalf("total=%d valid=%d, esperava 2/2", res.TotalRecords, res.ValidRecords)
	}
	if len(res.Vehicles["CARRO 1"]) != 1 || len(res.Vehicles["CARRO 2"]) != 1 {
		t.Fatalf("vehicles=%v", res.VehicleOrder)
	}
	e := res.Vehicles["CARRO 1"][0]
	if e.Time != "07:30" || e.Date != "02/01/2026" {
		t.Fatalf("entry=%+v", e)
	}
}

func TestUploadSchedule_MissingColumns(t *testing.T) {
	h := newTestHandler()
	req := multipartUpload(t, "agenda.csv", []byte("Nome do Paciente,Data Início\nMaria,02/01/2026 07:30:00\n"))
	rec := httptest.NewRecorder()
	h.UploadSchedule(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d, esperava 422", rec.Code)
	}
	var res ingest.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.ErrorCount != 1 || len(res.Issues) != 1 || res.Issues[0].Kind != ingest.KindError {
		t.Fatalf("result=%+v", res)
	}
}

func TestUploadSchedule_UnsupportedFormat(t *testing.T) {
	h := newTestHandler()
	req := multipartUpload(t, "agenda.pdf", []byte("%PDF-1.4"))
	rec := httptest.NewRecorder()
	h.UploadSchedule(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status=%d, esperava 415", rec.Code)
	}
}

func TestUploadSchedule_MissingFile(t *testing.T) {
	h := newTestHandler()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("other", "x")
	_ = mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/schedule/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.UploadSchedule(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, esperava 400", rec.Code)
	}
}

func TestDownloadTemplate_CSV(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/schedule/template?format=csv", nil)
	rec := httptest.NewRecorder()
	h.DownloadTemplate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	records, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("esperava cabeçalho + exemplo, veio %d linhas", len(records))
	}
	if records[0][0] != ingest.ColSala || records[0][1] != ingest.ColPaciente {
		t.Fatalf("cabeçalho=%v", records[0])
	}
}

func TestDownloadTemplate_XLSX(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/schedule/template", nil)
	rec := httptest.NewRecorder()
	h.DownloadTemplate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("content-type=%s", ct)
	}
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("abrir xlsx gerado: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0][0] != ingest.ColSala {
		t.Fatalf("rows=%v", rows)
	}
}

func TestParseDateParam(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?date=2026-01-02", nil)
	if d, ok := parseDateParam(req, "date"); !ok || d.Format("02/01/2006") != "02/01/2026" {
		t.Fatalf("iso: ok=%v d=%v", ok, d)
	}
	req = httptest.NewRequest(http.MethodGet, "/x?date=02/01/2026", nil)
	if d, ok := parseDateParam(req, "date"); !ok || d.Format("2006-01-02") != "2026-01-02" {
		t.Fatalf("br: ok=%v d=%v", ok, d)
	}
	req = httptest.NewRequest(http.MethodGet, "/x?date=amanhã", nil)
	if _, ok := parseDateParam(req, "date"); ok {
		t.Fatal("data inválida aceita")
	}
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	if _, ok := parseDateParam(req, "date"); ok {
		t.Fatal("param ausente aceito")
	}
}

func TestStartOfDay(t *testing.T) {
	// 23h em UTC-3 ainda é o mesmo dia local; Truncate(24h) pularia para o dia seguinte.
	brt := time.FixedZone("BRT", -3*60*60)
	late := time.Date(2026, 3, 10, 23, 15, 0, 0, brt)
	got := startOfDay(late)
	want := time.Date(2026, 3, 10, 0, 0, 0, 0, brt)
	if !got.Equal(want) {
		t.Fatalf("startOfDay = %v, want %v", got, want)
	}
	if got.Location() != brt {
		t.Fatalf("Location = %v, want %v", got.Location(), brt)
	}
}
