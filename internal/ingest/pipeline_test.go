package ingest

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const sampleCSV = `Nome da Sala,Nome do Paciente,Data Início,Data Fim,Nomes dos Exames,Documentos do Paciente,Contatos do Paciente,Status de Confirmação,Endereço de Coleta
CARRO 1 - Coleta Domiciliar,Maria Silva,20/01/2025 08:00:00,20/01/2025 08:40:00,"Hemograma, Glicemia",CPF: 123.456.789-00,Celular: (11) 98765-4321,Confirmado,"rua das flores, 123, centro"
CARRO 2 - Coleta Domiciliar,João Santos,20/01/2025 09:00:00,,TSH,CPF: 98765432100,Celular: 11912345678,,"av. paulista, 1000"
Sala Avulsa,Ana Souza,20/01/2025 10:00:00,,Glicemia,,,Confirmado,"rua b, 20"
CARRO 1 - Coleta Domiciliar,Pedro Lima,20/01/2025 11:30,,Hemograma,,,,"rua c, 30"
`

func TestProcessEndToEnd(t *testing.T) {
	res, err := Process("agenda.csv", strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.TotalRecords != 4 {
		t.Errorf("TotalRecords = %d, want 4", res.TotalRecords)
	}
	if res.ValidRecords != 3 {
		t.Errorf("ValidRecords = %d, want 3 (linha da Sala Avulsa não entra)", res.ValidRecords)
	}
	if res.ErrorCount != 0 {
		t.Errorf("ErrorCount = %d, want 0", res.ErrorCount)
	}
	if res.WarningCount != 1 {
		t.Errorf("WarningCount = %d, want 1", res.WarningCount)
	}
	if len(res.Vehicles["CARRO 1"]) != 2 || len(res.Vehicles["CARRO 2"]) != 1 {
		t.Errorf("buckets = %v", res.Vehicles)
	}
	if !reflect.DeepEqual(res.VehicleOrder, []string{"CARRO 1", "CARRO 2"}) {
		t.Errorf("VehicleOrder = %v", res.VehicleOrder)
	}

	first := res.Vehicles["CARRO 1"][0]
	if first.ID != "patient_1" || first.Time != "08:00" || first.Date != "20/01/2025" {
		t.Errorf("first entry = %+v", first)
	}
	if first.DurationMinutes != 40 {
		t.Errorf("first DurationMinutes = %d, want 40", first.DurationMinutes)
	}
	if first.Address != "Rua das flores, 123, Centro" {
		t.Errorf("Address = %q", first.Address)
	}

	second := res.Vehicles["CARRO 2"][0]
	if second.CPF == nil || *second.CPF != "987.654.321-00" {
		t.Errorf("second CPF = %v", second.CPF)
	}
	if second.Status != statusNaoConfirmado {
		t.Errorf("second Status = %q", second.Status)
	}
	if second.DurationMinutes != defaultDurationMinutes {
		t.Errorf("second DurationMinutes = %d", second.DurationMinutes)
	}

	// Resumos antes dos issues por linha: warning e sucesso (sem erros).
	if len(res.Issues) != 3 {
		t.Fatalf("Issues = %v, want 3 (2 resumos + 1 warning de linha)", res.Issues)
	}
	if res.Issues[0].Kind != KindWarning || res.Issues[0].RowNumber != 0 {
		t.Errorf("Issues[0] = %+v, want warning summary", res.Issues[0])
	}
	if res.Issues[1].Kind != KindSuccess || !strings.Contains(res.Issues[1].Message, "3") {
		t.Errorf("Issues[1] = %+v, want success summary counting 3", res.Issues[1])
	}
	if res.Issues[2].Kind != KindWarning || res.Issues[2].RowNumber != 3 {
		t.Errorf("Issues[2] = %+v, want row 3 vehicle warning", res.Issues[2])
	}
	if want := "could not identify vehicle in 'Sala Avulsa'"; res.Issues[2].Message != want {
		t.Errorf("vehicle warning = %q, want %q", res.Issues[2].Message, want)
	}

	stats := res.VehicleStats()
	if s := stats["CARRO 1"]; s.Total != 2 || s.Confirmed != 1 || s.Pending != 1 {
		t.Errorf("CARRO 1 stats = %+v", s)
	}
	if s := stats["CARRO 2"]; s.Total != 1 || s.Confirmed != 0 || s.Pending != 1 {
		t.Errorf("CARRO 2 stats = %+v", s)
	}
}

func TestProcessIdempotent(t *testing.T) {
	a, err := Process("agenda.csv", strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	b, err := Process("agenda.csv", strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("two runs over identical input must produce identical results")
	}
}

func TestProcessRowErrors(t *testing.T) {
	csv := "Nome da Sala,Nome do Paciente,Data Início\n" +
		"CARRO 1,,20/01/2025 08:00:00\n" + // sem nome
		"CARRO 1,Maria Silva,amanhã cedo\n" + // data inválida
		"CARRO 3,João Santos,20/01/2025 09:00:00\n"
	res, err := Process("agenda.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.TotalRecords != 3 || res.ErrorCount != 2 || res.ValidRecords != 1 {
		t.Errorf("totals = %d/%d/%d, want 3 total, 2 errors, 1 valid",
			res.TotalRecords, res.ErrorCount, res.ValidRecords)
	}
	// Cada linha tem exatamente um destino: bucket, erro ou warning.
	if res.ValidRecords+res.ErrorCount+res.WarningCount != res.TotalRecords {
		t.Errorf("row accounting must cover every row exactly once: %+v", res)
	}
	// Resumo de erro vem antes do de sucesso.
	if res.Issues[0].Kind != KindError || res.Issues[0].RowNumber != 0 {
		t.Errorf("Issues[0] = %+v, want error summary first", res.Issues[0])
	}
}

func TestProcessSchemaError(t *testing.T) {
	csv := "Nome do Paciente,Data Início\nMaria Silva,20/01/2025 08:00:00\n"
	res, err := Process("agenda.csv", strings.NewReader(csv))
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if len(schemaErr.Missing) != 1 || schemaErr.Missing[0] != ColSala {
		t.Errorf("Missing = %v, want [%s]", schemaErr.Missing, ColSala)
	}
	if len(schemaErr.Found) != 2 {
		t.Errorf("Found = %v", schemaErr.Found)
	}
	if res.TotalRecords != 0 || len(res.Issues) != 1 || res.Issues[0].Kind != KindError {
		t.Errorf("degenerate result expected, got %+v", res)
	}
}

func TestProcessEmptyInput(t *testing.T) {
	csv := "Nome da Sala,Nome do Paciente,Data Início\n"
	_, err := Process("agenda.csv", strings.NewReader(csv))
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestProcessUnsupportedFormat(t *testing.T) {
	_, err := Process("agenda.pdf", strings.NewReader("whatever"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestProcessCorruptSpreadsheet(t *testing.T) {
	_, err := Process("agenda.xlsx", strings.NewReader("not a zip archive"))
	if err == nil {
		t.Fatal("expected read error for corrupt xlsx")
	}
}
