package pdf

import (
	"bytes"
	"testing"
)

func TestBuildRouteSheetPDF(t *testing.T) {
	sheet := RouteSheet{
		CarName: "CARRO 1",
		Date:    "02/01/2026",
		Stops: []RouteStop{
			{
				Time:        "07:30",
				PatientName: "Maria da Silva",
				CPF:         "123.456.789-00",
				Phone:       "(21) 99999-1234",
				Address:     "Rua das flores, 123, Copacabana",
				Exams:       []string{"Hemograma", "Glicemia"},
				Status:      "Não Confirmado",
			},
			{
				Time:        "08:10",
				PatientName: "João Pereira",
				Status:      "Confirmado",
			},
		},
		ConfirmURL: "http://localhost:5173/agenda?date=2026-01-02&car=CARRO+1",
	}
	out, err := BuildRouteSheetPDF(sheet)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("saída não começa com %PDF")
	}
	if len(out) < 1000 {
		t.Fatalf("PDF suspeito de vazio: %d bytes", len(out))
	}
}

func TestBuildRouteSheetPDFWithoutQR(t *testing.T) {
	out, err := BuildRouteSheetPDF(RouteSheet{CarName: "CARRO 2", Date: "02/01/2026"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("saída não começa com %PDF")
	}
}
