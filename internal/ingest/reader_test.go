package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadRowsXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetRow(sheet, "A1", &[]interface{}{ColSala, ColPaciente, ColInicio})
	_ = f.SetSheetRow(sheet, "A2", &[]interface{}{"CARRO 1", "Maria Silva", "20/01/2025 08:00:00"})
	_ = f.SetSheetRow(sheet, "A3", &[]interface{}{"CARRO 2", "João Santos", "20/01/2025 09:00:00"})
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	headers, rows, err := readRows("agenda.xlsx", bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("readRows: %v", err)
	}
	if len(headers) != 3 || headers[0] != ColSala {
		t.Errorf("headers = %v", headers)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0][ColPaciente] != "Maria Silva" || rows[1][ColSala] != "CARRO 2" {
		t.Errorf("rows = %v", rows)
	}
}

func TestReadRowsCSVWindows1252(t *testing.T) {
	// "Data Início" e "São Paulo" em Windows-1252 (bytes 0xED, 0xE3).
	csv := "Nome da Sala,Nome do Paciente,Data In\xedcio\nCARRO 1,Jo\xe3o,20/01/2025\n"
	headers, rows, err := readRows("agenda.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("readRows: %v", err)
	}
	if headers[2] != ColInicio {
		t.Errorf("header = %q, want %q", headers[2], ColInicio)
	}
	if rows[0][ColPaciente] != "João" {
		t.Errorf("paciente = %q, want João", rows[0][ColPaciente])
	}
}

func TestReadRowsSkipsBlankLines(t *testing.T) {
	csv := "Nome da Sala,Nome do Paciente,Data Início\nCARRO 1,Maria,20/01/2025\n,,\n\n"
	_, rows, err := readRows("agenda.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("readRows: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("rows = %d, want 1 (linhas em branco ignoradas)", len(rows))
	}
}

func TestReadRowsBOM(t *testing.T) {
	csv := "\xEF\xBB\xBFNome da Sala,Nome do Paciente,Data Início\nCARRO 1,Maria,20/01/2025\n"
	headers, _, err := readRows("agenda.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("readRows: %v", err)
	}
	if headers[0] != ColSala {
		t.Errorf("BOM não removido: header[0] = %q", headers[0])
	}
}
