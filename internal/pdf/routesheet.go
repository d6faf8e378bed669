package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"
)

// RouteStop é uma parada do romaneio de um carro (uma coleta domiciliar).
type RouteStop struct {
	Time        string
	PatientName string
	CPF         string
	Phone       string
	Address     string
	Exams       []string
	Status      string
}

// RouteSheet são os dados de um romaneio: carro + dia + paradas em ordem de horário.
type RouteSheet struct {
	CarName string
	Date    string // DD/MM/YYYY
	Stops   []RouteStop
	// ConfirmURL vira um QR no rodapé para o coletador abrir a agenda do
	// carro no celular e confirmar as coletas.
	ConfirmURL string
}

// BuildRouteSheetPDF gera o PDF do romaneio de coleta de um carro.
func BuildRouteSheetPDF(sheet RouteSheet) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Romaneio de Coleta Domiciliar — %s", sheet.CarName)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Data: %s    Coletas: %d", sheet.Date, len(sheet.Stops))), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for i, stop := range sheet.Stops {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("%d. %s — %s", i+1, stop.Time, stop.PatientName)), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		if stop.Address != "" {
			pdf.CellFormat(0, 5, tr("Endereço: "+stop.Address), "", 1, "L", false, 0, "")
		}
		line := ""
		if stop.CPF != "" {
			line = "CPF: " + stop.CPF
		}
		if stop.Phone != "" {
			if line != "" {
				line += "    "
			}
			line += "Celular: " + stop.Phone
		}
		if line != "" {
			pdf.CellFormat(0, 5, tr(line), "", 1, "L", false, 0, "")
		}
		if len(stop.Exams) > 0 {
			pdf.CellFormat(0, 5, tr("Exames: "+strings.Join(stop.Exams, ", ")), "", 1, "L", false, 0, "")
		}
		pdf.CellFormat(0, 5, tr("Status: "+stop.Status), "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}

	if sheet.ConfirmURL != "" {
		pdf.Ln(4)
		qrPNG, err := qrcode.Encode(sheet.ConfirmURL, qrcode.Medium, 128)
		if err == nil {
			tmpFile, err := os.CreateTemp("", "qr-*.png")
			if err == nil {
				tmpFile.Write(qrPNG)
				path := tmpFile.Name()
				tmpFile.Close()
				defer os.Remove(path)
				pdf.RegisterImage(path, "PNG")
				pdf.Image(path, 15, pdf.GetY(), 25, 25, false, "", 0, "")
				pdf.SetY(pdf.GetY() + 27)
			}
		}
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(0, 5, tr("Agenda do carro: "+sheet.ConfirmURL), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
