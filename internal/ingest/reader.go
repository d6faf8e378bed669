package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ErrUnsupportedFormat: extensão do arquivo não é .csv, .xls ou .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported file format (expected .csv, .xls or .xlsx)")

// readRows decodifica o arquivo enviado em cabeçalhos + linhas de dados.
// Primeira linha = cabeçalho; para planilhas, apenas a primeira aba.
// Linhas totalmente vazias (comuns no fim de exports de Excel) são ignoradas.
func readRows(filename string, r io.Reader) ([]string, []RawRow, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return readCSV(r)
	case ".xls", ".xlsx":
		return readSheet(r)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

func readCSV(r io.Reader) ([]string, []RawRow, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	// Exports do Excel brasileiro às vezes vêm em Windows-1252; converte se não for UTF-8.
	if !utf8.Valid(raw) {
		converted, _, convErr := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
		if convErr != nil {
			return nil, nil, fmt.Errorf("decode csv: %w", convErr)
		}
		raw = converted
	}
	// BOM atrapalha o match do primeiro cabeçalho.
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv: %w", err)
	}
	headers, rows := splitRecords(records)
	return headers, rows, nil
}

func readSheet(r io.Reader) ([]string, []RawRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read spreadsheet: %w", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("spreadsheet has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	headers, rows := splitRecords(records)
	return headers, rows, nil
}

// splitRecords separa cabeçalho (primeira linha) e converte as demais em RawRow.
func splitRecords(records [][]string) ([]string, []RawRow) {
	if len(records) == 0 {
		return nil, nil
	}
	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}
	var rows []RawRow
	for _, rec := range records[1:] {
		if isEmptyRecord(rec) {
			continue
		}
		row := make(RawRow, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return headers, rows
}

func isEmptyRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
