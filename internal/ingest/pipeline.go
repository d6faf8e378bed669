package ingest

import (
	"fmt"
	"io"
)

// Process executa a importação completa: leitura, validação de esquema,
// extração linha a linha e agrupamento por carro. Síncrono, um resultado por
// chamada. Falhas de leitura/esquema encerram a execução e devolvem um
// resultado degenerado junto com o erro; depois que a extração começa,
// falhas são sempre por linha e a execução vai até o fim.
func Process(filename string, r io.Reader) (*Result, error) {
	headers, rows, err := readRows(filename, r)
	if err != nil {
		return degenerate(err.Error()), err
	}
	if err := validateSchema(headers, rows); err != nil {
		return degenerate(err.Error()), err
	}

	res := newResult()
	res.TotalRecords = len(rows)
	var rowIssues []Issue

	for i, row := range rows {
		rowNumber := i + 1
		entry, err := extractEntry(rowNumber, row)
		if err != nil {
			res.ErrorCount++
			rowIssues = append(rowIssues, Issue{Kind: KindError, RowNumber: rowNumber, Message: err.Error()})
			continue
		}
		carro, ok := ExtractCarro(row[ColSala])
		if !ok {
			// Linha extraível mas sem carro identificável: só warning, não
			// entra em nenhum bucket nem conta como válida.
			res.WarningCount++
			rowIssues = append(rowIssues, Issue{
				Kind:      KindWarning,
				RowNumber: rowNumber,
				Message:   fmt.Sprintf("could not identify vehicle in '%s'", row[ColSala]),
			})
			continue
		}
		if _, exists := res.Vehicles[carro]; !exists {
			res.VehicleOrder = append(res.VehicleOrder, carro)
		}
		res.Vehicles[carro] = append(res.Vehicles[carro], *entry)
		res.ValidRecords++
	}

	res.Issues = append(summaryIssues(res), rowIssues...)
	return res, nil
}

// summaryIssues monta os resumos exibidos antes dos issues por linha,
// sempre nesta ordem: erros, warnings, sucesso.
func summaryIssues(res *Result) []Issue {
	var out []Issue
	if res.ErrorCount > 0 {
		out = append(out, Issue{Kind: KindError, Message: fmt.Sprintf("%d row(s) failed to process", res.ErrorCount)})
	}
	if res.WarningCount > 0 {
		out = append(out, Issue{Kind: KindWarning, Message: fmt.Sprintf("%d row(s) with warnings", res.WarningCount)})
	}
	if res.ValidRecords > 0 {
		out = append(out, Issue{Kind: KindSuccess, Message: fmt.Sprintf("%d record(s) processed successfully", res.ValidRecords)})
	}
	return out
}
