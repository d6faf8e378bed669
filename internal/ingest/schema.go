package ingest

import (
	"errors"
	"fmt"
	"strings"
)

// Colunas do export do sistema de agendamento de origem.
const (
	ColSala      = "Nome da Sala"
	ColPaciente  = "Nome do Paciente"
	ColInicio    = "Data Início"
	ColFim       = "Data Fim"
	ColCodExames = "Códigos dos Exames"
	ColExames    = "Nomes dos Exames"
	ColDocs      = "Documentos do Paciente"
	ColContatos  = "Contatos do Paciente"
	ColStatus    = "Status de Confirmação"
	ColEndereco  = "Endereço de Coleta"
)

// requiredColumns: sem elas não há como montar um agendamento.
var requiredColumns = []string{ColSala, ColPaciente, ColInicio}

// ErrEmptyInput: arquivo sem nenhuma linha de dados.
var ErrEmptyInput = errors.New("file has no data rows")

// SchemaError indica colunas obrigatórias ausentes no cabeçalho.
// Carrega também as colunas encontradas, para a mensagem ao usuário.
type SchemaError struct {
	Missing []string
	Found   []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s (found: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}

// validateSchema confere as colunas obrigatórias contra o cabeçalho observado.
// Deve rodar antes de qualquer extração de linha.
func validateSchema(headers []string, rows []RawRow) error {
	if len(rows) == 0 {
		return ErrEmptyInput
	}
	seen := make(map[string]bool, len(headers))
	var found []string
	for _, h := range headers {
		if h == "" {
			continue
		}
		seen[h] = true
		found = append(found, h)
	}
	var missing []string
	for _, c := range requiredColumns {
		if !seen[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing, Found: found}
	}
	return nil
}
