package ingest

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// defaultDurationMinutes é usada quando a coluna "Data Fim" está vazia ou
// não parseia. O export de origem nem sempre preenche o fim da coleta e isso
// não deve invalidar a linha.
const defaultDurationMinutes = 40

// statusNaoConfirmado é o status padrão quando a planilha não traz um.
const statusNaoConfirmado = "Não Confirmado"

// Layouts aceitos para "Data Início"/"Data Fim", na ordem de prioridade do
// export de origem. O último (só data) assume meia-noite.
var dateLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// Fallback genérico para células fora do padrão (ex.: export re-salvo).
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

var (
	cpfRe     = regexp.MustCompile(`CPF:?\s*(\d{3}\.?\d{3}\.?\d{3}-?\d{2})`)
	celularRe = regexp.MustCompile(`Celular:?\s*\(?(\d{2})\)?\s*(\d{4,5})[-.\s]?(\d{4})`)
	carroRe   = regexp.MustCompile(`(?i)CARRO\s*(\d+)`)
	digitsRe  = regexp.MustCompile(`\D`)
)

// parseTimestamp tenta os layouts conhecidos na ordem e depois o fallback.
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ExtractCPF procura o rótulo "CPF:" no blob de documentos e devolve o CPF
// formatado NNN.NNN.NNN-NN. Sem match (ou dígitos de menos) devolve nil.
func ExtractCPF(docs string) *string {
	m := cpfRe.FindStringSubmatch(docs)
	if m == nil {
		return nil
	}
	d := digitsRe.ReplaceAllString(m[1], "")
	if len(d) != 11 {
		return nil
	}
	out := fmt.Sprintf("%s.%s.%s-%s", d[0:3], d[3:6], d[6:9], d[9:11])
	return &out
}

// ExtractCelular procura o rótulo "Celular:" no blob de contatos e devolve o
// telefone formatado (DD) NNNNN-NNNN. Sem match devolve nil.
func ExtractCelular(contatos string) *string {
	m := celularRe.FindStringSubmatch(contatos)
	if m == nil {
		return nil
	}
	out := fmt.Sprintf("(%s) %s-%s", m[1], m[2], m[3])
	return &out
}

// ExtractCarro identifica o carro no nome da sala/recurso ("CARRO 2 - Coleta
// Domiciliar" -> "CARRO 2"). Case-insensitive; sem match devolve "" e false.
func ExtractCarro(sala string) (string, bool) {
	m := carroRe.FindStringSubmatch(sala)
	if m == nil {
		return "", false
	}
	return "CARRO " + m[1], true
}

// NormalizeAddress capitaliza a primeira letra de cada trecho separado por
// vírgula e rejunta com ", ".
func NormalizeAddress(addr string) string {
	if strings.TrimSpace(addr) == "" {
		return ""
	}
	parts := strings.Split(addr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(p)
		out = append(out, string(unicode.ToUpper(r))+p[size:])
	}
	return strings.Join(out, ", ")
}

// splitExams separa a lista de exames por vírgula, descartando vazios.
func splitExams(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// extractEntry monta um Entry a partir de uma linha. rowNumber é 1-based.
// Panics de parsing são isolados por linha: viram erro e a execução continua
// nas próximas linhas.
func extractEntry(rowNumber int, row RawRow) (entry *Entry, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			entry = nil
			err = fmt.Errorf("row %d: %v", rowNumber, rec)
		}
	}()

	name := strings.TrimSpace(row[ColPaciente])
	startRaw := strings.TrimSpace(row[ColInicio])
	if name == "" || startRaw == "" {
		return nil, fmt.Errorf("row processing failed: missing name or start time")
	}

	start, ok := parseTimestamp(startRaw)
	if !ok {
		return nil, fmt.Errorf("invalid date/time format: %q", startRaw)
	}

	duration := defaultDurationMinutes
	if end, ok := parseTimestamp(row[ColFim]); ok {
		if min := int(math.Round(end.Sub(start).Minutes())); min > 0 {
			duration = min
		}
	}

	exams := splitExams(row[ColExames])
	if len(exams) == 0 {
		exams = splitExams(row[ColCodExames])
	}

	status := strings.TrimSpace(row[ColStatus])
	if status == "" {
		status = statusNaoConfirmado
	}

	return &Entry{
		ID:              fmt.Sprintf("patient_%d", rowNumber),
		PatientName:     name,
		Time:            start.Format("15:04"),
		Date:            start.Format("02/01/2006"),
		DurationMinutes: duration,
		Address:         NormalizeAddress(row[ColEndereco]),
		Phone:           ExtractCelular(row[ColContatos]),
		CPF:             ExtractCPF(row[ColDocs]),
		Exams:           exams,
		Status:          status,
		RawData:         row,
	}, nil
}
