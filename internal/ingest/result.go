package ingest

// RawRow é uma linha da planilha como mapa cabeçalho -> valor da célula.
// Mantida no resultado apenas para exibição/debug; a lógica de negócio nunca lê dela.
type RawRow map[string]string

// Entry é um agendamento de coleta extraído e validado, pronto para o calendário.
type Entry struct {
	ID              string   `json:"id"`
	PatientName     string   `json:"patient_name"`
	Time            string   `json:"time"` // "HH:MM"
	Date            string   `json:"date"` // "DD/MM/YYYY"
	DurationMinutes int      `json:"duration_minutes"`
	Address         string   `json:"address"`
	Phone           *string  `json:"phone"`
	CPF             *string  `json:"cpf"`
	Exams           []string `json:"exams"`
	Status          string   `json:"status"`
	RawData         RawRow   `json:"raw_data,omitempty"`
}

// Issue kinds.
const (
	KindSuccess = "success"
	KindWarning = "warning"
	KindError   = "error"
)

// Issue é um diagnóstico estruturado de uma execução de importação.
// RowNumber é 1-based (linha de dados na planilha); 0 para issues de resumo.
type Issue struct {
	Kind      string `json:"kind"`
	RowNumber int    `json:"row_number,omitempty"`
	Message   string `json:"message"`
}

// Result é a saída imutável de uma importação de planilha.
// Vehicles mantém ordem de inserção dos entries por carro; VehicleOrder
// registra a ordem em que cada carro apareceu (mapas JSON não têm ordem).
type Result struct {
	TotalRecords int                `json:"total_records"`
	ValidRecords int                `json:"valid_records"`
	ErrorCount   int                `json:"error_count"`
	WarningCount int                `json:"warning_count"`
	Vehicles     map[string][]Entry `json:"vehicles"`
	VehicleOrder []string           `json:"vehicle_order"`
	Issues       []Issue            `json:"issues"`
}

func newResult() *Result {
	return &Result{Vehicles: make(map[string][]Entry)}
}

// VehicleStat é o resumo de ocupação de um carro na importação.
type VehicleStat struct {
	Total     int `json:"total"`
	Confirmed int `json:"confirmed"`
	Pending   int `json:"pending"`
}

// VehicleStats calcula os totais por carro (cards de resumo da tela de
// revisão). Confirmada = status "Confirmado"; o resto conta como pendente.
func (r *Result) VehicleStats() map[string]VehicleStat {
	stats := make(map[string]VehicleStat, len(r.Vehicles))
	for carro, entries := range r.Vehicles {
		s := VehicleStat{Total: len(entries)}
		for _, e := range entries {
			if e.Status == "Confirmado" {
				s.Confirmed++
			} else {
				s.Pending++
			}
		}
		stats[carro] = s
	}
	return stats
}

// degenerate devolve um Result vazio com um único issue de erro,
// usado quando a importação falha antes da extração linha a linha.
func degenerate(msg string) *Result {
	r := newResult()
	r.Issues = []Issue{{Kind: KindError, Message: msg}}
	r.ErrorCount = 1
	return r
}
