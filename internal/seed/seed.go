package seed

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Run insere dados de demonstração (frota, pacientes e coletas de amanhã)
// quando o banco está vazio. Idempotente: com frota existente não faz nada.
func Run(ctx context.Context, pool *pgxpool.Pool) error {
	var n int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM cars").Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	log.Printf("seed: banco vazio, inserindo frota e pacientes de demonstração")

	carIDs := make([]uuid.UUID, 0, 3)
	for _, name := range []string{"CARRO 1", "CARRO 2", "CARRO 3"} {
		var id uuid.UUID
		if err := pool.QueryRow(ctx, "INSERT INTO cars (name) VALUES ($1) RETURNING id", name).Scan(&id); err != nil {
			return err
		}
		carIDs = append(carIDs, id)
	}

	patients := []struct {
		name, cpf, phone, address string
	}{
		{"Maria Silva", "123.456.789-00", "(11) 98765-4321", "Rua das flores, 123, Centro"},
		{"João Santos", "987.654.321-00", "(11) 91234-5678", "Av. paulista, 1000, Bela vista"},
		{"Ana Souza", "111.222.333-44", "(21) 99876-5432", "Rua b, 20, Copacabana"},
		{"Pedro Lima", "555.666.777-88", "(11) 97777-8888", "Rua c, 30, Pinheiros"},
	}
	patientIDs := make([]uuid.UUID, 0, len(patients))
	for _, p := range patients {
		var id uuid.UUID
		if err := pool.QueryRow(ctx, `
			INSERT INTO patients (full_name, cpf, phone, address) VALUES ($1, $2, $3, $4) RETURNING id
		`, p.name, p.cpf, p.phone, p.address).Scan(&id); err != nil {
			return err
		}
		patientIDs = append(patientIDs, id)
	}

	tomorrow := time.Now().AddDate(0, 0, 1)
	appointments := []struct {
		patient int
		car     int
		start   string
		exams   []string
		status  string
	}{
		{0, 0, "08:00", []string{"Hemograma", "Glicemia"}, "Confirmado"},
		{1, 0, "09:00", []string{"TSH"}, "Não Confirmado"},
		{2, 1, "08:30", []string{"Glicemia"}, "Confirmado"},
		{3, 2, "10:00", []string{"Hemograma"}, "Não Confirmado"},
	}
	for _, a := range appointments {
		if _, err := pool.Exec(ctx, `
			INSERT INTO appointments (patient_id, car_id, scheduled_date, start_time, exams, status, address)
			SELECT $1, $2, $3, $4::time, $5, $6, p.address FROM patients p WHERE p.id = $1
		`, patientIDs[a.patient], carIDs[a.car], tomorrow, a.start, a.exams, a.status); err != nil {
			return err
		}
	}
	log.Printf("seed: %d carros, %d pacientes, %d coletas para %s",
		len(carIDs), len(patientIDs), len(appointments), tomorrow.Format("02/01/2006"))
	return nil
}
