package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Car é um veículo de coleta domiciliar ("CARRO 1", "CARRO 2", ...).
type Car struct {
	ID     uuid.UUID
	Name   string
	Active bool
}

func ListCars(ctx context.Context, db DB, onlyActive bool) ([]Car, error) {
	rows, err := db.Query(ctx, `
		SELECT id, name, active FROM cars
		WHERE ($1 = false OR active) ORDER BY name
	`, onlyActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Car
	for rows.Next() {
		var c Car
		if err := rows.Scan(&c.ID, &c.Name, &c.Active); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func CarByID(ctx context.Context, db DB, id uuid.UUID) (*Car, error) {
	var c Car
	err := db.QueryRow(ctx, `SELECT id, name, active FROM cars WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Active)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func CarByName(ctx context.Context, db DB, name string) (*Car, error) {
	var c Car
	err := db.QueryRow(ctx, `SELECT id, name, active FROM cars WHERE name = $1`, name).
		Scan(&c.ID, &c.Name, &c.Active)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpsertCarByName cria o carro se ainda não existe (nome é único) e devolve o id.
// Usado pelo import: buckets novos viram carros novos automaticamente.
func UpsertCarByName(ctx context.Context, db DB, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.QueryRow(ctx, `
		INSERT INTO cars (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET active = true, updated_at = now()
		RETURNING id
	`, name).Scan(&id)
	return id, err
}

func CreateCar(ctx context.Context, db DB, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.QueryRow(ctx, `INSERT INTO cars (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	return id, err
}

func UpdateCar(ctx context.Context, db DB, id uuid.UUID, name string, active bool) error {
	tag, err := db.Exec(ctx, `
		UPDATE cars SET name = $1, active = $2, updated_at = now() WHERE id = $3
	`, name, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
