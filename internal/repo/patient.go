package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Patient struct {
	ID        uuid.UUID
	FullName  string
	CPF       *string
	Phone     *string
	Address   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const patientCols = `id, full_name, cpf, phone, address, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.FullName, &p.CPF, &p.Phone, &p.Address, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPatients returns patients matching q (name, CPF or phone), paginated.
// If limit is 0, no limit is applied (all rows).
func ListPatients(ctx context.Context, db DB, q string, limit, offset int) ([]Patient, error) {
	query := `
		SELECT ` + patientCols + `
		FROM patients
		WHERE deleted_at IS NULL
		  AND ($1 = '' OR full_name ILIKE '%' || $1 || '%' OR cpf ILIKE '%' || $1 || '%' OR phone ILIKE '%' || $1 || '%')
		ORDER BY full_name
	`
	args := []interface{}{q}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.FullName, &p.CPF, &p.Phone, &p.Address, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// CountPatients returns the total number of patients matching q.
func CountPatients(ctx context.Context, db DB, q string) (int, error) {
	var n int
	err := db.QueryRow(ctx, `
		SELECT COUNT(*) FROM patients
		WHERE deleted_at IS NULL
		  AND ($1 = '' OR full_name ILIKE '%' || $1 || '%' OR cpf ILIKE '%' || $1 || '%' OR phone ILIKE '%' || $1 || '%')
	`, q).Scan(&n)
	return n, err
}

func PatientByID(ctx context.Context, db DB, id uuid.UUID) (*Patient, error) {
	return scanPatient(db.QueryRow(ctx, `
		SELECT `+patientCols+` FROM patients WHERE id = $1 AND deleted_at IS NULL
	`, id))
}

func CreatePatient(ctx context.Context, db DB, fullName string, cpf, phone, address *string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.QueryRow(ctx, `
		INSERT INTO patients (full_name, cpf, phone, address) VALUES ($1, $2, $3, $4) RETURNING id
	`, fullName, cpf, phone, address).Scan(&id)
	return id, err
}

// UpsertPatientByCPF cria ou atualiza o paciente chaveado pelo CPF (import de
// planilha). Sem CPF não há chave natural: insere sempre um paciente novo.
func UpsertPatientByCPF(ctx context.Context, db DB, fullName string, cpf, phone, address *string) (uuid.UUID, error) {
	if cpf == nil || *cpf == "" {
		return CreatePatient(ctx, db, fullName, nil, phone, address)
	}
	var id uuid.UUID
	err := db.QueryRow(ctx, `
		INSERT INTO patients (full_name, cpf, phone, address) VALUES ($1, $2, $3, $4)
		ON CONFLICT (cpf) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			phone = COALESCE(EXCLUDED.phone, patients.phone),
			address = COALESCE(EXCLUDED.address, patients.address),
			deleted_at = NULL,
			updated_at = now()
		RETURNING id
	`, fullName, cpf, phone, address).Scan(&id)
	return id, err
}

func UpdatePatient(ctx context.Context, db DB, id uuid.UUID, fullName string, cpf, phone, address *string) error {
	tag, err := db.Exec(ctx, `
		UPDATE patients SET full_name = $1, cpf = $2, phone = $3, address = $4, updated_at = now()
		WHERE id = $5 AND deleted_at IS NULL
	`, fullName, cpf, phone, address, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func SoftDeletePatient(ctx context.Context, db DB, id uuid.UUID) error {
	tag, err := db.Exec(ctx, `
		UPDATE patients SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
