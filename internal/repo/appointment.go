package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Appointment é uma coleta domiciliar agendada.
// StartTime é "HH:MM"; a coluna TIME é convertida com to_char/::time nas queries.
type Appointment struct {
	ID              uuid.UUID
	PatientID       uuid.UUID
	CarID           uuid.UUID
	ScheduledDate   time.Time
	StartTime       string
	DurationMinutes int
	Exams           []string
	Status          string
	Address         *string
}

// AppointmentView é o appointment com nomes de paciente e carro, para a agenda.
type AppointmentView struct {
	Appointment
	PatientName  string
	PatientCPF   *string
	PatientPhone *string
	CarName      string
}

// Status de confirmação aceitos pela agenda.
var AllowedStatuses = map[string]bool{
	"Não Confirmado": true,
	"Confirmado":     true,
	"Coletado":       true,
	"Cancelado":      true,
}

func CreateAppointment(ctx context.Context, db DB, patientID, carID uuid.UUID, date time.Time, startTime string, durationMinutes int, exams []string, status string, address *string) (uuid.UUID, error) {
	if exams == nil {
		exams = []string{}
	}
	var id uuid.UUID
	err := db.QueryRow(ctx, `
		INSERT INTO appointments (patient_id, car_id, scheduled_date, start_time, duration_minutes, exams, status, address)
		VALUES ($1, $2, $3, $4::time, $5, $6, $7, $8) RETURNING id
	`, patientID, carID, date, startTime, durationMinutes, exams, status, address).Scan(&id)
	return id, err
}

// ListAppointmentsByDateRange lista coletas no intervalo [from, to], ordenadas
// por dia, carro e horário (ordem de exibição do calendário).
func ListAppointmentsByDateRange(ctx context.Context, db DB, from, to time.Time) ([]AppointmentView, error) {
	rows, err := db.Query(ctx, `
		SELECT a.id, a.patient_id, a.car_id, a.scheduled_date, to_char(a.start_time, 'HH24:MI'),
		       a.duration_minutes, a.exams, a.status, a.address,
		       COALESCE(p.full_name, ''), p.cpf, p.phone, c.name
		FROM appointments a
		JOIN cars c ON c.id = a.car_id
		LEFT JOIN patients p ON p.id = a.patient_id AND p.deleted_at IS NULL
		WHERE a.scheduled_date >= $1 AND a.scheduled_date <= $2
		ORDER BY a.scheduled_date, c.name, a.start_time
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointmentViews(rows)
}

// ListAppointmentsForCarAndDate lista as coletas de um carro em um dia, na
// ordem do roteiro (horário).
func ListAppointmentsForCarAndDate(ctx context.Context, db DB, carID uuid.UUID, date time.Time) ([]AppointmentView, error) {
	rows, err := db.Query(ctx, `
		SELECT a.id, a.patient_id, a.car_id, a.scheduled_date, to_char(a.start_time, 'HH24:MI'),
		       a.duration_minutes, a.exams, a.status, a.address,
		       COALESCE(p.full_name, ''), p.cpf, p.phone, c.name
		FROM appointments a
		JOIN cars c ON c.id = a.car_id
		LEFT JOIN patients p ON p.id = a.patient_id AND p.deleted_at IS NULL
		WHERE a.car_id = $1 AND a.scheduled_date = $2 AND a.status != 'Cancelado'
		ORDER BY a.start_time
	`, carID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointmentViews(rows)
}

func scanAppointmentViews(rows pgx.Rows) ([]AppointmentView, error) {
	var list []AppointmentView
	for rows.Next() {
		var v AppointmentView
		if err := rows.Scan(&v.ID, &v.PatientID, &v.CarID, &v.ScheduledDate, &v.StartTime,
			&v.DurationMinutes, &v.Exams, &v.Status, &v.Address,
			&v.PatientName, &v.PatientCPF, &v.PatientPhone, &v.CarName); err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// UpdateAppointment altera data, horário, carro e/ou status (campos nil não mudam).
// É o caminho do drag-and-drop do calendário e do fluxo de confirmação.
func UpdateAppointment(ctx context.Context, db DB, id uuid.UUID, date *time.Time, startTime *string, carID *uuid.UUID, status *string) error {
	tag, err := db.Exec(ctx, `
		UPDATE appointments SET
			scheduled_date = COALESCE($1, scheduled_date),
			start_time = COALESCE($2::time, start_time),
			car_id = COALESCE($3, car_id),
			status = COALESCE($4, status),
			updated_at = now()
		WHERE id = $5
	`, date, startTime, carID, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteAppointmentsByDate remove todas as coletas do dia. Usado antes de
// regravar um import confirmado (o upload substitui a agenda do dia).
func DeleteAppointmentsByDate(ctx context.Context, db DB, date time.Time) (int64, error) {
	tag, err := db.Exec(ctx, `DELETE FROM appointments WHERE scheduled_date = $1`, date)
	return tag.RowsAffected(), err
}

// StatusCount é um total por status para os cards do dashboard.
type StatusCount struct {
	Status string
	Count  int
}

func CountAppointmentsByStatusForDate(ctx context.Context, db DB, date time.Time) ([]StatusCount, error) {
	rows, err := db.Query(ctx, `
		SELECT status, COUNT(*) FROM appointments WHERE scheduled_date = $1 GROUP BY status ORDER BY status
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []StatusCount
	for rows.Next() {
		var s StatusCount
		if err := rows.Scan(&s.Status, &s.Count); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// CarDayCount é o resumo por carro de um dia (total, confirmadas, pendentes).
type CarDayCount struct {
	CarName   string
	Total     int
	Confirmed int
	Pending   int
}

func CountAppointmentsByCarForDate(ctx context.Context, db DB, date time.Time) ([]CarDayCount, error) {
	rows, err := db.Query(ctx, `
		SELECT c.name,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE a.status IN ('Confirmado', 'Coletado')),
		       COUNT(*) FILTER (WHERE a.status = 'Não Confirmado')
		FROM appointments a
		JOIN cars c ON c.id = a.car_id
		WHERE a.scheduled_date = $1 AND a.status != 'Cancelado'
		GROUP BY c.name
		ORDER BY c.name
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []CarDayCount
	for rows.Next() {
		var c CarDayCount
		if err := rows.Scan(&c.CarName, &c.Total, &c.Confirmed, &c.Pending); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
