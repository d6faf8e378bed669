package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB é o subconjunto de pgx que as queries deste pacote usam. Tanto
// *pgxpool.Pool quanto pgx.Tx satisfazem a interface, o que permite rodar as
// mesmas funções dentro de uma transação (o confirm do import precisa disso:
// apagar e regravar a agenda do dia é tudo-ou-nada).
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
