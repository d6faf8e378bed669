package api

import (
	"github.com/agendacoleta/backend/internal/cache"
	"github.com/agendacoleta/backend/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler agrupa as dependências dos endpoints HTTP.
type Handler struct {
	Pool  *pgxpool.Pool
	Cfg   *config.Config
	Cache *cache.TTL
}
