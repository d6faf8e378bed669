package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agendacoleta/backend/internal/api"
	"github.com/agendacoleta/backend/internal/cache"
	"github.com/agendacoleta/backend/internal/config"
	"github.com/agendacoleta/backend/internal/middleware"
	"github.com/agendacoleta/backend/internal/migrate"
	"github.com/agendacoleta/backend/internal/seed"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg := config.Load()
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("config postgres: %v", err)
		}
		if cfg.DBMaxConns > 0 {
			poolConfig.MaxConns = int32(cfg.DBMaxConns)
		}
		if cfg.DBMinConns > 0 {
			poolConfig.MinConns = int32(cfg.DBMinConns)
		}
		if cfg.DBMaxConnLifetime > 0 {
			poolConfig.MaxConnLifetime = cfg.DBMaxConnLifetime
		}
		pool, err = pgxpool.NewWithConfig(context.Background(), poolConfig)
		if err != nil {
			log.Fatalf("conexão postgres: %v", err)
		}
		defer pool.Close()
		if err := pool.Ping(context.Background()); err != nil {
			log.Fatalf("ping postgres: %v", err)
		}
		if err := migrate.Run(context.Background(), pool, cfg.MigrationsDir); err != nil {
			log.Fatalf("migrations: %v", err)
		}
		if err := seed.Run(context.Background(), pool); err != nil {
			log.Printf("seed (ignored if already applied): %v", err)
		}
	}

	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	r.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if pool == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"no database"}`))
			return
		}
		if err := pool.Ping(context.Background()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"db unhealthy"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	h := &api.Handler{Pool: pool, Cfg: cfg, Cache: cache.New(30 * time.Second)}

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/schedule/upload", h.UploadSchedule).Methods(http.MethodPost)
	apiRouter.HandleFunc("/schedule/confirm", h.ConfirmSchedule).Methods(http.MethodPost)
	apiRouter.HandleFunc("/schedule/template", h.DownloadTemplate).Methods(http.MethodGet)
	apiRouter.HandleFunc("/appointments", h.ListAppointments).Methods(http.MethodGet)
	apiRouter.HandleFunc("/appointments/{id}", h.PatchAppointment).Methods(http.MethodPatch)
	apiRouter.HandleFunc("/patients", h.ListPatients).Methods(http.MethodGet)
	apiRouter.HandleFunc("/patients", h.CreatePatient).Methods(http.MethodPost)
	apiRouter.HandleFunc("/patients/{patientId}", h.GetPatient).Methods(http.MethodGet)
	apiRouter.HandleFunc("/patients/{patientId}", h.UpdatePatient).Methods(http.MethodPatch)
	apiRouter.HandleFunc("/patients/{patientId}", h.SoftDeletePatient).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/cars", h.ListCars).Methods(http.MethodGet)
	apiRouter.HandleFunc("/cars", h.CreateCar).Methods(http.MethodPost)
	apiRouter.HandleFunc("/cars/{carId}", h.UpdateCar).Methods(http.MethodPatch)
	apiRouter.HandleFunc("/dashboard/summary", h.DashboardSummary).Methods(http.MethodGet)
	apiRouter.HandleFunc("/reports/route-sheet", h.RouteSheetPDF).Methods(http.MethodGet)

	chain := middleware.Recover(middleware.RequestID(middleware.Timeout(cfg.RequestTimeoutSec)(middleware.CORS(cfg.CORSOrigins)(middleware.Gzip(r)))))

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      chain,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("backend listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("backend stopped")
}
