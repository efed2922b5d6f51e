package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/Ramjayanth123/contracts-4-sub001/pkg/db"
	"github.com/Ramjayanth123/contracts-4-sub001/pkg/domain"
	"github.com/Ramjayanth123/contracts-4-sub001/pkg/httpx"
	"github.com/Ramjayanth123/contracts-4-sub001/services/directory/internal/store"
)

type config struct {
	Port        string `env:"SERVICE_PORT" envDefault:"8081"`
	DatabaseURL string `env:"DATABASE_URL,required"`
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg, err := env.ParseAs[config]()
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	pool := db.MustConnect(cfg.DatabaseURL)
	defer pool.Close()
	st := store.New(pool)

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	r.Route("/directory", func(api chi.Router) {

		api.Post("/actors", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Name string `json:"name"`
				Role string `json:"role"`
			}
			if err := httpx.ReadJSON(r, &req); err != nil {
				httpx.WriteError(w, 400, "BAD_JSON", err.Error(), nil)
				return
			}
			role, ok := store.NormalizeRole(req.Role)
			if !ok {
				httpx.WriteError(w, 400, "INVALID_ARGUMENT", "role must be one of LEGAL, VIEWER, ADMIN, MEMBER", nil)
				return
			}
			a := store.Actor{
				ActorID:   "act_" + uuid.NewString(),
				Name:      req.Name,
				Role:      role,
				Status:    store.StatusActive,
				CreatedAt: time.Now(),
			}
			if err := st.CreateActor(r.Context(), a); err != nil {
				httpx.WriteError(w, 500, "DB_ERROR", err.Error(), nil)
				return
			}
			httpx.WriteJSON(w, 201, map[string]any{"request_id": httpx.NewRequestID(), "actor": a})
		})

		api.Get("/actors", func(w http.ResponseWriter, r *http.Request) {
			var roleFilter *domain.Role
			if q := r.URL.Query().Get("role"); q != "" {
				role, ok := store.NormalizeRole(q)
				if !ok {
					httpx.WriteError(w, 400, "INVALID_ARGUMENT", "unknown role filter", nil)
					return
				}
				roleFilter = &role
			}
			actors, err := st.ListActors(r.Context(), roleFilter)
			if err != nil {
				httpx.WriteError(w, 500, "DB_ERROR", err.Error(), nil)
				return
			}
			httpx.WriteJSON(w, 200, map[string]any{"request_id": httpx.NewRequestID(), "actors": actors})
		})

		api.Get("/actors/{actor_id}", func(w http.ResponseWriter, r *http.Request) {
			a, err := st.GetActor(r.Context(), chi.URLParam(r, "actor_id"))
			if err != nil {
				httpx.WriteError(w, 404, "NOT_FOUND", err.Error(), nil)
				return
			}
			httpx.WriteJSON(w, 200, map[string]any{"request_id": httpx.NewRequestID(), "actor": a})
		})

		api.Get("/actors/{actor_id}/role", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "actor_id")
			role, err := st.ResolveRole(r.Context(), id)
			if err != nil {
				if errors.Is(err, domain.ErrUnknownIdentity) {
					httpx.WriteError(w, 404, "NOT_FOUND", "unknown identity", nil)
					return
				}
				httpx.WriteError(w, 500, "DB_ERROR", err.Error(), nil)
				return
			}
			httpx.WriteJSON(w, 200, map[string]any{"request_id": httpx.NewRequestID(), "actor_id": id, "role": role})
		})

		api.Post("/actors/{actor_id}:deactivate", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "actor_id")
			if err := st.DeactivateActor(r.Context(), id); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					httpx.WriteError(w, 404, "NOT_FOUND", "unknown actor", nil)
					return
				}
				httpx.WriteError(w, 500, "DB_ERROR", err.Error(), nil)
				return
			}
			httpx.WriteJSON(w, 200, map[string]any{"request_id": httpx.NewRequestID(), "actor_id": id, "status": store.StatusDeactivated})
		})
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("directory service listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
