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
	"golang.org/x/sync/errgroup"

	"github.com/Ramjayanth123/contracts-4-sub001/pkg/db"
	"github.com/Ramjayanth123/contracts-4-sub001/pkg/domain"
	"github.com/Ramjayanth123/contracts-4-sub001/pkg/httpx"
	"github.com/Ramjayanth123/contracts-4-sub001/services/workflow/internal/assignment"
	"github.com/Ramjayanth123/contracts-4-sub001/services/workflow/internal/audit"
	"github.com/Ramjayanth123/contracts-4-sub001/services/workflow/internal/directoryclient"
	"github.com/Ramjayanth123/contracts-4-sub001/services/workflow/internal/engine"
	"github.com/Ramjayanth123/contracts-4-sub001/services/workflow/internal/store"
)

type config struct {
	Port                  string `env:"SERVICE_PORT" envDefault:"8082"`
	DatabaseURL           string `env:"DATABASE_URL,required"`
	DirectoryBaseURL      string `env:"DIRECTORY_BASE_URL" envDefault:"http://localhost:8081/directory"`
	AuditBuffer           int    `env:"AUDIT_BUFFER" envDefault:"256"`
	EnforceRoleSeparation bool   `env:"ENFORCE_ROLE_SEPARATION" envDefault:"false"`
}

type actorContext struct {
	ActorID string `json:"actor_id"`
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
	auditLog := store.NewAuditLog(pool)
	recorder := audit.NewRecorder(auditLog, log, cfg.AuditBuffer)
	defer recorder.Close()

	dir := directoryclient.New(cfg.DirectoryBaseURL)
	registry := assignment.NewRegistry(dir, cfg.EnforceRoleSeparation)
	eng := engine.New(st, registry, recorder)

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	r.Route("/workflow", func(api chi.Router) {

		// Draft creation happens outside the state machine: new contracts
		// start at DRAFT, version 1, and are mutated only through the
		// transition endpoints below.
		api.Post("/contracts", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				ActorContext actorContext `json:"actor_context"`
				Title        string       `json:"title"`
			}
			if err := httpx.ReadJSON(r, &req); err != nil {
				httpx.WriteError(w, 400, "BAD_JSON", err.Error(), nil)
				return
			}
			if req.ActorContext.ActorID == "" {
				httpx.WriteError(w, 400, "INVALID_ARGUMENT", "actor_context.actor_id is required", nil)
				return
			}
			now := time.Now()
			c := domain.Contract{
				ContractID: "ctr_" + uuid.NewString(),
				Title:      req.Title,
				State:      domain.StateDraft,
				CreatedBy:  req.ActorContext.ActorID,
				Version:    1,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := st.Create(r.Context(), c); err != nil {
				httpx.WriteFailure(w, err)
				return
			}
			httpx.WriteJSON(w, 201, map[string]any{"request_id": httpx.NewRequestID(), "contract": c})
		})

		api.Get("/contracts/{contract_id}", func(w http.ResponseWriter, r *http.Request) {
			c, err := st.Load(r.Context(), chi.URLParam(r, "contract_id"))
			if err != nil {
				httpx.WriteFailure(w, err)
				return
			}
			httpx.WriteJSON(w, 200, map[string]any{"request_id": httpx.NewRequestID(), "contract": c})
		})

		api.Get("/contracts/{contract_id}/audit", func(w http.ResponseWriter, r *http.Request) {
			entries, err := auditLog.List(r.Context(), chi.URLParam(r, "contract_id"))
			if err != nil {
				httpx.WriteFailure(w, err)
				return
			}
			httpx.WriteJSON(w, 200, map[string]any{"request_id": httpx.NewRequestID(), "entries": entries})
		})

		api.Post("/contracts/{contract_id}:submitForReview", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				ActorContext    actorContext `json:"actor_context"`
				LegalReviewerID string       `json:"legal_reviewer_id"`
				ViewerID        string       `json:"viewer_id"`
			}
			if err := httpx.ReadJSON(r, &req); err != nil {
				httpx.WriteError(w, 400, "BAD_JSON", err.Error(), nil)
				return
			}
			c, err := eng.SubmitForReview(r.Context(), chi.URLParam(r, "contract_id"),
				req.ActorContext.ActorID, req.LegalReviewerID, req.ViewerID)
			writeResult(w, c, err)
		})

		api.Post("/contracts/{contract_id}:approve", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				ActorContext actorContext `json:"actor_context"`
			}
			if err := httpx.ReadJSON(r, &req); err != nil {
				httpx.WriteError(w, 400, "BAD_JSON", err.Error(), nil)
				return
			}
			c, err := eng.Approve(r.Context(), chi.URLParam(r, "contract_id"), req.ActorContext.ActorID)
			writeResult(w, c, err)
		})

		api.Post("/contracts/{contract_id}:rejectByReviewer", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				ActorContext actorContext `json:"actor_context"`
				Reason       string       `json:"reason"`
			}
			if err := httpx.ReadJSON(r, &req); err != nil {
				httpx.WriteError(w, 400, "BAD_JSON", err.Error(), nil)
				return
			}
			c, err := eng.RejectByReviewer(r.Context(), chi.URLParam(r, "contract_id"),
				req.ActorContext.ActorID, req.Reason)
			writeResult(w, c, err)
		})

		api.Post("/contracts/{contract_id}:sign", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				ActorContext actorContext `json:"actor_context"`
			}
			if err := httpx.ReadJSON(r, &req); err != nil {
				httpx.WriteError(w, 400, "BAD_JSON", err.Error(), nil)
				return
			}
			c, err := eng.Sign(r.Context(), chi.URLParam(r, "contract_id"), req.ActorContext.ActorID)
			writeResult(w, c, err)
		})

		api.Post("/contracts/{contract_id}:rejectBySigner", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				ActorContext actorContext `json:"actor_context"`
				Reason       string       `json:"reason"`
			}
			if err := httpx.ReadJSON(r, &req); err != nil {
				httpx.WriteError(w, 400, "BAD_JSON", err.Error(), nil)
				return
			}
			c, err := eng.RejectBySigner(r.Context(), chi.URLParam(r, "contract_id"),
				req.ActorContext.ActorID, req.Reason)
			writeResult(w, c, err)
		})

		api.Post("/contracts/{contract_id}:resetToDraft", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				ActorContext actorContext `json:"actor_context"`
			}
			if err := httpx.ReadJSON(r, &req); err != nil {
				httpx.WriteError(w, 400, "BAD_JSON", err.Error(), nil)
				return
			}
			c, err := eng.ResetToDraft(r.Context(), chi.URLParam(r, "contract_id"), req.ActorContext.ActorID)
			writeResult(w, c, err)
		})
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("workflow service listening", "port", cfg.Port)
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

func writeResult(w http.ResponseWriter, c domain.Contract, err error) {
	if err != nil {
		httpx.WriteFailure(w, err)
		return
	}
	httpx.WriteJSON(w, 200, map[string]any{"request_id": httpx.NewRequestID(), "contract": c})
}
