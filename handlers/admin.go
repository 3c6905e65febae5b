package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"reactboard/db"
	"reactboard/middleware"
	"reactboard/usecases"
)

// AdminHandler exposes the operational HTTP surface: liveness, a manual
// backfill trigger for when a guild needs re-reconciliation, and a progress
// view over the checkpoints.
type AdminHandler struct {
	reactionsUseCase usecases.ReactionsUseCaseInterface
	checkpointsRepo  *db.PostgresBackfillCheckpointsRepository
	alertMiddleware  *middleware.ErrorAlertMiddleware

	// backfillCtx bounds triggered backfill runs; cancelled on shutdown.
	backfillCtx context.Context
}

func NewAdminHandler(
	backfillCtx context.Context,
	reactionsUseCase usecases.ReactionsUseCaseInterface,
	checkpointsRepo *db.PostgresBackfillCheckpointsRepository,
	alertMiddleware *middleware.ErrorAlertMiddleware,
) *AdminHandler {
	return &AdminHandler{
		reactionsUseCase: reactionsUseCase,
		checkpointsRepo:  checkpointsRepo,
		alertMiddleware:  alertMiddleware,
		backfillCtx:      backfillCtx,
	}
}

// RegisterRoutes attaches the admin endpoints to the router.
func (h *AdminHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HealthHandler).Methods("GET")
	router.HandleFunc("/backfill/{guildID}", h.TriggerBackfillHandler).Methods("POST")
	router.HandleFunc("/backfill/{guildID}", h.BackfillStatusHandler).Methods("GET")
}

func (h *AdminHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// TriggerBackfillHandler starts a backfill run for one guild in the
// background and returns immediately.
func (h *AdminHandler) TriggerBackfillHandler(w http.ResponseWriter, r *http.Request) {
	guildID := mux.Vars(r)["guildID"]
	if guildID == "" {
		http.Error(w, "guildID is required", http.StatusBadRequest)
		return
	}

	log.Printf("📋 Received manual backfill trigger for guild %s", guildID)

	go func() {
		_ = h.alertMiddleware.WrapBackgroundTask("ManualBackfill "+guildID, func() error {
			return h.reactionsUseCase.TriggerBackfill(h.backfillCtx, guildID)
		})()
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{
		"status":   "backfill started",
		"guild_id": guildID,
	})
}

// BackfillStatusHandler reports per-channel backfill progress for one guild.
func (h *AdminHandler) BackfillStatusHandler(w http.ResponseWriter, r *http.Request) {
	guildID := mux.Vars(r)["guildID"]
	if guildID == "" {
		http.Error(w, "guildID is required", http.StatusBadRequest)
		return
	}

	checkpoints, err := h.checkpointsRepo.GetCheckpointsByGuildID(r.Context(), guildID)
	if err != nil {
		log.Printf("❌ Failed to fetch backfill checkpoints for guild %s: %v", guildID, err)
		http.Error(w, "failed to fetch backfill status", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"guild_id":    guildID,
		"checkpoints": checkpoints,
	})
}
