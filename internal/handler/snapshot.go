package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/kvenanzi/debtreduction/internal/model"
	"github.com/kvenanzi/debtreduction/internal/service"
)

// SnapshotHandler обрабатывает запросы к истории снимков плана
type SnapshotHandler struct {
	snapshotService *service.SnapshotService
	logger          *logrus.Logger
}

func NewSnapshotHandler(snapshotService *service.SnapshotService, logger *logrus.Logger) *SnapshotHandler {
	return &SnapshotHandler{
		snapshotService: snapshotService,
		logger:          logger,
	}
}

// RegisterRoutes регистрирует маршрут снимков
func (h *SnapshotHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.List).Methods("GET")
}

// List возвращает последние снимки плана (?limit=N)
func (h *SnapshotHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	snapshots, err := h.snapshotService.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось получить снимки плана")
		respondError(w, http.StatusInternalServerError, "failed to load snapshots")
		return
	}

	responses := make([]model.PlanSnapshotResponse, 0, len(snapshots))
	for i := range snapshots {
		responses = append(responses, snapshots[i].ToResponse())
	}
	respondJSON(w, http.StatusOK, responses)
}
