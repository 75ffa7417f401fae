package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/kvenanzi/debtreduction/internal/service"
	"github.com/kvenanzi/debtreduction/internal/simulation"
)

// PlanHandler обрабатывает запрос расчета плана погашения
type PlanHandler struct {
	planService *service.PlanService
	logger      *logrus.Logger
}

func NewPlanHandler(planService *service.PlanService, logger *logrus.Logger) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		logger:      logger,
	}
}

// RegisterRoutes регистрирует маршрут симуляции
func (h *PlanHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.Simulate).Methods("GET")
}

// Simulate запускает симуляцию над сохраненными данными. Ошибки валидации
// входных данных (неизвестная стратегия, недостаточный бюджет, превышение
// горизонта) возвращаются клиенту как 400.
func (h *PlanHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	result, err := h.planService.Plan(r.Context())
	if err != nil {
		if simulation.IsValidationError(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.WithError(err).Error("Не удалось рассчитать план")
		respondError(w, http.StatusInternalServerError, "failed to compute plan")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
