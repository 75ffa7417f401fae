package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/kvenanzi/debtreduction/internal/model"
	"github.com/kvenanzi/debtreduction/internal/service"
)

// OverrideHandler обрабатывает запросы к добавкам расписания и
// переопределениям платежей
type OverrideHandler struct {
	overrideService *service.OverrideService
	logger          *logrus.Logger
}

func NewOverrideHandler(overrideService *service.OverrideService, logger *logrus.Logger) *OverrideHandler {
	return &OverrideHandler{
		overrideService: overrideService,
		logger:          logger,
	}
}

// RegisterRoutes регистрирует маршруты переопределений. Хендлер обслуживает
// два ресурса, поэтому принимает общий /api роутер.
func (h *OverrideHandler) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/schedule-overrides", h.ListSchedule).Methods("GET")
	api.HandleFunc("/schedule-overrides/{monthIndex:[0-9]+}", h.UpsertSchedule).Methods("PUT")
	api.HandleFunc("/payment-overrides", h.ListPayments).Methods("GET")
	api.HandleFunc("/payment-overrides/bulk", h.ReplacePayments).Methods("PUT")
	api.HandleFunc("/payment-overrides/{monthIndex:[0-9]+}/{debtId:[0-9]+}", h.DeletePayment).Methods("DELETE")
}

// ListSchedule возвращает все добавки к пулам месяцев
func (h *OverrideHandler) ListSchedule(w http.ResponseWriter, r *http.Request) {
	overrides, err := h.overrideService.ListSchedule(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Не удалось получить добавки к расписанию")
		respondError(w, http.StatusInternalServerError, "failed to load schedule overrides")
		return
	}

	responses := make([]model.ScheduleOverrideResponse, 0, len(overrides))
	for i := range overrides {
		responses = append(responses, overrides[i].ToResponse())
	}
	respondJSON(w, http.StatusOK, responses)
}

// UpsertSchedule сохраняет добавку к пулу месяца; нулевая сумма удаляет ее
func (h *OverrideHandler) UpsertSchedule(w http.ResponseWriter, r *http.Request) {
	monthIndex, err := strconv.Atoi(mux.Vars(r)["monthIndex"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid month index")
		return
	}

	var req model.UpsertScheduleOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Не удалось декодировать запрос на добавку к расписанию")
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.overrideService.UpsertSchedule(r.Context(), monthIndex, req); err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListPayments возвращает переопределения платежей, опционально для
// одного месяца (?monthIndex=N)
func (h *OverrideHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	var monthIndex *int
	if raw := r.URL.Query().Get("monthIndex"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid month index")
			return
		}
		monthIndex = &parsed
	}

	overrides, err := h.overrideService.ListPayments(r.Context(), monthIndex)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось получить переопределения платежей")
		respondError(w, http.StatusInternalServerError, "failed to load payment overrides")
		return
	}

	responses := make([]model.PaymentOverrideResponse, 0, len(overrides))
	for i := range overrides {
		responses = append(responses, overrides[i].ToResponse())
	}
	respondJSON(w, http.StatusOK, responses)
}

// ReplacePayments полностью заменяет переопределения платежей месяца
func (h *OverrideHandler) ReplacePayments(w http.ResponseWriter, r *http.Request) {
	var req model.BulkPaymentOverridesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Не удалось декодировать запрос на замену переопределений")
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	overrides, err := h.overrideService.ReplacePayments(r.Context(), req)
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	responses := make([]model.PaymentOverrideResponse, 0, len(overrides))
	for i := range overrides {
		responses = append(responses, overrides[i].ToResponse())
	}
	respondJSON(w, http.StatusOK, responses)
}

// DeletePayment удаляет одно переопределение платежа
func (h *OverrideHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	monthIndex, err := strconv.Atoi(vars["monthIndex"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid month index")
		return
	}
	debtID, err := strconv.ParseInt(vars["debtId"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid debt id")
		return
	}

	if err := h.overrideService.DeletePayment(r.Context(), monthIndex, debtID); err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
