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

// DebtHandler обрабатывает запросы к долгам
type DebtHandler struct {
	debtService *service.DebtService
	logger      *logrus.Logger
}

func NewDebtHandler(debtService *service.DebtService, logger *logrus.Logger) *DebtHandler {
	return &DebtHandler{
		debtService: debtService,
		logger:      logger,
	}
}

// RegisterRoutes регистрирует маршруты долгов
func (h *DebtHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.List).Methods("GET")
	router.HandleFunc("", h.Create).Methods("POST")
	router.HandleFunc("/reorder", h.Reorder).Methods("POST")
	router.HandleFunc("/{debtId:[0-9]+}", h.Update).Methods("PUT")
	router.HandleFunc("/{debtId:[0-9]+}", h.Delete).Methods("DELETE")
}

// List возвращает все долги в порядке добавления
func (h *DebtHandler) List(w http.ResponseWriter, r *http.Request) {
	debts, err := h.debtService.List(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Не удалось получить список долгов")
		respondError(w, http.StatusInternalServerError, "failed to load debts")
		return
	}

	responses := make([]model.DebtResponse, 0, len(debts))
	for i := range debts {
		responses = append(responses, debts[i].ToResponse())
	}
	respondJSON(w, http.StatusOK, responses)
}

// Create добавляет новый долг в конец списка
func (h *DebtHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Не удалось декодировать запрос на создание долга")
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	debt, err := h.debtService.Create(r.Context(), req)
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, debt.ToResponse())
}

// Update обрабатывает частичное обновление долга
func (h *DebtHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := debtID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid debt id")
		return
	}

	var req model.UpdateDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Не удалось декодировать запрос на обновление долга")
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	debt, err := h.debtService.Update(r.Context(), id, req)
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, debt.ToResponse())
}

// Delete удаляет долг вместе с его переопределениями платежей
func (h *DebtHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := debtID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid debt id")
		return
	}

	if err := h.debtService.Delete(r.Context(), id); err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reorder переписывает порядок добавления долгов
func (h *DebtHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req model.ReorderDebtsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Не удалось декодировать запрос на изменение порядка")
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	debts, err := h.debtService.Reorder(r.Context(), req)
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	responses := make([]model.DebtResponse, 0, len(debts))
	for i := range debts {
		responses = append(responses, debts[i].ToResponse())
	}
	respondJSON(w, http.StatusOK, responses)
}

func debtID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["debtId"], 10, 64)
}
