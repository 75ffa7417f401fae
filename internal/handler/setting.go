package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/kvenanzi/debtreduction/internal/model"
	"github.com/kvenanzi/debtreduction/internal/service"
)

// SettingHandler обрабатывает запросы к настройкам планировщика
type SettingHandler struct {
	settingService *service.SettingService
	logger         *logrus.Logger
}

func NewSettingHandler(settingService *service.SettingService, logger *logrus.Logger) *SettingHandler {
	return &SettingHandler{
		settingService: settingService,
		logger:         logger,
	}
}

// RegisterRoutes регистрирует маршруты настроек
func (h *SettingHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.Get).Methods("GET")
	router.HandleFunc("", h.Update).Methods("PUT")
}

// Get возвращает текущие настройки
func (h *SettingHandler) Get(w http.ResponseWriter, r *http.Request) {
	setting, err := h.settingService.Get(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Не удалось получить настройки")
		respondError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}

	respondJSON(w, http.StatusOK, setting.ToResponse())
}

// Update обрабатывает частичное обновление настроек
func (h *SettingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Не удалось декодировать запрос на обновление настроек")
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	setting, err := h.settingService.Update(r.Context(), req)
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, setting.ToResponse())
}
