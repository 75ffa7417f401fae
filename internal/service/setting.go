package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kvenanzi/debtreduction/internal/model"
)

// SettingStore - хранилище настроек планировщика
type SettingStore interface {
	Get(ctx context.Context) (*model.Setting, error)
	Update(ctx context.Context, setting *model.Setting) error
}

type SettingService struct {
	settingRepo SettingStore
	logger      *logrus.Logger
}

func NewSettingService(settingRepo SettingStore, logger *logrus.Logger) *SettingService {
	return &SettingService{settingRepo: settingRepo, logger: logger}
}

func (s *SettingService) Get(ctx context.Context) (*model.Setting, error) {
	setting, err := s.settingRepo.Get(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Ошибка при получении настроек")
		return nil, fmt.Errorf("ошибка получения настроек: %w", err)
	}
	return setting, nil
}

// Update применяет частичное обновление: отсутствующие поля сохраняют
// текущие значения
func (s *SettingService) Update(ctx context.Context, req model.UpdateSettingRequest) (*model.Setting, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setting, err := s.settingRepo.Get(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Ошибка при получении настроек")
		return nil, fmt.Errorf("ошибка получения настроек: %w", err)
	}

	if req.BalanceDate != nil {
		date, err := time.Parse(model.DateLayout, *req.BalanceDate)
		if err != nil {
			return nil, fmt.Errorf("invalid balance date: %w", err)
		}
		setting.BalanceDate = date
	}
	if req.MonthlyBudget != nil {
		setting.MonthlyBudget = *req.MonthlyBudget
	}
	if req.Strategy != nil {
		setting.Strategy = *req.Strategy
	}

	if err := s.settingRepo.Update(ctx, setting); err != nil {
		s.logger.WithError(err).Error("Ошибка при сохранении настроек")
		return nil, fmt.Errorf("ошибка сохранения настроек: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"strategy":      setting.Strategy,
		"monthlyBudget": setting.MonthlyBudget.StringFixed(2),
	}).Info("Настройки планировщика обновлены")

	return setting, nil
}
