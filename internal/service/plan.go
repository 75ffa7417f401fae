package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kvenanzi/debtreduction/internal/model"
	"github.com/kvenanzi/debtreduction/internal/repository"
	"github.com/kvenanzi/debtreduction/internal/simulation"
)

const planCacheTTL = 10 * time.Minute

type PlanService struct {
	settingRepo  SettingStore
	debtRepo     DebtStore
	scheduleRepo ScheduleOverrideStore
	paymentRepo  PaymentOverrideStore
	cache        repository.CacheRepository
	logger       *logrus.Logger
}

func NewPlanService(
	settingRepo SettingStore,
	debtRepo DebtStore,
	scheduleRepo ScheduleOverrideStore,
	paymentRepo PaymentOverrideStore,
	cache repository.CacheRepository,
	logger *logrus.Logger,
) *PlanService {
	return &PlanService{
		settingRepo:  settingRepo,
		debtRepo:     debtRepo,
		scheduleRepo: scheduleRepo,
		paymentRepo:  paymentRepo,
		cache:        cache,
		logger:       logger,
	}
}

// planInputs - полный набор входных данных движка; по нему строится ключ кэша
type planInputs struct {
	Setting           model.Setting            `json:"setting"`
	Debts             []model.Debt             `json:"debts"`
	ScheduleOverrides []model.ScheduleOverride `json:"scheduleOverrides"`
	PaymentOverrides  []model.PaymentOverride  `json:"paymentOverrides"`
}

// Plan загружает входные данные, запускает симуляцию и кэширует результат.
// Движок детерминирован, поэтому одинаковые входы дают одинаковый план и
// кэш по хэшу входов безопасен.
func (s *PlanService) Plan(ctx context.Context) (*model.PlanResult, error) {
	inputs, err := s.loadInputs(ctx)
	if err != nil {
		return nil, err
	}

	key, err := cacheKey(inputs)
	if err == nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			var result model.PlanResult
			if err := json.Unmarshal([]byte(cached), &result); err == nil {
				s.logger.WithField("key", key).Debug("План взят из кэша")
				return &result, nil
			}
			s.logger.Warn("Кэшированный план не удалось разобрать, пересчитываем")
		}
	}

	result, err := simulation.Run(inputs.Setting, inputs.Debts, inputs.ScheduleOverrides, inputs.PaymentOverrides)
	if err != nil {
		// Ошибки валидации входных данных не кэшируем: они относятся к
		// текущему состоянию данных, а не к результату расчета
		if !simulation.IsValidationError(err) {
			s.logger.WithError(err).Error("Ошибка при расчете плана")
		}
		return nil, err
	}

	if key != "" {
		if encoded, err := json.Marshal(result); err == nil {
			s.cache.Set(ctx, key, string(encoded), planCacheTTL)
		}
	}

	return result, nil
}

func (s *PlanService) loadInputs(ctx context.Context) (*planInputs, error) {
	setting, err := s.settingRepo.Get(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Ошибка при получении настроек")
		return nil, fmt.Errorf("ошибка получения настроек: %w", err)
	}

	debts, err := s.debtRepo.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Ошибка при получении списка долгов")
		return nil, fmt.Errorf("ошибка получения списка долгов: %w", err)
	}

	scheduleOverrides, err := s.scheduleRepo.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Ошибка при получении добавок к расписанию")
		return nil, fmt.Errorf("ошибка получения добавок к расписанию: %w", err)
	}

	paymentOverrides, err := s.paymentRepo.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Ошибка при получении переопределений платежей")
		return nil, fmt.Errorf("ошибка получения переопределений платежей: %w", err)
	}

	return &planInputs{
		Setting:           *setting,
		Debts:             debts,
		ScheduleOverrides: scheduleOverrides,
		PaymentOverrides:  paymentOverrides,
	}, nil
}

func cacheKey(inputs *planInputs) (string, error) {
	encoded, err := json.Marshal(inputs)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(encoded)
	return "plan:" + hex.EncodeToString(sum[:]), nil
}
