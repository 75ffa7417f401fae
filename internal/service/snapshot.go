package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/kvenanzi/debtreduction/internal/model"
	"github.com/kvenanzi/debtreduction/internal/simulation"
)

// SnapshotStore - хранилище сохраненных итогов плановых расчетов
type SnapshotStore interface {
	Create(ctx context.Context, snapshot *model.PlanSnapshot) error
	ListRecent(ctx context.Context, limit int) ([]model.PlanSnapshot, error)
}

const defaultSnapshotLimit = 20

type SnapshotService struct {
	planService  *PlanService
	settingRepo  SettingStore
	snapshotRepo SnapshotStore
	emailSender  *EmailSender
	notifyEmail  string
	logger       *logrus.Logger
}

func NewSnapshotService(
	planService *PlanService,
	settingRepo SettingStore,
	snapshotRepo SnapshotStore,
	emailSender *EmailSender,
	notifyEmail string,
	logger *logrus.Logger,
) *SnapshotService {
	return &SnapshotService{
		planService:  planService,
		settingRepo:  settingRepo,
		snapshotRepo: snapshotRepo,
		emailSender:  emailSender,
		notifyEmail:  notifyEmail,
		logger:       logger,
	}
}

// Capture пересчитывает план и сохраняет его итоги. Вызывается планировщиком
// по расписанию, чтобы история прогресса накапливалась сама.
func (s *SnapshotService) Capture(ctx context.Context) (*model.PlanSnapshot, error) {
	result, err := s.planService.Plan(ctx)
	if err != nil {
		if simulation.IsValidationError(err) {
			s.logger.WithError(err).Warn("Снимок плана пропущен: входные данные невалидны")
			return nil, err
		}
		return nil, err
	}

	setting, err := s.settingRepo.Get(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Ошибка при получении настроек")
		return nil, fmt.Errorf("ошибка получения настроек: %w", err)
	}

	snapshot := &model.PlanSnapshot{
		Strategy:        setting.Strategy,
		TotalMonths:     result.Totals.TotalMonths,
		TotalInterest:   mustDecimal(result.Totals.TotalInterest),
		MinPaymentsSum:  mustDecimal(result.Totals.MinPaymentsSum),
		InitialSnowball: mustDecimal(result.Totals.InitialSnowball),
	}

	if err := s.snapshotRepo.Create(ctx, snapshot); err != nil {
		s.logger.WithError(err).Error("Ошибка при сохранении снимка плана")
		return nil, fmt.Errorf("ошибка сохранения снимка плана: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"snapshotId":  snapshot.ID,
		"totalMonths": snapshot.TotalMonths,
	}).Info("Снимок плана сохранен")

	if s.emailSender != nil && s.notifyEmail != "" {
		go func() {
			if err := s.emailSender.SendSnapshotNotification(s.notifyEmail, snapshot); err != nil {
				s.logger.WithError(err).Warn("Не удалось отправить email уведомление")
			}
		}()
	}

	return snapshot, nil
}

func (s *SnapshotService) ListRecent(ctx context.Context, limit int) ([]model.PlanSnapshot, error) {
	if limit <= 0 {
		limit = defaultSnapshotLimit
	}
	snapshots, err := s.snapshotRepo.ListRecent(ctx, limit)
	if err != nil {
		s.logger.WithError(err).Error("Ошибка при получении снимков плана")
		return nil, fmt.Errorf("ошибка получения снимков плана: %w", err)
	}
	return snapshots, nil
}

// mustDecimal разбирает денежную строку, сформированную движком; формат
// гарантирован, поэтому ошибки здесь означают программную ошибку
func mustDecimal(value string) decimal.Decimal {
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return parsed
}
