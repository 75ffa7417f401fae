package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/kvenanzi/debtreduction/internal/model"
)

// ScheduleOverrideStore - хранилище разовых добавок к месячному пулу
type ScheduleOverrideStore interface {
	List(ctx context.Context) ([]model.ScheduleOverride, error)
	Upsert(ctx context.Context, monthIndex int, amount decimal.Decimal) error
	Delete(ctx context.Context, monthIndex int) error
}

// PaymentOverrideStore - хранилище переопределений платежей по долгам
type PaymentOverrideStore interface {
	List(ctx context.Context) ([]model.PaymentOverride, error)
	ListByMonth(ctx context.Context, monthIndex int) ([]model.PaymentOverride, error)
	ReplaceMonth(ctx context.Context, monthIndex int, entries []model.PaymentOverride) error
	Delete(ctx context.Context, monthIndex int, debtID int64) error
}

type OverrideService struct {
	scheduleRepo ScheduleOverrideStore
	paymentRepo  PaymentOverrideStore
	debtRepo     DebtStore
	logger       *logrus.Logger
}

func NewOverrideService(
	scheduleRepo ScheduleOverrideStore,
	paymentRepo PaymentOverrideStore,
	debtRepo DebtStore,
	logger *logrus.Logger,
) *OverrideService {
	return &OverrideService{
		scheduleRepo: scheduleRepo,
		paymentRepo:  paymentRepo,
		debtRepo:     debtRepo,
		logger:       logger,
	}
}

func (s *OverrideService) ListSchedule(ctx context.Context) ([]model.ScheduleOverride, error) {
	overrides, err := s.scheduleRepo.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Ошибка при получении добавок к расписанию")
		return nil, fmt.Errorf("ошибка получения добавок к расписанию: %w", err)
	}
	return overrides, nil
}

// UpsertSchedule сохраняет добавку к пулу месяца; нулевая сумма удаляет ее
func (s *OverrideService) UpsertSchedule(ctx context.Context, monthIndex int, req model.UpsertScheduleOverrideRequest) error {
	if monthIndex < 1 {
		return fmt.Errorf("monthIndex must be >= 1")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	if err := s.scheduleRepo.Upsert(ctx, monthIndex, req.AdditionalAmount); err != nil {
		s.logger.WithError(err).Errorf("Ошибка при сохранении добавки для месяца %d", monthIndex)
		return fmt.Errorf("ошибка сохранения добавки: %w", err)
	}

	return nil
}

// ListPayments возвращает переопределения платежей, опционально только для
// одного месяца
func (s *OverrideService) ListPayments(ctx context.Context, monthIndex *int) ([]model.PaymentOverride, error) {
	var overrides []model.PaymentOverride
	var err error
	if monthIndex != nil {
		overrides, err = s.paymentRepo.ListByMonth(ctx, *monthIndex)
	} else {
		overrides, err = s.paymentRepo.List(ctx)
	}
	if err != nil {
		s.logger.WithError(err).Error("Ошибка при получении переопределений платежей")
		return nil, fmt.Errorf("ошибка получения переопределений платежей: %w", err)
	}
	return overrides, nil
}

// ReplacePayments полностью заменяет набор переопределений платежей месяца.
// Ссылки на несуществующие долги отклоняются до записи.
func (s *OverrideService) ReplacePayments(ctx context.Context, req model.BulkPaymentOverridesRequest) ([]model.PaymentOverride, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	known, err := s.debtRepo.ExistingIDs(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Ошибка при проверке долгов")
		return nil, fmt.Errorf("ошибка проверки долгов: %w", err)
	}

	entries := make([]model.PaymentOverride, 0, len(req.Overrides))
	for _, entry := range req.Overrides {
		if _, ok := known[entry.DebtID]; !ok {
			return nil, fmt.Errorf("debt %d not found", entry.DebtID)
		}
		entries = append(entries, model.PaymentOverride{
			MonthIndex: req.MonthIndex,
			DebtID:     entry.DebtID,
			Amount:     *entry.Amount,
			Note:       entry.Note,
		})
	}

	if err := s.paymentRepo.ReplaceMonth(ctx, req.MonthIndex, entries); err != nil {
		s.logger.WithError(err).Errorf("Ошибка при замене переопределений месяца %d", req.MonthIndex)
		return nil, err
	}

	return s.paymentRepo.ListByMonth(ctx, req.MonthIndex)
}

func (s *OverrideService) DeletePayment(ctx context.Context, monthIndex int, debtID int64) error {
	if err := s.paymentRepo.Delete(ctx, monthIndex, debtID); err != nil {
		return err
	}
	s.logger.Infof("Удалено переопределение платежа: месяц %d, долг %d", monthIndex, debtID)
	return nil
}
