package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/kvenanzi/debtreduction/internal/model"
)

// DebtStore - хранилище долгов
type DebtStore interface {
	List(ctx context.Context) ([]model.Debt, error)
	GetByID(ctx context.Context, id int64) (*model.Debt, error)
	Create(ctx context.Context, debt *model.Debt) error
	Update(ctx context.Context, debt *model.Debt) error
	Delete(ctx context.Context, id int64) error
	Reorder(ctx context.Context, idsInOrder []int64) error
	ExistingIDs(ctx context.Context) (map[int64]struct{}, error)
}

type DebtService struct {
	debtRepo DebtStore
	logger   *logrus.Logger
}

func NewDebtService(debtRepo DebtStore, logger *logrus.Logger) *DebtService {
	return &DebtService{debtRepo: debtRepo, logger: logger}
}

func (s *DebtService) List(ctx context.Context) ([]model.Debt, error) {
	debts, err := s.debtRepo.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Ошибка при получении списка долгов")
		return nil, fmt.Errorf("ошибка получения списка долгов: %w", err)
	}
	return debts, nil
}

func (s *DebtService) Create(ctx context.Context, req model.CreateDebtRequest) (*model.Debt, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	debt := &model.Debt{
		Creditor:       req.Creditor,
		Balance:        *req.Balance,
		APR:            *req.APR,
		MinimumPayment: *req.MinimumPayment,
		CustomPriority: req.CustomPriority,
	}

	if err := s.debtRepo.Create(ctx, debt); err != nil {
		s.logger.WithError(err).Error("Ошибка при создании долга")
		return nil, fmt.Errorf("ошибка создания долга: %w", err)
	}

	s.logger.Infof("Создан долг %d (%s)", debt.ID, debt.Creditor)
	return debt, nil
}

// Update применяет частичное обновление долга. Явный null в customPriority
// сбрасывает приоритет.
func (s *DebtService) Update(ctx context.Context, id int64, req model.UpdateDebtRequest) (*model.Debt, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	debt, err := s.debtRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Creditor != nil {
		debt.Creditor = *req.Creditor
	}
	if req.Balance != nil {
		debt.Balance = *req.Balance
	}
	if req.APR != nil {
		debt.APR = *req.APR
	}
	if req.MinimumPayment != nil {
		debt.MinimumPayment = *req.MinimumPayment
	}
	if req.CustomPrioritySet {
		debt.CustomPriority = req.CustomPriority
	}

	if err := s.debtRepo.Update(ctx, debt); err != nil {
		s.logger.WithError(err).Errorf("Ошибка при обновлении долга %d", id)
		return nil, err
	}

	return debt, nil
}

func (s *DebtService) Delete(ctx context.Context, id int64) error {
	if err := s.debtRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Infof("Удален долг %d", id)
	return nil
}

// Reorder переписывает порядок добавления долгов по переданному списку id
func (s *DebtService) Reorder(ctx context.Context, req model.ReorderDebtsRequest) ([]model.Debt, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.debtRepo.Reorder(ctx, req.IDsInOrder); err != nil {
		s.logger.WithError(err).Error("Ошибка при изменении порядка долгов")
		return nil, fmt.Errorf("ошибка изменения порядка долгов: %w", err)
	}

	return s.List(ctx)
}
