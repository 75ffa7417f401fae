package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kvenanzi/debtreduction/internal/model"
)

type fakeSettingStore struct {
	setting model.Setting
	updates int
}

func (s *fakeSettingStore) Get(context.Context) (*model.Setting, error) {
	copied := s.setting
	return &copied, nil
}

func (s *fakeSettingStore) Update(_ context.Context, setting *model.Setting) error {
	s.setting = *setting
	s.updates++
	return nil
}

type fakeDebtStore struct {
	debts  []model.Debt
	nextID int64
	lists  int
}

func (s *fakeDebtStore) List(context.Context) ([]model.Debt, error) {
	s.lists++
	out := make([]model.Debt, len(s.debts))
	copy(out, s.debts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *fakeDebtStore) GetByID(_ context.Context, id int64) (*model.Debt, error) {
	for i := range s.debts {
		if s.debts[i].ID == id {
			copied := s.debts[i]
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("debt not found")
}

func (s *fakeDebtStore) Create(_ context.Context, debt *model.Debt) error {
	s.nextID++
	debt.ID = s.nextID
	debt.Position = len(s.debts) + 1
	s.debts = append(s.debts, *debt)
	return nil
}

func (s *fakeDebtStore) Update(_ context.Context, debt *model.Debt) error {
	for i := range s.debts {
		if s.debts[i].ID == debt.ID {
			s.debts[i] = *debt
			return nil
		}
	}
	return fmt.Errorf("debt not found")
}

func (s *fakeDebtStore) Delete(_ context.Context, id int64) error {
	for i := range s.debts {
		if s.debts[i].ID == id {
			s.debts = append(s.debts[:i], s.debts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("debt not found")
}

func (s *fakeDebtStore) Reorder(_ context.Context, idsInOrder []int64) error {
	for position, id := range idsInOrder {
		for i := range s.debts {
			if s.debts[i].ID == id {
				s.debts[i].Position = position
			}
		}
	}
	return nil
}

func (s *fakeDebtStore) ExistingIDs(context.Context) (map[int64]struct{}, error) {
	ids := make(map[int64]struct{}, len(s.debts))
	for i := range s.debts {
		ids[s.debts[i].ID] = struct{}{}
	}
	return ids, nil
}

type fakeScheduleStore struct {
	overrides map[int]decimal.Decimal
}

func newFakeScheduleStore() *fakeScheduleStore {
	return &fakeScheduleStore{overrides: make(map[int]decimal.Decimal)}
}

func (s *fakeScheduleStore) List(context.Context) ([]model.ScheduleOverride, error) {
	months := make([]int, 0, len(s.overrides))
	for month := range s.overrides {
		months = append(months, month)
	}
	sort.Ints(months)
	out := make([]model.ScheduleOverride, 0, len(months))
	for _, month := range months {
		out = append(out, model.ScheduleOverride{MonthIndex: month, AdditionalAmount: s.overrides[month]})
	}
	return out, nil
}

func (s *fakeScheduleStore) Upsert(_ context.Context, monthIndex int, amount decimal.Decimal) error {
	if amount.IsZero() {
		delete(s.overrides, monthIndex)
		return nil
	}
	s.overrides[monthIndex] = amount
	return nil
}

func (s *fakeScheduleStore) Delete(_ context.Context, monthIndex int) error {
	delete(s.overrides, monthIndex)
	return nil
}

type fakePaymentStore struct {
	overrides []model.PaymentOverride
}

func (s *fakePaymentStore) List(context.Context) ([]model.PaymentOverride, error) {
	out := make([]model.PaymentOverride, len(s.overrides))
	copy(out, s.overrides)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MonthIndex != out[j].MonthIndex {
			return out[i].MonthIndex < out[j].MonthIndex
		}
		return out[i].DebtID < out[j].DebtID
	})
	return out, nil
}

func (s *fakePaymentStore) ListByMonth(ctx context.Context, monthIndex int) ([]model.PaymentOverride, error) {
	all, _ := s.List(ctx)
	out := make([]model.PaymentOverride, 0)
	for _, override := range all {
		if override.MonthIndex == monthIndex {
			out = append(out, override)
		}
	}
	return out, nil
}

func (s *fakePaymentStore) ReplaceMonth(_ context.Context, monthIndex int, entries []model.PaymentOverride) error {
	kept := s.overrides[:0]
	for _, override := range s.overrides {
		if override.MonthIndex != monthIndex {
			kept = append(kept, override)
		}
	}
	s.overrides = append(kept, entries...)
	return nil
}

func (s *fakePaymentStore) Delete(_ context.Context, monthIndex int, debtID int64) error {
	for i, override := range s.overrides {
		if override.MonthIndex == monthIndex && override.DebtID == debtID {
			s.overrides = append(s.overrides[:i], s.overrides[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("override not found")
}

type countingCache struct {
	entries map[string]string
	hits    int
	sets    int
}

func newCountingCache() *countingCache {
	return &countingCache{entries: make(map[string]string)}
}

func (c *countingCache) Get(_ context.Context, key string) (string, bool) {
	value, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return value, ok
}

func (c *countingCache) Set(_ context.Context, key string, value string, _ time.Duration) {
	c.entries[key] = value
	c.sets++
}
