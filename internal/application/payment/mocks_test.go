package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/retailcore/backend/internal/domain/payment"
)

// MockGroupRepository is a mock implementation of payment.GroupRepository
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.PaymentGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentGroup), args.Error(1)
}

func (m *MockGroupRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*payment.PaymentGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentGroup), args.Error(1)
}

func (m *MockGroupRepository) Save(ctx context.Context, group *payment.PaymentGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

// MockPaymentRepository is a mock implementation of payment.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, filter payment.PaymentFilter) ([]*payment.Payment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindForFlowHistory(ctx context.Context) ([]*payment.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Payment), args.Error(1)
}

// MockTillRepository is a mock implementation of payment.TillRepository.
// WithStationLock records the call and runs fn inline, standing in for
// the advisory lock.
type MockTillRepository struct {
	mock.Mock
}

func (m *MockTillRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Till, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Till), args.Error(1)
}

func (m *MockTillRepository) FindOpenByStation(ctx context.Context, stationID uuid.UUID) (*payment.Till, error) {
	args := m.Called(ctx, stationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Till), args.Error(1)
}

func (m *MockTillRepository) Save(ctx context.Context, till *payment.Till) error {
	args := m.Called(ctx, till)
	return args.Error(0)
}

func (m *MockTillRepository) WithStationLock(ctx context.Context, stationID uuid.UUID, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, stationID)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}
