package usecase

import (
	"context"
	"testing"
	"time"

	"rental-booking/internal/cart"
	"rental-booking/internal/data/entity"
	"rental-booking/internal/data/memstore"
	"rental-booking/internal/data/repository"
	"rental-booking/internal/notification"
	"rental-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendOTP(ctx context.Context, msg notification.OTPMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *mockNotifier) QueueReceipt(r notification.Receipt) {
	m.Called(r)
}

func (m *mockNotifier) QueueRejection(r notification.Rejection) {
	m.Called(r)
}

type mockEmitter struct {
	mock.Mock
}

func (m *mockEmitter) EmitToUser(ctx context.Context, userID, event string, payload any) error {
	return m.Called(ctx, userID, event, payload).Error(0)
}

func testConfig() *utils.Config {
	return &utils.Config{
		Session: utils.SessionConfig{ExpiryHours: 24},
		OTP: utils.OTPConfig{
			ExpiryMinutes: 10,
			Length:        6,
			ResendLimit:   2,
			ResendWindow:  time.Hour,
		},
	}
}

type fixture struct {
	repo     *repository.Repository
	notifier *mockNotifier
	emitter  *mockEmitter
	carts    cart.Store
	svc      *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:     memstore.New(),
		notifier: &mockNotifier{},
		emitter:  &mockEmitter{},
		carts:    cart.NewMemoryStore(time.Hour),
	}
	f.svc = NewService(f.repo, f.carts, f.notifier, f.emitter, testConfig(), zap.NewNop())
	return f
}

func (f *fixture) addUser(t *testing.T, name string, role entity.UserRole) *entity.User {
	t.Helper()
	now := time.Now()
	u := &entity.User{
		BaseNoDelete:  entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		FullName:      name,
		Email:         uuid.NewString()[:8] + "@example.com",
		Role:          role,
		EmailVerified: true,
	}
	require.NoError(t, f.repo.User.Create(context.Background(), u))
	return u
}

func (f *fixture) addEquipment(t *testing.T, name string, price float64, stock int) *entity.Equipment {
	t.Helper()
	e := &entity.Equipment{
		BaseNoDelete:      entity.BaseNoDelete{ID: uuid.New(), CreatedAt: time.Now()},
		Name:              name,
		Category:          "Audio",
		PricePerDay:       price,
		AvailableQuantity: stock,
		Available:         true,
	}
	require.NoError(t, f.repo.Equipment.Create(context.Background(), e))
	return e
}

func (f *fixture) addPackage(t *testing.T, name string, price float64, stock int) *entity.Package {
	t.Helper()
	p := &entity.Package{
		BaseNoDelete:      entity.BaseNoDelete{ID: uuid.New(), CreatedAt: time.Now()},
		Name:              name,
		Price:             price,
		Category:          entity.DefaultPackageCategory,
		AvailableQuantity: stock,
	}
	require.NoError(t, f.repo.Package.Create(context.Background(), p))
	return p
}

func (f *fixture) equipmentStock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	e, err := f.repo.Equipment.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, e)
	return e.AvailableQuantity
}

func (f *fixture) packageStock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	p, err := f.repo.Package.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.AvailableQuantity
}

func (f *fixture) booking(t *testing.T, id string) *entity.Booking {
	t.Helper()
	b, err := f.repo.Booking.FindByID(context.Background(), uuid.MustParse(id))
	require.NoError(t, err)
	require.NotNil(t, b)
	return b
}
