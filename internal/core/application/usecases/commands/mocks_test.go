package commands_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetFirstInCreatedStatus(ctx context.Context) (*order.Order, error) {
	args := m.Called(ctx)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetAllWithOutstandingCOD(ctx context.Context, courierID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, courierID)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*courier.Courier)
	return c, args.Error(1)
}

func (m *MockCourierRepository) GetAllFree(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	couriers, _ := args.Get(0).([]*courier.Courier)
	return couriers, args.Error(1)
}

func (m *MockCourierRepository) GetAllOnline(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	couriers, _ := args.Get(0).([]*courier.Courier)
	return couriers, args.Error(1)
}

// MockUoW satisfies every unit of work flavour the handlers ask for.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockCourierUoWFactory struct{ mock.Mock }

func (m *MockCourierUoWFactory) Create() commands.CourierUoW {
	args := m.Called()
	return args.Get(0).(commands.CourierUoW)
}

type MockQuoter struct{ mock.Mock }

func (m *MockQuoter) Quote(ctx context.Context, pickup, dropoff kernel.Location, tier order.ServiceTier) (order.Fee, error) {
	args := m.Called(ctx, pickup, dropoff, tier)
	return args.Get(0).(order.Fee), args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) PublishAuditEntries(
	ctx context.Context,
	orderID kernel.UUID,
	status order.Status,
	entries []order.AuditEntry,
) error {
	args := m.Called(ctx, orderID, status, entries)
	return args.Error(0)
}

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func mustLocation(t *testing.T, lat, lng float64) kernel.Location {
	t.Helper()
	l, err := kernel.NewLocation(lat, lng)
	require.NoError(t, err)
	return l
}

func mustActor(t *testing.T, role kernel.Role, id string) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(role, id)
	require.NoError(t, err)
	return a
}

func mustFee(t *testing.T) order.Fee {
	t.Helper()
	fee, err := order.NewFee(2000, 3000, 0, 2, 3, 11, false)
	require.NoError(t, err)
	return fee
}

// newStoredOrder builds an order in CREATED as a repository would return it.
func newStoredOrder(t *testing.T, cod, advance int64) *order.Order {
	t.Helper()
	sender, err := order.NewSender("Toko Bu Sari", "+6281234567890")
	require.NoError(t, err)
	pickup, err := order.NewStop("Jl. Sabang 5", "", mustLocation(t, -6.1754, 106.8272))
	require.NoError(t, err)
	dropoff, err := order.NewStop("Jl. Kemang 9", "", mustLocation(t, -6.2607, 106.8137))
	require.NoError(t, err)
	codValue, err := order.NewCOD(cod)
	require.NoError(t, err)
	advanceValue, err := order.NewCashAdvance(advance)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), testNow, order.Draft{
		Sender: sender, Pickup: pickup, Dropoff: dropoff,
		Tier: order.TierRegular, Fee: mustFee(t), CashAdvance: advanceValue, COD: codValue,
	})
	require.NoError(t, err)
	o.MarkPersisted(1)
	return o
}

func newOnlineCourier(t *testing.T, lat, lng float64) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), "Budi", "+6281311112222")
	require.NoError(t, err)
	require.NoError(t, c.UpdateLocation(mustLocation(t, lat, lng), testNow))
	return c
}

func validOrderRequest() commands.OrderRequest {
	return commands.OrderRequest{
		SenderName:    "Toko Bu Sari",
		SenderContact: "+6281234567890",
		Pickup:        commands.StopInput{Address: "Jl. Sabang 5", Lat: -6.1754, Lng: 106.8272},
		Dropoff:       commands.StopInput{Address: "Jl. Kemang 9", Lat: -6.2607, Lng: 106.8137},
		Tier:          "EXPRESS",
		COD:           150000,
		Notes:         "  fragile  ",
	}
}

// reload returns a fresh copy of o, as a second repository read would.
func reload(t *testing.T, o *order.Order) *order.Order {
	t.Helper()
	fresh, err := order.RestoreOrder(o.Snapshot())
	require.NoError(t, err)
	return fresh
}

// expectSavedMutation wires a single load, save and commit of o.
func expectSavedMutation(t *testing.T, uow *MockUoW, repo *MockOrderRepository, o *order.Order) *MockUoWFactory {
	t.Helper()
	ctx := t.Context()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	repo.On("Update", ctx, o).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()
	return factory
}
