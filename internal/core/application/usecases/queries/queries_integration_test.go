package queries_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/courierrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/pgtest"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

type QueriesIntegrationTestSuite struct {
	suite.Suite
	database *pgtest.Database
	orders   *orderrepo.GormOrderRepository
	couriers *courierrepo.GormCourierRepository
	admin    kernel.Actor
	now      time.Time
}

func (suite *QueriesIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database

	suite.admin, err = kernel.NewActor(kernel.RoleAdmin, "ops-1")
	suite.Require().NoError(err)
}

func (suite *QueriesIntegrationTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Terminate(context.Background()))
	}
}

func (suite *QueriesIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
	suite.orders = orderrepo.NewGormOrderRepository(suite.database.DB)
	suite.couriers = courierrepo.NewGormCourierRepository(suite.database.DB)
	suite.now = time.Now().UTC().Truncate(time.Microsecond)
}

func (suite *QueriesIntegrationTestSuite) TestGetAllCouriers_EmptyDatabase_ReturnsEmptySlice() {
	result, err := queries.NewGetAllCouriersQueryHandler(suite.database.DB).
		Handle(context.Background(), queries.NewGetAllCouriersQuery())

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *QueriesIntegrationTestSuite) TestGetAllCouriers_OrderedByNameWithPresence() {
	charlie := suite.saveCourier("Charlie", nil)
	alice := suite.saveCourier("Alice", &[2]float64{-6.2, 106.8})
	bob := suite.saveCourier("Bob", nil)

	result, err := queries.NewGetAllCouriersQueryHandler(suite.database.DB).
		Handle(context.Background(), queries.NewGetAllCouriersQuery())

	suite.Require().NoError(err)
	suite.Require().Len(result, 3)
	suite.Equal([]string{"Alice", "Bob", "Charlie"}, []string{result[0].Name, result[1].Name, result[2].Name})

	suite.True(result[0].ID.IsEqual(alice.ID()))
	suite.True(result[0].Online)
	suite.True(result[0].Active)
	suite.Require().NotNil(result[0].Location)
	suite.InDelta(-6.2, result[0].Location.Lat(), 1e-9)
	suite.Require().NotNil(result[0].LastSeenAt)
	suite.True(suite.now.Equal(*result[0].LastSeenAt))

	suite.True(result[1].ID.IsEqual(bob.ID()))
	suite.False(result[1].Online)
	suite.Nil(result[1].Location)
	suite.Nil(result[1].LastSeenAt)
	suite.True(result[2].ID.IsEqual(charlie.ID()))
}

func (suite *QueriesIntegrationTestSuite) TestGetAllCouriers_ContextCancellation_ReturnsError() {
	suite.saveCourier("Alice", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := queries.NewGetAllCouriersQueryHandler(suite.database.DB).
		Handle(ctx, queries.NewGetAllCouriersQuery())

	suite.Require().Error(err)
	suite.Nil(result)
}

func (suite *QueriesIntegrationTestSuite) TestListOrders_SortsByTierThenAge() {
	regular := suite.saveOrder(order.TierRegular, suite.now.Add(-3*time.Hour), 0, 0)
	express := suite.saveOrder(order.TierExpress, suite.now.Add(-time.Hour), 0, 0)
	sameDay := suite.saveOrder(order.TierSameDay, suite.now.Add(-2*time.Hour), 0, 0)
	olderExpress := suite.saveOrder(order.TierExpress, suite.now.Add(-2*time.Hour), 0, 0)

	result := suite.listOrders("")

	suite.Require().Len(result, 4)
	suite.True(result[0].ID.IsEqual(olderExpress.ID()))
	suite.True(result[1].ID.IsEqual(express.ID()))
	suite.True(result[2].ID.IsEqual(sameDay.ID()))
	suite.True(result[3].ID.IsEqual(regular.ID()))
	suite.Equal(order.Created, result[3].Status)
	suite.Equal("Toko Bu Sari", result[3].SenderName)
	suite.Equal("Jl. Kemang 9", result[3].DropoffAddress)
	suite.Nil(result[3].CourierID)
}

func (suite *QueriesIntegrationTestSuite) TestListOrders_FiltersByStatusIncludingLegacyRows() {
	ctx := context.Background()
	created := suite.saveOrder(order.TierRegular, suite.now, 0, 0)
	legacy := suite.saveOrder(order.TierRegular, suite.now.Add(time.Minute), 0, 0)
	cancelled := suite.saveOrder(order.TierRegular, suite.now, 0, 0)
	suite.Require().NoError(cancelled.ChangeStatus(suite.admin, order.Cancelled, suite.now))
	suite.Require().NoError(suite.orders.Update(ctx, cancelled))
	suite.Require().NoError(suite.database.DB.Exec(
		"UPDATE orders SET status = 'PENDING' WHERE id = ?", legacy.ID().Bytes()).Error)

	result := suite.listOrders("CREATED")

	suite.Require().Len(result, 2)
	suite.True(result[0].ID.IsEqual(created.ID()))
	suite.True(result[1].ID.IsEqual(legacy.ID()))
	suite.Equal(order.Created, result[1].Status)

	result = suite.listOrders("canceled")
	suite.Require().Len(result, 1)
	suite.True(result[0].ID.IsEqual(cancelled.ID()))
}

func (suite *QueriesIntegrationTestSuite) TestListOrders_UnknownStoredStatusFails() {
	o := suite.saveOrder(order.TierRegular, suite.now, 0, 0)
	suite.Require().NoError(suite.database.DB.Exec(
		"UPDATE orders SET status = 'LOST_IN_SPACE' WHERE id = ?", o.ID().Bytes()).Error)
	query, err := queries.NewListOrdersQuery("")
	suite.Require().NoError(err)

	_, err = queries.NewListOrdersQueryHandler(suite.database.DB).Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrCorruptData)
	suite.NotErrorIs(err, errs.ErrValueIsInvalid)
}

func (suite *QueriesIntegrationTestSuite) TestGetOrder_UnknownStoredStatusIsCorruptData() {
	o := suite.saveOrder(order.TierRegular, suite.now, 0, 0)
	suite.Require().NoError(suite.database.DB.Exec(
		"UPDATE orders SET status = 'SHIPPED' WHERE id = ?", o.ID().Bytes()).Error)
	query, err := queries.NewGetOrderQuery(o.ID())
	suite.Require().NoError(err)

	_, err = queries.NewGetOrderQueryHandler(suite.database.DB).Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrCorruptData)
	suite.NotErrorIs(err, errs.ErrValueIsInvalid)
	suite.Contains(err.Error(), "SHIPPED")
}

func (suite *QueriesIntegrationTestSuite) TestGetOrder_ReturnsDetailWithAuditLog() {
	ctx := context.Background()
	c := suite.saveCourier("Budi", &[2]float64{-6.18, 106.83})
	o := suite.saveOrder(order.TierExpress, suite.now, 150000, 20000)
	suite.Require().NoError(o.AssignCourier(suite.admin, c, suite.now))
	suite.Require().NoError(o.ChangeStatus(suite.admin, order.Offered, suite.now))
	suite.Require().NoError(suite.orders.Update(ctx, o))

	query, err := queries.NewGetOrderQuery(o.ID())
	suite.Require().NoError(err)
	detail, err := queries.NewGetOrderQueryHandler(suite.database.DB).Handle(ctx, query)

	suite.Require().NoError(err)
	suite.True(detail.ID.IsEqual(o.ID()))
	suite.Equal(order.Offered, detail.Status)
	suite.Equal(order.TierExpress, detail.Tier)
	suite.Equal("+6281234567890", detail.SenderContact)
	suite.InDelta(-6.1754, detail.Pickup.Location.Lat(), 1e-9)
	suite.Equal("https://maps.example.com/?q=-6.1754,106.8272", detail.Pickup.MapLink)
	suite.Require().NotNil(detail.CourierID)
	suite.True(detail.CourierID.IsEqual(c.ID()))
	suite.Equal(int64(7000), detail.Fee.Total)
	suite.InDelta(3.4, detail.Fee.D2Km, 1e-9)
	suite.Equal(int64(150000), detail.CODAmount)
	suite.Equal(int64(20000), detail.CashAdvance)
	suite.Empty(detail.ProofPhotos)
	suite.Equal(2, detail.Version)

	suite.Require().Len(detail.AuditLog, 2)
	suite.Equal(order.EventCourierAssigned, detail.AuditLog[0].Kind)
	suite.Equal(c.ID().String(), detail.AuditLog[0].Metadata[order.MetaCourierID])
	suite.Equal(order.EventStatusChanged, detail.AuditLog[1].Kind)
	suite.Equal("OFFERED", detail.AuditLog[1].Metadata[order.MetaTo])
	suite.Equal(kernel.RoleAdmin, detail.AuditLog[1].ActorRole)
	suite.Equal("ops-1", detail.AuditLog[1].ActorID)
}

func (suite *QueriesIntegrationTestSuite) TestGetOrder_NotFound() {
	query, err := queries.NewGetOrderQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = queries.NewGetOrderQueryHandler(suite.database.DB).Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) TestGetCourierBalance_SumsOpenMoney() {
	ctx := context.Background()
	c := suite.saveCourier("Budi", nil)
	other := suite.saveCourier("Sari", nil)

	openCOD := suite.saveOrder(order.TierRegular, suite.now, 150000, 0)
	codAndAdvance := suite.saveOrder(order.TierRegular, suite.now, 50000, 25000)
	settled := suite.saveOrder(order.TierRegular, suite.now, 40000, 10000)
	nothing := suite.saveOrder(order.TierRegular, suite.now, 0, 0)
	foreign := suite.saveOrder(order.TierRegular, suite.now, 999999, 0)

	for _, o := range []*order.Order{openCOD, codAndAdvance, settled, nothing} {
		suite.Require().NoError(o.AssignCourier(suite.admin, c, suite.now))
	}
	suite.Require().NoError(foreign.AssignCourier(suite.admin, other, suite.now))
	suite.Require().NoError(settled.MarkCODCollected(suite.admin, suite.now))
	suite.Require().NoError(settled.MarkCashAdvanceReimbursed(suite.admin, suite.now))
	for _, o := range []*order.Order{openCOD, codAndAdvance, settled, nothing, foreign} {
		suite.Require().NoError(suite.orders.Update(ctx, o))
	}

	query, err := queries.NewGetCourierBalanceQuery(c.ID())
	suite.Require().NoError(err)
	balance, err := queries.NewGetCourierBalanceQueryHandler(suite.database.DB).Handle(ctx, query)

	suite.Require().NoError(err)
	suite.True(balance.CourierID.IsEqual(c.ID()))
	suite.Equal(int64(200000), balance.CODOutstanding)
	suite.Equal(int64(25000), balance.AdvanceOwed)
	suite.Equal(2, balance.OpenOrders)
}

func (suite *QueriesIntegrationTestSuite) TestGetCourierBalance_NoOrdersIsZero() {
	c := suite.saveCourier("Budi", nil)
	query, err := queries.NewGetCourierBalanceQuery(c.ID())
	suite.Require().NoError(err)

	balance, err := queries.NewGetCourierBalanceQueryHandler(suite.database.DB).Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Zero(balance.CODOutstanding)
	suite.Zero(balance.AdvanceOwed)
	suite.Zero(balance.OpenOrders)
}

func (suite *QueriesIntegrationTestSuite) TestGetCourierBalance_UnknownCourier() {
	query, err := queries.NewGetCourierBalanceQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = queries.NewGetCourierBalanceQueryHandler(suite.database.DB).Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) listOrders(status string) []queries.ListOrdersQueryResponse {
	query, err := queries.NewListOrdersQuery(status)
	suite.Require().NoError(err)
	result, err := queries.NewListOrdersQueryHandler(suite.database.DB).Handle(context.Background(), query)
	suite.Require().NoError(err)
	return result
}

func (suite *QueriesIntegrationTestSuite) saveCourier(name string, at *[2]float64) *courier.Courier {
	c, err := courier.NewCourier(kernel.NewUUID(), name, "+62800000")
	suite.Require().NoError(err)
	if at != nil {
		location, locErr := kernel.NewLocation(at[0], at[1])
		suite.Require().NoError(locErr)
		suite.Require().NoError(c.UpdateLocation(location, suite.now))
	}
	suite.Require().NoError(suite.couriers.Add(context.Background(), c))
	return c
}

func (suite *QueriesIntegrationTestSuite) saveOrder(
	tier order.ServiceTier,
	createdAt time.Time,
	cod, advance int64,
) *order.Order {
	sender, err := order.NewSender("Toko Bu Sari", "+6281234567890")
	suite.Require().NoError(err)
	pickupLoc, err := kernel.NewLocation(-6.1754, 106.8272)
	suite.Require().NoError(err)
	dropoffLoc, err := kernel.NewLocation(-6.2607, 106.8137)
	suite.Require().NoError(err)
	pickup, err := order.NewStop("Jl. Sabang 5", "https://maps.example.com/?q=-6.1754,106.8272", pickupLoc)
	suite.Require().NoError(err)
	dropoff, err := order.NewStop("Jl. Kemang 9", "", dropoffLoc)
	suite.Require().NoError(err)
	fee, err := order.NewFee(2000, 3000, 2000, 2.1, 3.4, 14, false)
	suite.Require().NoError(err)
	codValue, err := order.NewCOD(cod)
	suite.Require().NoError(err)
	advanceValue, err := order.NewCashAdvance(advance)
	suite.Require().NoError(err)

	o, err := order.NewOrder(kernel.NewUUID(), createdAt, order.Draft{
		Sender: sender, Pickup: pickup, Dropoff: dropoff, Tier: tier, Fee: fee,
		CashAdvance: advanceValue, COD: codValue,
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orders.Add(context.Background(), o))
	return o
}

func TestQueriesIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(QueriesIntegrationTestSuite))
}
