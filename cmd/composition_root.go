package cmd

import (
	"errors"
	"log/slog"

	httpin "dispatch/internal/adapters/in/http"
	kafkain "dispatch/internal/adapters/in/kafka"
	"dispatch/internal/adapters/out/geo"
	kafkaout "dispatch/internal/adapters/out/kafka"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tariff"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	pricing    *services.PricingEngine
	publisher  ports.OrderEventPublisher
	closers    []func() error
	logger     *slog.Logger
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	root := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
	}

	pricing, err := root.newPricingEngine()
	if err != nil {
		return nil, err
	}
	root.pricing = pricing

	// A nil *AuditPublisher stored in the interface would not compare equal
	// to nil, so the field is only assigned when Kafka is configured.
	if cfg.KafkaEnabled() {
		publisher := kafkaout.NewAuditPublisher(cfg.KafkaBrokers, cfg.KafkaOrderChangedTopic)
		root.publisher = publisher
		root.closers = append(root.closers, publisher.Close)
	}

	return root, nil
}

func (c *CompositionRoot) newPricingEngine() (*services.PricingEngine, error) {
	t, err := tariff.NewTariff(c.cfg.Rates)
	if err != nil {
		return nil, err
	}
	depot, err := kernel.NewLocation(c.cfg.DepotLat, c.cfg.DepotLng)
	if err != nil {
		return nil, err
	}

	var distances ports.DistanceProvider = geo.NewHaversineProvider(c.cfg.SecondsPerKm)
	if c.cfg.OSRMURL != "" {
		osrm, err := geo.NewOSRMClient(c.cfg.OSRMURL, nil)
		if err != nil {
			return nil, err
		}
		distances = geo.NewFallbackProvider(osrm, distances, c.cfg.OSRMTimeout, c.logger)
	}

	return services.NewPricingEngine(t, depot, distances)
}

// Close releases connections held by outbound adapters.
func (c *CompositionRoot) Close() error {
	var errList []error
	for _, closeFn := range c.closers {
		errList = append(errList, closeFn())
	}
	return errors.Join(errList...)
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderUoW() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) courierUoW() commands.CourierUoWFactory {
	return FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() *commands.CreateOrderCommandHandler {
	h := commands.NewCreateOrderCommandHandler(c.orderUoW(), c.pricing)
	return &h
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.uow(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateAssignCourierCommandHandler() commands.AssignCourierCommandHandler {
	return commands.NewAssignCourierCommandHandler(c.uow(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateAttachProofCommandHandler() commands.AttachProofCommandHandler {
	return commands.NewAttachProofCommandHandler(c.uow(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateSettleOrderCommandHandler() commands.SettleOrderCommandHandler {
	return commands.NewSettleOrderCommandHandler(c.uow(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateCollectCourierCODCommandHandler() commands.CollectCourierCODCommandHandler {
	return commands.NewCollectCourierCODCommandHandler(c.uow(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateDispatchOrderCommandHandler() commands.DispatchOrderCommandHandler {
	return commands.NewDispatchOrderCommandHandler(c.uow(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateCreateCourierCommandHandler() *commands.CreateCourierCommandHandler {
	h := commands.NewCreateCourierCommandHandler(c.courierUoW())
	return &h
}

func (c *CompositionRoot) CreateUpdateCourierAvailabilityCommandHandler() commands.UpdateCourierAvailabilityCommandHandler {
	return commands.NewUpdateCourierAvailabilityCommandHandler(c.courierUoW())
}

func (c *CompositionRoot) CreateUpdateCourierLocationCommandHandler() commands.UpdateCourierLocationCommandHandler {
	return commands.NewUpdateCourierLocationCommandHandler(c.courierUoW())
}

func (c *CompositionRoot) CreateMarkStaleCouriersOfflineCommandHandler() *commands.MarkStaleCouriersOfflineCommandHandler {
	h := commands.NewMarkStaleCouriersOfflineCommandHandler(c.courierUoW(), c.logger)
	return &h
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAllCouriersQueryHandler() queries.GetAllCouriersQueryHandler {
	return queries.NewGetAllCouriersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCourierBalanceQueryHandler() queries.GetCourierBalanceQueryHandler {
	return queries.NewGetCourierBalanceQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDeliveryQuoteQueryHandler() queries.GetDeliveryQuoteQueryHandler {
	return queries.NewGetDeliveryQuoteQueryHandler(c.pricing)
}

// HTTPHandlers wires every use case the API exposes.
func (c *CompositionRoot) HTTPHandlers() httpin.Handlers {
	return httpin.Handlers{
		CreateOrder:               c.CreateCreateOrderCommandHandler(),
		ChangeOrderStatus:         c.CreateChangeOrderStatusCommandHandler(),
		AssignCourier:             c.CreateAssignCourierCommandHandler(),
		AttachProof:               c.CreateAttachProofCommandHandler(),
		SettleOrder:               c.CreateSettleOrderCommandHandler(),
		CreateCourier:             c.CreateCreateCourierCommandHandler(),
		UpdateCourierAvailability: c.CreateUpdateCourierAvailabilityCommandHandler(),
		UpdateCourierLocation:     c.CreateUpdateCourierLocationCommandHandler(),
		CollectCourierCOD:         c.CreateCollectCourierCODCommandHandler(),

		ListOrders:        c.CreateListOrdersQueryHandler(),
		GetOrder:          c.CreateGetOrderQueryHandler(),
		GetAllCouriers:    c.CreateGetAllCouriersQueryHandler(),
		GetCourierBalance: c.CreateGetCourierBalanceQueryHandler(),
		GetDeliveryQuote:  c.CreateGetDeliveryQuoteQueryHandler(),
	}
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateDispatchOrderCommandHandler(),
		c.CreateMarkStaleCouriersOfflineCommandHandler(),
		c.cfg.CourierPresenceTTL,
		c.logger,
	)
}

// CreateOrderIntakeConsumer returns nil when Kafka is not configured.
func (c *CompositionRoot) CreateOrderIntakeConsumer() *kafkain.OrderIntakeConsumer {
	if !c.cfg.KafkaEnabled() {
		return nil
	}
	return kafkain.NewOrderIntakeConsumer(
		c.cfg.KafkaBrokers,
		c.cfg.KafkaOrderRequestedTopic,
		c.cfg.KafkaConsumerGroup,
		c.CreateCreateOrderCommandHandler(),
		c.logger,
	)
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
