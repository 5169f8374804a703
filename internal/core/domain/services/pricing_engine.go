package services

import (
	"context"
	"errors"
	"math"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/tariff"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// PricingEngine turns leg distances into a fee breakdown.
//
// A delivery has two legs: D1 from the depot to the pickup and D2 from the
// pickup to the dropoff. Each leg costs max(minimumLegFee, baseFee +
// perKmRate*km), rounded half-up to whole rupiah. Express orders add the
// express surcharge and same-day orders the same-day surcharge, both reported
// as expressFee.
type PricingEngine struct {
	tariff    tariff.Tariff
	depot     kernel.Location
	distances ports.DistanceProvider
}

func NewPricingEngine(t tariff.Tariff, depot kernel.Location, distances ports.DistanceProvider) (*PricingEngine, error) {
	if err := errors.Join(t.Validate(), depot.Validate()); err != nil {
		return nil, err
	}
	if distances == nil {
		return nil, errs.NewValueIsRequiredError("distances")
	}
	return &PricingEngine{tariff: t, depot: depot, distances: distances}, nil
}

// Price computes the breakdown for already measured legs. It is pure: the same
// inputs always give the same fee.
func (p *PricingEngine) Price(d1Km, d2Km float64, isExpress bool) (order.Fee, error) {
	var surcharge int64
	if isExpress {
		surcharge = p.tariff.ExpressSurcharge()
	}
	return p.price(d1Km, d2Km, surcharge, 0, false)
}

// Quote measures both legs and prices them for tier. When the routing service
// was unavailable the fee is flagged as an estimate; its shape is unchanged.
func (p *PricingEngine) Quote(
	ctx context.Context,
	pickup, dropoff kernel.Location,
	tier order.ServiceTier,
) (order.Fee, error) {
	if err := errors.Join(pickup.Validate(), dropoff.Validate()); err != nil {
		return order.Fee{}, err
	}

	d1, err := p.distances.Distance(ctx, p.depot, pickup)
	if err != nil {
		return order.Fee{}, err
	}
	d2, err := p.distances.Distance(ctx, pickup, dropoff)
	if err != nil {
		return order.Fee{}, err
	}

	minutes := int(math.Ceil((d1.Seconds + d2.Seconds) / 60))
	return p.price(d1.Kilometers(), d2.Kilometers(), p.surcharge(tier), minutes, d1.Estimated || d2.Estimated)
}

func (p *PricingEngine) surcharge(tier order.ServiceTier) int64 {
	switch tier {
	case order.TierExpress:
		return p.tariff.ExpressSurcharge()
	case order.TierSameDay:
		return p.tariff.SameDaySurcharge()
	default:
		return 0
	}
}

func (p *PricingEngine) price(d1Km, d2Km float64, surcharge int64, minutes int, estimated bool) (order.Fee, error) {
	if !validKm(d1Km) || !validKm(d2Km) {
		return order.Fee{}, errs.NewValueIsInvalidError("leg distance")
	}
	return order.NewFee(p.legFee(d1Km), p.legFee(d2Km), surcharge, d1Km, d2Km, minutes, estimated)
}

// validKm reports whether km is a finite, non-negative distance.
func validKm(km float64) bool {
	return !math.IsNaN(km) && !math.IsInf(km, 0) && km >= 0
}

func (p *PricingEngine) legFee(km float64) int64 {
	fee := decimal.NewFromInt(p.tariff.PerKmRate()).
		Mul(decimal.NewFromFloat(km)).
		Add(decimal.NewFromInt(p.tariff.BaseFee())).
		Round(0).
		IntPart()

	return max(fee, p.tariff.MinimumLegFee())
}
