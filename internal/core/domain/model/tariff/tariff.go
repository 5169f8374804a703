// Package tariff holds the price list the pricing engine reads. Rates are
// whole rupiah and come from configuration, never from code.
package tariff

import (
	"errors"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	DefaultBaseFee          int64 = 0
	DefaultPerKmRate        int64 = 1000
	DefaultMinimumLegFee    int64 = 0
	DefaultExpressSurcharge int64 = 2000
	DefaultSameDaySurcharge int64 = 0
)

var ErrTariffIsNotConstructed = errors.New("Tariff must be created via NewTariff constructor")

// Tariff is the rate card for one delivery leg plus the tier surcharges.
type Tariff struct {
	baseFee          int64
	perKmRate        int64
	minimumLegFee    int64
	expressSurcharge int64
	sameDaySurcharge int64

	guard guard.ConstructorGuard
}

// Rates is the raw input for NewTariff.
type Rates struct {
	BaseFee          int64
	PerKmRate        int64
	MinimumLegFee    int64
	ExpressSurcharge int64
	SameDaySurcharge int64
}

// Default returns the rate card used when configuration sets nothing.
func Default() Tariff {
	t, _ := NewTariff(Rates{
		BaseFee:          DefaultBaseFee,
		PerKmRate:        DefaultPerKmRate,
		MinimumLegFee:    DefaultMinimumLegFee,
		ExpressSurcharge: DefaultExpressSurcharge,
		SameDaySurcharge: DefaultSameDaySurcharge,
	})
	return t
}

// NewTariff validates that no rate is negative.
func NewTariff(r Rates) (Tariff, error) {
	var errList []error
	for name, v := range map[string]int64{
		"baseFee":          r.BaseFee,
		"perKmRate":        r.PerKmRate,
		"minimumLegFee":    r.MinimumLegFee,
		"expressSurcharge": r.ExpressSurcharge,
		"sameDaySurcharge": r.SameDaySurcharge,
	} {
		if v < 0 {
			errList = append(errList, errs.NewValueIsOutOfRangeError(name, v, 0, "max int64"))
		}
	}
	if err := errors.Join(errList...); err != nil {
		return Tariff{}, err
	}

	return Tariff{
		baseFee:          r.BaseFee,
		perKmRate:        r.PerKmRate,
		minimumLegFee:    r.MinimumLegFee,
		expressSurcharge: r.ExpressSurcharge,
		sameDaySurcharge: r.SameDaySurcharge,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

func (t Tariff) Validate() error {
	return t.guard.Validate(ErrTariffIsNotConstructed)
}

func (t Tariff) BaseFee() int64          { return t.baseFee }
func (t Tariff) PerKmRate() int64        { return t.perKmRate }
func (t Tariff) MinimumLegFee() int64    { return t.minimumLegFee }
func (t Tariff) ExpressSurcharge() int64 { return t.expressSurcharge }
func (t Tariff) SameDaySurcharge() int64 { return t.sameDaySurcharge }
