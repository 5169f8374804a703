package order

import (
	"errors"
	"math"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrFeeIsNotConstructed = errors.New("Fee must be created via NewFee constructor")

// Fee is the priced breakdown of a delivery. Amounts are whole rupiah.
// Estimated is set when the distances came from the straight-line fallback
// instead of the road-routing service; it is kept for operators and never
// changes the shape of the quote.
type Fee struct {
	d1Fee            int64
	d2Fee            int64
	expressFee       int64
	total            int64
	d1Km             float64
	d2Km             float64
	estimatedMinutes int
	estimated        bool

	guard guard.ConstructorGuard
}

func NewFee(
	d1Fee, d2Fee, expressFee int64,
	d1Km, d2Km float64,
	estimatedMinutes int,
	estimated bool,
) (Fee, error) {
	var errList []error
	if d1Fee < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("d1Fee", d1Fee, 0, "max int64"))
	}
	if d2Fee < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("d2Fee", d2Fee, 0, "max int64"))
	}
	if expressFee < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("expressFee", expressFee, 0, "max int64"))
	}
	if !finiteNonNegative(d1Km) || !finiteNonNegative(d2Km) {
		errList = append(errList, errs.NewValueIsInvalidError("leg distance"))
	}
	if estimatedMinutes < 0 {
		errList = append(errList, errs.NewValueIsInvalidError("estimatedMinutes"))
	}
	if err := errors.Join(errList...); err != nil {
		return Fee{}, err
	}

	return Fee{
		d1Fee:            d1Fee,
		d2Fee:            d2Fee,
		expressFee:       expressFee,
		total:            d1Fee + d2Fee + expressFee,
		d1Km:             d1Km,
		d2Km:             d2Km,
		estimatedMinutes: estimatedMinutes,
		estimated:        estimated,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

func (f Fee) Validate() error {
	return f.guard.Validate(ErrFeeIsNotConstructed)
}

func (f Fee) D1Fee() int64          { return f.d1Fee }
func (f Fee) D2Fee() int64          { return f.d2Fee }
func (f Fee) ExpressFee() int64     { return f.expressFee }
func (f Fee) Total() int64          { return f.total }
func (f Fee) D1Km() float64         { return f.d1Km }
func (f Fee) D2Km() float64         { return f.d2Km }
func (f Fee) EstimatedMinutes() int { return f.estimatedMinutes }
func (f Fee) IsEstimate() bool      { return f.estimated }

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
