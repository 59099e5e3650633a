// Package pricing computes the renter-facing cost breakdown of a booking.
package pricing

import (
	"github.com/shopspring/decimal"

	"rentshare-backend/internal/availability"
)

var (
	ServiceFeeRate   = decimal.RequireFromString("0.12")
	LiabilityFeeRate = decimal.RequireFromString("0.5")
	DeliveryFee      = decimal.NewFromInt(15)
)

// Breakdown is derived entirely from DailyRate, DayCount and Delivery.
type Breakdown struct {
	DayCount     int             `json:"day_count"`
	DailyRate    decimal.Decimal `json:"daily_rate"`
	Delivery     bool            `json:"delivery"`
	RentalFee    decimal.Decimal `json:"rental_fee"`
	ServiceFee   decimal.Decimal `json:"service_fee"`
	LiabilityFee decimal.Decimal `json:"liability_fee"`
	TransportFee decimal.Decimal `json:"transport_fee"`
	Total        decimal.Decimal `json:"total"`
}

// Compute prices dayCount days at dailyRate. Service and liability fees are
// each rounded half-up to whole units before being summed.
// Callers guarantee dayCount >= 1.
func Compute(dailyRate decimal.Decimal, dayCount int, delivery bool) Breakdown {
	rental := dailyRate.Mul(decimal.NewFromInt(int64(dayCount)))
	service := roundHalfUp(rental.Mul(ServiceFeeRate))
	liability := roundHalfUp(rental.Mul(LiabilityFeeRate))

	transport := decimal.Zero
	if delivery {
		transport = DeliveryFee
	}

	return Breakdown{
		DayCount:     dayCount,
		DailyRate:    dailyRate,
		Delivery:     delivery,
		RentalFee:    rental,
		ServiceFee:   service,
		LiabilityFee: liability,
		TransportFee: transport,
		Total:        rental.Add(service).Add(liability).Add(transport),
	}
}

// Quote prices an inclusive date range.
func Quote(dailyRate decimal.Decimal, r availability.Interval, delivery bool) Breakdown {
	return Compute(dailyRate, DayCount(r), delivery)
}

// DayCount is the inclusive span of r, never less than 1.
func DayCount(r availability.Interval) int {
	if n := r.Days(); n > 1 {
		return n
	}
	return 1
}

// Cents converts an amount to the smallest currency unit, as card processors charge it.
func Cents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// decimal.Round goes half away from zero, which is half-up for the
// non-negative amounts priced here.
func roundHalfUp(v decimal.Decimal) decimal.Decimal {
	return v.Round(0)
}
