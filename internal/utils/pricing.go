package utils

import "math"

// Tariff prices a paid delivery from the trip distance when the item owner
// has not pre-paid a fixed amount.
type Tariff struct {
	BaseFeeCents int32
	PerKmCents   int32
}

// FareBreakdown details how a delivery fare was computed.
type FareBreakdown struct {
	BaseFeeCents  int32
	DistanceKm    float64
	DistanceCents int32
	TotalCents    int32
}

// Fare computes the gross delivery fare for a trip. Distance is rounded up
// to whole kilometres; a started kilometre is billed in full. Negative
// distances are treated as zero.
func (t Tariff) Fare(distanceKm float64) FareBreakdown {
	if distanceKm < 0 {
		distanceKm = 0
	}
	km := int32(math.Ceil(distanceKm))
	distanceCents := km * t.PerKmCents
	return FareBreakdown{
		BaseFeeCents:  t.BaseFeeCents,
		DistanceKm:    distanceKm,
		DistanceCents: distanceCents,
		TotalCents:    t.BaseFeeCents + distanceCents,
	}
}
