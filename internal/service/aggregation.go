package service

import (
	"github.com/noah-isme/integrity-rating-api/internal/models"
)

// ComputeAggregate derives the displayed rating of an entity from its verified ratings.
// Each rating contributes score*weight/100; the sum is divided by the rating count and
// rounded half-to-even to two decimals. No ratings yields a nil average.
//
// Weights are whole percentage points, so Σ score*weight is the exact sum in hundredths
// and the rounding happens on integers.
func ComputeAggregate(scores []models.WeightedScore) models.Aggregate {
	if len(scores) == 0 {
		return models.Aggregate{}
	}
	var hundredths int64
	for _, s := range scores {
		hundredths += int64(s.Score) * int64(s.Weight)
	}
	avg := float64(divRoundHalfEven(hundredths, int64(len(scores)))) / 100
	return models.Aggregate{TotalRatings: len(scores), AverageRating: &avg}
}

// divRoundHalfEven divides two non-negative integers, breaking ties toward the even quotient.
func divRoundHalfEven(num, den int64) int64 {
	q, r := num/den, num%den
	switch {
	case 2*r > den:
		q++
	case 2*r == den && q%2 == 1:
		q++
	}
	return q
}
