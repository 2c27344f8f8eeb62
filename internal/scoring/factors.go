package scoring

import "revoscan/internal/domain"

// Neutral factor score used when a collaborator has no data for a symbol.
const NeutralScore = 5.0

// SentimentScore maps an average headline polarity in [-1, 1] onto the
// 0-10 factor scale, rounded to one decimal.
func SentimentScore(avgPolarity float64) float64 {
	if avgPolarity < -1 {
		avgPolarity = -1
	}
	if avgPolarity > 1 {
		avgPolarity = 1
	}
	return round1((avgPolarity + 1) / 2 * 10)
}

// InsiderScore maps classified insider activity onto the factor scale.
func InsiderScore(activity domain.InsiderActivity) float64 {
	switch activity {
	case domain.InsiderBuying:
		return 8.0
	case domain.InsiderSelling:
		return 2.0
	default:
		return NeutralScore
	}
}

// OptionsScore maps the call share of total open interest onto the factor
// scale. A ratio of 0.3 or below scores 0, 0.8 or above scores 10, with a
// linear ramp between. Callers with no chain data pass ok=false and get
// the neutral score.
func OptionsScore(callRatio float64, ok bool) float64 {
	if !ok {
		return NeutralScore
	}
	score := (callRatio - 0.3) / 0.5 * 10
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return round1(score)
}

// CatalystScore maps the number of days until the next earnings event onto
// the factor scale. Nearer events score higher; events already past score
// low, and an unknown date (ok=false) scores neutral.
func CatalystScore(daysUntil int, ok bool) float64 {
	if !ok {
		return NeutralScore
	}
	switch {
	case daysUntil < 0:
		return 3.0
	case daysUntil <= 7:
		return 9.5
	case daysUntil <= 14:
		return 8.0
	case daysUntil <= 21:
		return 7.0
	case daysUntil <= 30:
		return 5.5
	default:
		return 4.0
	}
}
