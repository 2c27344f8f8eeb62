package provider

import "strings"

// Word lists for headline polarity scoring. Finance-flavored, lower-case,
// matched on whole tokens after punctuation stripping.
var positiveWords = map[string]struct{}{
	"beat": {}, "beats": {}, "boost": {}, "boosts": {}, "bullish": {},
	"buy": {}, "climb": {}, "climbs": {}, "gain": {}, "gains": {},
	"growth": {}, "high": {}, "jump": {}, "jumps": {}, "outperform": {},
	"positive": {}, "profit": {}, "rally": {}, "rallies": {}, "record": {},
	"rise": {}, "rises": {}, "soar": {}, "soars": {}, "strong": {},
	"surge": {}, "surges": {}, "top": {}, "tops": {}, "upgrade": {},
	"upgraded": {}, "upside": {}, "win": {}, "wins": {},
}

var negativeWords = map[string]struct{}{
	"bearish": {}, "crash": {}, "cut": {}, "cuts": {}, "decline": {},
	"declines": {}, "downgrade": {}, "downgraded": {}, "downside": {},
	"drop": {}, "drops": {}, "fall": {}, "falls": {}, "fear": {},
	"fears": {}, "lawsuit": {}, "loss": {}, "losses": {}, "low": {},
	"miss": {}, "misses": {}, "negative": {}, "plunge": {}, "plunges": {},
	"recall": {}, "risk": {}, "sell": {}, "selloff": {}, "sink": {},
	"sinks": {}, "slump": {}, "slumps": {}, "tumble": {}, "tumbles": {},
	"warn": {}, "warning": {}, "warns": {}, "weak": {},
}

// Polarity scores a headline in [-1, 1] by counting positive and negative
// lexicon hits: (pos - neg) / (pos + neg). No hits scores 0.
func Polarity(text string) float64 {
	var pos, neg int
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,:;!?'\"()[]")
		if _, found := positiveWords[tok]; found {
			pos++
			continue
		}
		if _, found := negativeWords[tok]; found {
			neg++
		}
	}
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}

// AveragePolarity returns the mean polarity of scored headlines, with ok
// false when there are none.
func AveragePolarity(polarities []float64) (avg float64, ok bool) {
	if len(polarities) == 0 {
		return 0, false
	}
	var sum float64
	for _, p := range polarities {
		sum += p
	}
	return sum / float64(len(polarities)), true
}
