package scoring

import "revoscan/internal/domain"

// Minimum daily bars before the technical heuristic produces anything
// other than a neutral snapshot.
const minTechnicalBars = 50

const (
	rsiWindow     = 14
	yearWindow    = 252
	rsiLossFloor  = 0.001
	longMAPeriod  = 200
	shortMAPeriod = 50
)

// TechnicalSnapshot is the technical factor read for a symbol: the
// indicator levels behind the score plus the score itself and its label.
type TechnicalSnapshot struct {
	Price       float64 `json:"price"`
	SMA50       float64 `json:"sma50"`
	SMA200      float64 `json:"sma200"`
	RSI         float64 `json:"rsi"`
	AboveSMA50  bool    `json:"aboveSma50"`
	GoldenCross bool    `json:"goldenCross"`
	Score       float64 `json:"score"`
	Signal      string  `json:"signal"`
}

// TechnicalScore reads a daily bar history and produces the technical
// factor snapshot. Fewer than 50 bars yields a neutral snapshot with
// RSI pinned at 50 and score 5.
func TechnicalScore(bars []domain.Bar) TechnicalSnapshot {
	if len(bars) < minTechnicalBars {
		snap := TechnicalSnapshot{RSI: 50, Score: NeutralScore, Signal: "Neutral"}
		if len(bars) > 0 {
			snap.Price = bars[len(bars)-1].Close
		}
		return snap
	}

	closes := domain.Closes(bars)
	n := len(closes)
	price := closes[n-1]

	sma50 := tailMean(closes, shortMAPeriod)
	sma200 := tailMean(closes, n)
	longCrossKnown := n >= longMAPeriod
	if longCrossKnown {
		sma200 = tailMean(closes, longMAPeriod)
	}

	rsi := rollingRSI(closes)

	score := NeutralScore
	aboveSMA50 := price > sma50
	if aboveSMA50 {
		score += 1.5
	}
	goldenCross := longCrossKnown && sma50 > sma200
	if goldenCross {
		score += 1.5
	}
	switch {
	case rsi > 40 && rsi < 70:
		score += 1.0
	case rsi < 30:
		score += 0.5
	case rsi > 70:
		score -= 1.0
	}

	window := n
	if window > yearWindow {
		window = yearWindow
	}
	high := closes[n-window]
	for _, c := range closes[n-window:] {
		if c > high {
			high = c
		}
	}
	if price > 0.95*high {
		score += 1.0
	}

	if volumeSpike(bars) {
		score += 0.5
	}

	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	score = round1(score)

	signal := "Neutral"
	switch {
	case score >= 7:
		signal = "Bullish"
	case score <= 3:
		signal = "Bearish"
	}

	return TechnicalSnapshot{
		Price:       price,
		SMA50:       sma50,
		SMA200:      sma200,
		RSI:         rsi,
		AboveSMA50:  aboveSMA50,
		GoldenCross: goldenCross,
		Score:       score,
		Signal:      signal,
	}
}

// rollingRSI is the simple moving-average flavor of RSI over the last 14
// price changes, used only for the screener snapshot.
func rollingRSI(closes []float64) float64 {
	n := len(closes)
	var gain, loss float64
	for i := n - rsiWindow; i < n; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	gain /= rsiWindow
	loss /= rsiWindow
	if loss < rsiLossFloor {
		loss = rsiLossFloor
	}
	rs := gain / loss
	return 100 - 100/(1+rs)
}

// volumeSpike reports whether 5-day average volume runs more than 1.5x
// the 20-day average.
func volumeSpike(bars []domain.Bar) bool {
	n := len(bars)
	if n < 20 {
		return false
	}
	var v5, v20 float64
	for _, b := range bars[n-5:] {
		v5 += float64(b.Volume)
	}
	for _, b := range bars[n-20:] {
		v20 += float64(b.Volume)
	}
	return v5/5 > 1.5*v20/20
}

func tailMean(vals []float64, window int) float64 {
	tail := vals[len(vals)-window:]
	var sum float64
	for _, v := range tail {
		sum += v
	}
	return sum / float64(window)
}
