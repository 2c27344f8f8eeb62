// Package indicator provides pure technical-indicator functions over price
// series. All functions return a slice aligned one-to-one with the input;
// positions inside an indicator's warm-up window are NaN. A value at index i
// is defined iff at least `period` bars up to and including i exist.
package indicator

import (
	"math"

	"revoscan/internal/domain"
)

// lossFloor guards the RSI relative-strength ratio against division by zero
// on loss-free windows.
const lossFloor = 0.001

// SMA computes the trailing simple moving average over the last period
// values. The first period-1 positions are NaN.
func SMA(series []float64, period int) []float64 {
	out := make([]float64, len(series))
	if period <= 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	var sum float64
	for i := range series {
		sum += series[i]
		if i >= period {
			sum -= series[i-period]
		}
		if i < period-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(period)
	}
	return out
}

// RollingStd computes the trailing sample standard deviation (ddof=1) over
// the last period values, using the same window convention as SMA.
func RollingStd(series []float64, period int) []float64 {
	out := make([]float64, len(series))
	for i := range out {
		out[i] = math.NaN()
	}
	if period < 2 {
		return out
	}

	for i := period - 1; i < len(series); i++ {
		window := series[i-period+1 : i+1]
		var mean float64
		for _, v := range window {
			mean += v
		}
		mean /= float64(period)

		var ss float64
		for _, v := range window {
			d := v - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(period-1))
	}
	return out
}

// BollingerBands returns (upper, middle, lower) where middle is the
// period-SMA and the band half-width is stdDev times the trailing rolling
// standard deviation.
func BollingerBands(series []float64, period int, stdDev float64) (upper, middle, lower []float64) {
	middle = SMA(series, period)
	std := RollingStd(series, period)

	upper = make([]float64, len(series))
	lower = make([]float64, len(series))
	for i := range series {
		upper[i] = middle[i] + std[i]*stdDev
		lower[i] = middle[i] - std[i]*stdDev
	}
	return upper, middle, lower
}

// RSI computes Wilder's Relative Strength Index. The average gain/loss are
// seeded with a simple mean over the first period deltas and smoothed
// recursively afterwards. Output is in [0, 100]; the first period positions
// are NaN.
func RSI(series []float64, period int) []float64 {
	out := make([]float64, len(series))
	for i := range out {
		out[i] = math.NaN()
	}
	if period <= 0 || len(series) <= period {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		delta := series[i] - series[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss += -delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(series); i++ {
		delta := series[i] - series[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	rs := avgGain / math.Max(avgLoss, lossFloor)
	return 100 - 100/(1+rs)
}

// EMA computes the exponential moving average with smoothing factor
// 2/(span+1), seeded with the first data point (the adjust=false
// convention). Every position is defined.
func EMA(series []float64, span int) []float64 {
	out := make([]float64, len(series))
	if len(series) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)

	out[0] = series[0]
	for i := 1; i < len(series); i++ {
		out[i] = alpha*series[i] + (1-alpha)*out[i-1]
	}
	return out
}

// MACD returns the MACD line (fast EMA minus slow EMA), its signal line, and
// the histogram (macd minus signal).
func MACD(series []float64, fastSpan, slowSpan, signalSpan int) (macd, signal, hist []float64) {
	fast := EMA(series, fastSpan)
	slow := EMA(series, slowSpan)

	macd = make([]float64, len(series))
	for i := range series {
		macd[i] = fast[i] - slow[i]
	}
	signal = EMA(macd, signalSpan)

	hist = make([]float64, len(series))
	for i := range series {
		hist[i] = macd[i] - signal[i]
	}
	return macd, signal, hist
}

// TrueRange computes the per-bar true range: the greatest of high-low,
// |high-prevClose| and |low-prevClose|. The first bar uses high-low only.
func TrueRange(bars []domain.Bar) []float64 {
	out := make([]float64, len(bars))
	for i := range bars {
		hl := bars[i].High - bars[i].Low
		if i == 0 {
			out[i] = hl
			continue
		}
		pc := bars[i-1].Close
		out[i] = math.Max(hl, math.Max(math.Abs(bars[i].High-pc), math.Abs(bars[i].Low-pc)))
	}
	return out
}

// ATR computes the Average True Range as the period-SMA of the true range.
func ATR(bars []domain.Bar, period int) []float64 {
	return SMA(TrueRange(bars), period)
}

// ROC computes the rate of change as a percentage versus the value lookback
// bars prior. The first lookback positions are NaN.
func ROC(series []float64, lookback int) []float64 {
	out := make([]float64, len(series))
	for i := range series {
		if lookback <= 0 || i < lookback || series[i-lookback] == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = (series[i] - series[i-lookback]) / series[i-lookback] * 100
	}
	return out
}
