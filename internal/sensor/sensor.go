// Package sensor turns raw sensor-sheet rows into chartable reading series.
// Only one product has a physical soil sensor; every other product gets a
// deterministic noisy derivative of that real series, seeded by product id,
// so a product's chart is identical on every visit.
package sensor

import (
	"math"

	"purechain-store/internal/models"
	"purechain-store/internal/util"

	"go.uber.org/zap"
)

// noisePct is the per-field noise amplitude, in series field order. The order
// doubles as the bias draw order and must never change: reordering reseeds
// every product's chart.
var noisePct = [10]float64{
	0.12, // N
	0.10, // P
	0.12, // K
	0.18, // soil moisture
	0.08, // gas
	0.40, // rate N
	0.40, // rate P
	0.40, // rate K
	0.40, // rate soil moisture
	0.40, // rate gas
}

func metricPtrs(r *models.SensorReading) [10]*float64 {
	return [10]*float64{
		&r.N, &r.P, &r.K, &r.SoilMoisture, &r.Gas,
		&r.RateN, &r.RateP, &r.RateK, &r.RateSoilMoisture, &r.RateGas,
	}
}

// mulberry32 is a 32-bit seeded generator producing values in [0,1). It is
// pinned bit-for-bit because generated series must be reproducible across
// runs and platforms; do not swap it for math/rand.
type mulberry32 struct {
	state uint32
}

func (m *mulberry32) next() float64 {
	m.state += 0x6D2B79F5
	t := m.state
	t = (t ^ (t >> 15)) * (t | 1)
	t = (t + (t^(t>>7))*(t|61)) ^ t
	return float64(t^(t>>14)) / 4294967296.0
}

// seedFromID hashes a product id into a generator seed.
func seedFromID(id string) uint32 {
	h := int64(7)
	for _, c := range id {
		h = h*31 + int64(c)
	}
	return uint32(h)
}

// AdaptRow normalizes one raw sensor row. Rows may carry either a combined
// "Date and Time" or separate columns; numeric cells default to 0.
func AdaptRow(raw models.SensorRow) models.SensorReading {
	dt := raw.DateTime
	if dt == "" {
		dt = raw.Date + " " + raw.Time
	}
	return models.SensorReading{
		DateTime:         dt,
		N:                raw.N.Float(),
		P:                raw.P.Float(),
		K:                raw.K.Float(),
		SoilMoisture:     raw.SoilMoisture.Float(),
		Gas:              raw.Gas.Float(),
		RateN:            raw.RateN.Float(),
		RateP:            raw.RateP.Float(),
		RateK:            raw.RateK.Float(),
		RateSoilMoisture: raw.RateSoilMoisture.Float(),
		RateGas:          raw.RateGas.Float(),
		BaselineN:        raw.BaselineN.Float(),
		BaselineP:        raw.BaselineP.Float(),
		BaselineK:        raw.BaselineK.Float(),
		BaselineGas:      raw.BaselineGas.Float(),
	}
}

// AdaptRows normalizes a raw series, preserving row order.
func AdaptRows(rows []models.SensorRow) []models.SensorReading {
	readings := make([]models.SensorReading, len(rows))
	for i, row := range rows {
		readings[i] = AdaptRow(row)
	}
	return readings
}

// Synthesize derives a product's series from the real one. Each field gets a
// constant bias at half the field's noise amplitude plus fresh full-amplitude
// noise per reading, and results round to one decimal. The input series is
// never modified.
func Synthesize(real []models.SensorReading, productID string) []models.SensorReading {
	rng := mulberry32{state: seedFromID(productID)}

	var bias [10]float64
	for i, pct := range noisePct {
		bias[i] = (rng.next()*2 - 1) * pct * 0.5
	}

	out := make([]models.SensorReading, len(real))
	for i := range real {
		src := real[i]
		noisy := models.SensorReading{DateTime: src.DateTime}
		srcPtrs := metricPtrs(&src)
		dstPtrs := metricPtrs(&noisy)
		for j, pct := range noisePct {
			noise := (rng.next()*2-1)*pct + bias[j]
			value := *srcPtrs[j] * (1 + noise)
			*dstPtrs[j] = math.Round(value*10) / 10
		}
		out[i] = noisy
	}
	return out
}

// Engine serves per-product series, choosing the real or synthetic path.
type Engine struct {
	realProductID string
	logger        *zap.Logger
}

// NewEngine creates an engine. realProductID is the one instrumented product
// whose series passes through unmodified.
func NewEngine(realProductID string) *Engine {
	return &Engine{
		realProductID: realProductID,
		logger:        util.GetLogger(),
	}
}

// SeriesFor returns the series for a product and whether it is live data.
func (e *Engine) SeriesFor(productID string, real []models.SensorReading) ([]models.SensorReading, bool) {
	if productID == e.realProductID {
		util.SensorSeriesReal.Inc()
		return real, true
	}

	util.SensorSeriesSynthesized.Inc()
	e.logger.Debug("Synthesizing sensor series",
		zap.String("product_id", productID),
		zap.Int("readings", len(real)))
	return Synthesize(real, productID), false
}
