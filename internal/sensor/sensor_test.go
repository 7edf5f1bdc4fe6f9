package sensor

import (
	"fmt"
	"math"
	"testing"

	"purechain-store/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSeries() []models.SensorReading {
	return []models.SensorReading{
		{
			DateTime: "2024-01-01 08:00", N: 180, P: 55, K: 140, SoilMoisture: 62, Gas: 480,
			RateN: 1.2, RateP: -0.4, RateK: 0.8, RateSoilMoisture: -1.5, RateGas: 2.1,
		},
		{
			DateTime: "2024-01-01 09:00", N: 182, P: 54, K: 141, SoilMoisture: 61, Gas: 478,
			RateN: 1.1, RateP: -0.3, RateK: 0.7, RateSoilMoisture: -1.2, RateGas: 1.9,
		},
		{
			DateTime: "2024-01-01 10:00", N: 185, P: 56, K: 143, SoilMoisture: 60, Gas: 481,
			RateN: 1.4, RateP: -0.5, RateK: 0.9, RateSoilMoisture: -1.1, RateGas: 2.3,
		},
	}
}

func TestAdaptRowCombinedDateTime(t *testing.T) {
	row := models.SensorRow{
		DateTime: "2024-03-01 14:00",
		Date:     "2024-03-01",
		Time:     "14:00",
		N:        "180.5",
		RateN:    "1.2",
	}

	reading := AdaptRow(row)

	assert.Equal(t, "2024-03-01 14:00", reading.DateTime)
	assert.Equal(t, 180.5, reading.N)
	assert.Equal(t, 1.2, reading.RateN)
}

func TestAdaptRowSplitDateTime(t *testing.T) {
	row := models.SensorRow{
		Date: "2024-03-01",
		Time: "14:00",
		N:    "180",
	}

	reading := AdaptRow(row)

	assert.Equal(t, "2024-03-01 14:00", reading.DateTime)
}

func TestAdaptRowNonNumericDefaultsToZero(t *testing.T) {
	row := models.SensorRow{
		DateTime: "2024-03-01 14:00",
		N:        "n/a",
		P:        "",
		RateGas:  "--",
	}

	reading := AdaptRow(row)

	assert.Zero(t, reading.N)
	assert.Zero(t, reading.P)
	assert.Zero(t, reading.RateGas)
}

func TestSynthesizeIsDeterministic(t *testing.T) {
	real := sampleSeries()

	first := Synthesize(real, "TM")
	second := Synthesize(real, "TM")

	assert.Equal(t, first, second)
}

func TestSynthesizeDiffersAcrossProducts(t *testing.T) {
	real := sampleSeries()

	seen := make(map[string]string)
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("P%03d", i)
		series := Synthesize(real, id)
		key := fmt.Sprintf("%+v", series)
		prev, dup := seen[key]
		require.False(t, dup, "series for %s collides with %s", id, prev)
		seen[key] = id
	}
}

func TestSynthesizeDoesNotMutateInput(t *testing.T) {
	real := sampleSeries()
	original := sampleSeries()

	_ = Synthesize(real, "BE")

	assert.Equal(t, original, real)
}

func TestSynthesizePreservesOrderAndLength(t *testing.T) {
	real := sampleSeries()

	out := Synthesize(real, "TM")

	require.Len(t, out, len(real))
	for i := range out {
		assert.Equal(t, real[i].DateTime, out[i].DateTime)
	}
}

func TestSynthesizeRoundsToOneDecimal(t *testing.T) {
	out := Synthesize(sampleSeries(), "TM")

	for _, r := range out {
		for _, v := range []float64{r.N, r.P, r.K, r.SoilMoisture, r.Gas, r.RateN, r.RateP, r.RateK, r.RateSoilMoisture, r.RateGas} {
			scaled := v * 10
			assert.InDelta(t, math.Round(scaled), scaled, 1e-9)
		}
	}
}

func TestSynthesizeValuesStayNearOriginal(t *testing.T) {
	real := sampleSeries()

	out := Synthesize(real, "TM")

	// Instantaneous fields get at most pct noise plus pct/2 bias.
	for i := range out {
		assert.InDelta(t, real[i].N, out[i].N, real[i].N*0.12*1.5+0.05)
		assert.InDelta(t, real[i].Gas, out[i].Gas, real[i].Gas*0.08*1.5+0.05)
		assert.InDelta(t, real[i].SoilMoisture, out[i].SoilMoisture, real[i].SoilMoisture*0.18*1.5+0.05)
	}
}

func TestEngineServesRealSeriesForInstrumentedProduct(t *testing.T) {
	engine := NewEngine("CA")
	real := sampleSeries()

	series, isReal := engine.SeriesFor("CA", real)

	assert.True(t, isReal)
	assert.Equal(t, real, series)
}

func TestEngineSynthesizesForOtherProducts(t *testing.T) {
	engine := NewEngine("CA")
	real := sampleSeries()

	series, isReal := engine.SeriesFor("TM", real)

	assert.False(t, isReal)
	require.Len(t, series, len(real))
	assert.NotEqual(t, real, series)
	assert.Equal(t, Synthesize(real, "TM"), series)
}

func TestSeedFromIDMatchesPolynomialHash(t *testing.T) {
	// seed("AB") = (7*31 + 'A')*31 + 'B' = 282*31 + 66 = 8808
	assert.Equal(t, uint32(8808), seedFromID("AB"))
	assert.Equal(t, uint32(7), seedFromID(""))
}
