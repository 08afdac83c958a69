package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSamples(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	opts := SampleOptions{Count: 100, BaseAmplitude: 1000, Seed: 42, Start: start}

	samples := GenerateSamples(opts)
	require.Len(t, samples, 100)

	assert.Equal(t, start, samples[0].Timestamp)
	assert.Equal(t, start.Add(99*time.Hour), samples[99].Timestamp)
	assert.Equal(t, float64(1200*3600), samples[0].FlightHours)
	assert.Equal(t, float64(1200*3600+99*3600), samples[99].FlightHours)

	for i, s := range samples {
		// base, plus at most 20% noise, plus or minus 10% sine, plus the late step
		upper := 1300.0
		if i > 70 {
			upper += 500
		}
		assert.GreaterOrEqual(t, s.Amplitude, 900.0, "sample %d", i)
		assert.LessOrEqual(t, s.Amplitude, upper, "sample %d", i)
	}
	assert.Greater(t, samples[99].Amplitude, 1300.0, "late samples carry the step")

	again := GenerateSamples(opts)
	assert.Equal(t, samples, again, "same seed gives the same samples")
}

func TestGenerateSamples_Defaults(t *testing.T) {
	t.Parallel()

	samples := GenerateSamples(SampleOptions{})
	require.Len(t, samples, DefaultSampleCount)
	assert.True(t, samples[len(samples)-1].Timestamp.Before(time.Now()))
}

func TestGenerate_Axis(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	s, err := Generate("tvm", SampleOptions{Count: 3, Start: start})
	require.NoError(t, err)
	assert.Equal(t, "tvm", s.Name)
	assert.Equal(t, []float64{
		float64(start.Unix()),
		float64(start.Add(time.Hour).Unix()),
		float64(start.Add(2 * time.Hour).Unix()),
	}, s.Domain())

	s, err = Generate("tvm", SampleOptions{Count: 3, Start: start, Axis: AxisFlightHours})
	require.NoError(t, err)
	r, ok := s.FullRange()
	require.True(t, ok)
	assert.Equal(t, float64(1200*3600), r.Min)
	assert.Equal(t, float64(1202*3600), r.Max)

	_, err = Generate("tvm", SampleOptions{Axis: "flightHoursCategory"})
	assert.Error(t, err)
}
