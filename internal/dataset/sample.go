package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// Axis selects which sample field becomes the X value of a series
type Axis string

const (
	// AxisDatetime uses the sample timestamp, in Unix seconds
	AxisDatetime Axis = "datetime"
	// AxisFlightHours uses the accumulated flight time, in seconds
	AxisFlightHours Axis = "flightHours"
)

const (
	// DefaultSampleCount is the number of samples generated when none is set
	DefaultSampleCount = 1000
	// DefaultBaseAmplitude is the vibration baseline in g
	DefaultBaseAmplitude = 5000.0
	// startFlightHours is the airframe time of the first sample, in seconds
	startFlightHours = 1200 * 3600
)

// Sample is one transmission vibration measurement
type Sample struct {
	Timestamp   time.Time
	FlightHours float64
	Amplitude   float64
}

// SampleOptions configures Generate
type SampleOptions struct {
	Count         int       `yaml:"count"`
	BaseAmplitude float64   `yaml:"baseAmplitude"`
	Seed          uint64    `yaml:"seed"`
	Start         time.Time `yaml:"start"`
	Axis          Axis      `yaml:"axis"`
}

// ParseAxis converts a configuration string into an Axis. The empty string
// selects AxisDatetime.
func ParseAxis(s string) (Axis, error) {
	switch Axis(s) {
	case "", AxisDatetime:
		return AxisDatetime, nil
	case AxisFlightHours:
		return AxisFlightHours, nil
	default:
		return "", fmt.Errorf("unknown axis %q", s)
	}
}

// GenerateSamples produces hourly vibration samples. Amplitude is the base
// plus up to 20% noise, a slow 10% sine wave and a 50% step over the last 30%
// of the samples. The same seed always produces the same amplitudes.
func GenerateSamples(opts SampleOptions) []Sample {
	count := opts.Count
	if count <= 0 {
		count = DefaultSampleCount
	}
	base := opts.BaseAmplitude
	if base == 0 {
		base = DefaultBaseAmplitude
	}
	start := opts.Start
	if start.IsZero() {
		start = time.Now().Truncate(time.Hour).Add(-time.Duration(count) * time.Hour)
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	stepFrom := float64(count) * 0.7

	samples := make([]Sample, count)
	for i := range samples {
		amplitude := base +
			rng.Float64()*base*0.2 +
			math.Sin(float64(i)/10)*base*0.1
		if float64(i) > stepFrom {
			amplitude += base * 0.5
		}

		samples[i] = Sample{
			Timestamp:   start.Add(time.Duration(i) * time.Hour),
			FlightHours: startFlightHours + float64(i)*3600,
			Amplitude:   math.Abs(amplitude),
		}
	}
	return samples
}

// Generate produces a vibration series with X taken from opts.Axis
func Generate(name string, opts SampleOptions) (Series, error) {
	axis, err := ParseAxis(string(opts.Axis))
	if err != nil {
		return Series{}, err
	}

	samples := GenerateSamples(opts)
	s := Series{Name: name, Points: make([]Point, len(samples))}
	for i, sample := range samples {
		x := float64(sample.Timestamp.Unix())
		if axis == AxisFlightHours {
			x = sample.FlightHours
		}
		s.Points[i] = Point{X: x, Y: sample.Amplitude}
	}
	return s, nil
}
