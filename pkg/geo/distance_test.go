package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_SamePoint(t *testing.T) {
	assert.Equal(t, 0.0, Distance(28.6139, 77.2090, 28.6139, 77.2090))
}

func TestDistance_KnownCities(t *testing.T) {
	// Delhi -> Mumbai is roughly 1150 km great-circle
	d := Distance(28.6139, 77.2090, 19.0760, 72.8777)
	assert.InDelta(t, 1150, d, 20)
}

func TestDistance_Symmetric(t *testing.T) {
	a := Distance(28.6139, 77.2090, 28.7041, 77.1025)
	b := Distance(28.7041, 77.1025, 28.6139, 77.2090)
	assert.Equal(t, a, b)
}

func TestDistance_RoundedToOneDecimal(t *testing.T) {
	d := Distance(28.6139, 77.2090, 28.7041, 77.1025)
	assert.InDelta(t, d*10, math.Round(d*10), 1e-9)
	assert.Greater(t, d, 0.0)
}
