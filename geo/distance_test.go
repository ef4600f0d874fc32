package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKmSamePoint(t *testing.T) {
	assert.Equal(t, 0.0, DistanceKm(28.6139, 77.2090, 28.6139, 77.2090))
	assert.Equal(t, 0.0, DistanceKm(0, 0, 0, 0))
}

func TestDistanceKmSymmetry(t *testing.T) {
	d1 := DistanceKm(28.6139, 77.2090, 19.0760, 72.8777)
	d2 := DistanceKm(19.0760, 72.8777, 28.6139, 77.2090)
	assert.InDelta(t, d1, d2, 1e-9)
}

func TestDistanceKmDelhiToMumbai(t *testing.T) {
	// Delhi -> Mumbai, jarak great-circle sekitar 1150-1160 km
	d := DistanceKm(28.6139, 77.2090, 19.0760, 72.8777)
	assert.Greater(t, d, 1100.0)
	assert.Less(t, d, 1200.0)
}

func TestDistanceKmShortRange(t *testing.T) {
	// Pergeseran 0.01 derajat lintang = sekitar 1.11 km
	d := DistanceKm(28.6139, 77.2090, 28.6239, 77.2090)
	assert.InDelta(t, 1.11, d, 0.05)
}
