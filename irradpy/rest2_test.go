package irradpy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Single-element state helper for kernel tests.
func stateOf(pressure, w, uo, un, aod, alpha, rg float64) *AtmosphericState {
	return &AtmosphericState{
		Pressure:         []float64{pressure},
		WaterVapour:      []float64{w},
		Ozone:            []float64{uo},
		NitrogenDioxide:  []float64{un},
		AOD550:           []float64{aod},
		AngstromExponent: []float64{alpha},
		SurfaceAlbedo:    []float64{rg},
	}
}

// Kernel output for the sun-at-zenith benchmark conditions.
// Expected values verified against the Python implementation.
func Test_ClearSkyRadiation_Benchmark(t *testing.T) {
	ghi, dni, dhi := ClearSkyRadiation(
		[]float64{0},
		[]float64{1361},
		stateOf(1013.25, 1.42, 0.34, 0.0002, 0.1, 1.3, 0.2))

	assert.InDelta(t, 1090.749770, ghi[0], 1.0e-6)
	assert.InDelta(t, 964.763144, dni[0], 1.0e-6)
	assert.InDelta(t, 125.986627, dhi[0], 1.0e-6)
}

// Kernel output across the zenith range and assorted atmospheres.
// Expected values verified against the Python implementation.
func Test_ClearSkyRadiation_Reference(t *testing.T) {
	cases := []struct {
		name          string
		zenithDeg     float64
		eext          float64
		pressure      float64
		w, uo, un     float64
		aod, alpha    float64
		rg            float64
		ghi, dni, dhi float64
	}{
		{"midlat morning", 60, 1366, 1000, 2.0, 0.3, 0.0002, 0.2, 1.3, 0.2,
			465.0520293765092, 678.8075943561735, 125.64823219842242},
		{"high zenith", 85, 1361, 1013.25, 1.42, 0.34, 0.0002, 0.1, 1.3, 0.2,
			52.00211332938295, 267.18389465986775, 28.71550254009013},
		{"night", 100, 1361, 1013.25, 1.42, 0.34, 0.0002, 0.1, 1.3, 0.2,
			0, 0, 0},
		{"turbid humid", 30, 1380, 950, 5.0, 0.3, 0.01, 0.5, 0.5, 0.6,
			819.0432640657791, 572.3820802774023, 323.3458418745647},
		{"snowy clean", 70, 1407, 800, 0.5, 0.25, 0.0001, 0.05, 1.1, 0.85,
			372.9103358912514, 852.2628651970333, 81.4192685854169},
	}

	for _, c := range cases {
		ghi, dni, dhi := ClearSkyRadiation(
			[]float64{c.zenithDeg * math.Pi / 180},
			[]float64{c.eext},
			stateOf(c.pressure, c.w, c.uo, c.un, c.aod, c.alpha, c.rg))

		assert.InDelta(t, c.ghi, ghi[0], 1.0e-6, c.name)
		assert.InDelta(t, c.dni, dni[0], 1.0e-6, c.name)
		assert.InDelta(t, c.dhi, dhi[0], 1.0e-6, c.name)
	}
}

// Air masses at two zenith angles inside the fitted range.
// Expected values verified against the Python implementation.
func Test_relativeAirMass(t *testing.T) {
	am := relativeAirMass(60*math.Pi/180, 1000)
	assert.InDelta(t, 1.9986606665315252, am.ama, 1.0e-9)
	assert.InDelta(t, 1.999211566250454, am.amw, 1.0e-9)
	assert.InDelta(t, 1.9879217256754254, am.amo, 1.0e-9)
	assert.InDelta(t, 1.994865231596497, am.amR, 1.0e-9)
	assert.InDelta(t, 1.9687789110254104, am.amRe, 1.0e-9)

	am = relativeAirMass(85*math.Pi/180, 1013.25)
	assert.InDelta(t, 10.975844460448336, am.ama, 1.0e-9)
	assert.InDelta(t, 11.125533965849197, am.amw, 1.0e-9)
	assert.InDelta(t, 8.533992476112166, am.amo, 1.0e-9)
	assert.InDelta(t, 10.309507599542334, am.amR, 1.0e-9)
	assert.InDelta(t, 10.309507599542334, am.amRe, 1.0e-9)

	// overhead sun: every air mass is exactly one at standard pressure
	am = relativeAirMass(0, 1013.25)
	assert.InDelta(t, 1.0, am.ama, 1.0e-12)
	assert.InDelta(t, 1.0, am.amw, 1.0e-12)
	assert.InDelta(t, 1.0, am.amo, 1.0e-12)
	assert.InDelta(t, 1.0, am.amR, 1.0e-12)
	assert.InDelta(t, 1.0, am.amRe, 1.0e-12)
}

// Past the fitted range the denominator of the rational form flips sign and
// the Python implementation evaluates the fractional power through the
// complex plane.
// The real-domain branch must reproduce the complex magnitudes.
// Expected values verified against the Python implementation.
func Test_relativeAirMass_BelowHorizon(t *testing.T) {
	am := relativeAirMass(100*math.Pi/180, 1013.25)
	assert.InDelta(t, 6.460114639148618, am.ama, 1.0e-9)
	assert.InDelta(t, 5.937112117634679, am.amw, 1.0e-9)
	assert.InDelta(t, 0.19525676340252426, am.amo, 1.0e-9)
	assert.InDelta(t, 8.012122329138203, am.amR, 1.0e-9)

	am = relativeAirMass(95*math.Pi/180, 1013.25)
	assert.InDelta(t, 0.2829377475952594, am.ama, 1.0e-9)
	assert.InDelta(t, 22.864664621167456, am.amw, 1.0e-9)
	assert.InDelta(t, 6.103123997302873, am.amo, 1.0e-9)
	assert.InDelta(t, 5.108939130117117, am.amR, 1.0e-9)
}

// Band 1 transmittances at 85 degrees zenith, benchmark atmosphere.
// Expected values verified against the Python implementation.
func Test_band1Transmittance(t *testing.T) {
	am := relativeAirMass(85*math.Pi/180, 1013.25)
	beta := 0.1 / math.Pow(0.55, -1.3)

	b1 := band1Transmittance(am, 0.34, 0.0002, 1.42, beta, 1.3)

	assert.InDelta(t, 0.28753327482353086, b1.TR, 1.0e-9)
	assert.InDelta(t, 0.9745807968377322, b1.Tg, 1.0e-9)
	assert.InDelta(t, 0.8427997911427747, b1.To, 1.0e-9)
	assert.InDelta(t, 0.9756851982360009, b1.Tn, 1.0e-9)
	assert.InDelta(t, 0.9943488809159645, b1.Tn166, 1.0e-9)
	assert.InDelta(t, 0.9828587645191289, b1.Tw, 1.0e-9)
	assert.InDelta(t, 0.9966315617760426, b1.Tw166, 1.0e-9)
	assert.InDelta(t, 0.09913676049848016, b1.ta, 1.0e-9)
	assert.InDelta(t, 0.33685265709386725, b1.TA, 1.0e-9)
	assert.InDelta(t, 0.3674893683305474, b1.TAS, 1.0e-9)
	assert.InDelta(t, 0.4219488210092307, b1.BR, 1.0e-9)
	assert.InDelta(t, 5.219385900127432, b1.F, 1.0e-9)
	assert.InDelta(t, 0.15672512587022241, b1.rs, 1.0e-9)
}

// Band 2 transmittances at 85 degrees zenith, benchmark atmosphere.
// Expected values verified against the Python implementation.
func Test_band2Transmittance(t *testing.T) {
	am := relativeAirMass(85*math.Pi/180, 1013.25)
	beta := 0.1 / math.Pow(0.55, -1.3)

	b2 := band2Transmittance(am, 1.42, beta, 1.3)

	assert.InDelta(t, 0.9034459043035827, b2.TR, 1.0e-9)
	assert.InDelta(t, 0.9080456641821211, b2.Tg, 1.0e-9)
	assert.Equal(t, 1.0, b2.To)
	assert.Equal(t, 1.0, b2.Tn)
	assert.Equal(t, 1.0, b2.Tn166)
	assert.InDelta(t, 0.604988143749518, b2.Tw, 1.0e-9)
	assert.InDelta(t, 0.7518266818536358, b2.Tw166, 1.0e-9)
	assert.InDelta(t, 0.043002746346060536, b2.ta, 1.0e-9)
	assert.InDelta(t, 0.6237588427480771, b2.TA, 1.0e-9)
	assert.InDelta(t, 0.672688558497339, b2.TAS, 1.0e-9)
	assert.Equal(t, 0.5, b2.BR)
	assert.InDelta(t, 3.489266489515609, b2.F, 1.0e-9)
	assert.InDelta(t, 0.024143183117627774, b2.rs, 1.0e-9)
}

// Clamping an in-range state is a no-op and clamping twice equals clamping
// once.
func Test_Clamped_Idempotent(t *testing.T) {
	atm := stateOf(1013.25, 1.42, 0.34, 0.0002, 0.1, 1.3, 0.2)

	once := atm.Clamped()
	twice := once.Clamped()

	assert.Equal(t, atm, once)
	assert.Equal(t, once, twice)

	out := stateOf(2000, -3, 1.5, 0.5, 0.1, 5.0, 1.4).Clamped()
	assert.Equal(t, 1100.0, out.Pressure[0])
	assert.Equal(t, 0.0, out.WaterVapour[0])
	assert.Equal(t, 0.6, out.Ozone[0])
	assert.Equal(t, 0.03, out.NitrogenDioxide[0])
	assert.Equal(t, 2.5, out.AngstromExponent[0])
	assert.Equal(t, 1.0, out.SurfaceAlbedo[0])
}

// An out-of-range Angstrom exponent must flow through the model exactly as
// its clamped value does.
func Test_ClearSkyRadiation_ClampFlowsThrough(t *testing.T) {
	zen := []float64{0, 30 * math.Pi / 180, 75 * math.Pi / 180}
	eext := []float64{1361, 1361, 1361}

	raw := &AtmosphericState{
		Pressure:         []float64{1013.25, 1013.25, 1013.25},
		WaterVapour:      []float64{1.42, 1.42, 1.42},
		Ozone:            []float64{0.34, 0.34, 0.34},
		NitrogenDioxide:  []float64{0.0002, 0.0002, 0.0002},
		AOD550:           []float64{0.1, 0.1, 0.1},
		AngstromExponent: []float64{5.0, 5.0, 5.0},
		SurfaceAlbedo:    []float64{0.2, 0.2, 0.2},
	}
	clamped := &AtmosphericState{
		Pressure:         []float64{1013.25, 1013.25, 1013.25},
		WaterVapour:      []float64{1.42, 1.42, 1.42},
		Ozone:            []float64{0.34, 0.34, 0.34},
		NitrogenDioxide:  []float64{0.0002, 0.0002, 0.0002},
		AOD550:           []float64{0.1, 0.1, 0.1},
		AngstromExponent: []float64{2.5, 2.5, 2.5},
		SurfaceAlbedo:    []float64{0.2, 0.2, 0.2},
	}

	g1, d1, s1 := ClearSkyRadiation(zen, eext, raw)
	g2, d2, s2 := ClearSkyRadiation(zen, eext, clamped)

	assert.Equal(t, g2, g1)
	assert.Equal(t, d2, d1)
	assert.Equal(t, s2, s1)

	// the caller's column is never modified
	assert.Equal(t, 5.0, raw.AngstromExponent[0])
}

// Every output element is finite and non-negative, and below the horizon
// the direct components vanish, over a sweep that includes degenerate
// inputs.
func Test_ClearSkyRadiation_Invariants(t *testing.T) {
	zen := []float64{}
	eext := []float64{}
	atm := &AtmosphericState{}

	add := func(zdeg, e, p, w, uo, un, aod, alpha, rg float64) {
		zen = append(zen, zdeg*math.Pi/180)
		eext = append(eext, e)
		atm.Pressure = append(atm.Pressure, p)
		atm.WaterVapour = append(atm.WaterVapour, w)
		atm.Ozone = append(atm.Ozone, uo)
		atm.NitrogenDioxide = append(atm.NitrogenDioxide, un)
		atm.AOD550 = append(atm.AOD550, aod)
		atm.AngstromExponent = append(atm.AngstromExponent, alpha)
		atm.SurfaceAlbedo = append(atm.SurfaceAlbedo, rg)
	}

	for zdeg := 0.0; zdeg <= 180.0; zdeg += 5.0 {
		add(zdeg, 1366, 1013.25, 1.42, 0.34, 0.0002, 0.1, 1.3, 0.2)
		add(zdeg, 1366, 100, -5, 2, 1, 3, 9, 2)   // wildly out of range
		add(zdeg, 1366, 1100, 10, 0.6, 0.03, 1.1, 0, 1) // every clamp edge
	}

	ghi, dni, dhi := ClearSkyRadiation(zen, eext, atm)

	for i := range zen {
		zdeg := zen[i] * 180 / math.Pi
		assert.False(t, math.IsNaN(ghi[i]) || math.IsInf(ghi[i], 0), "ghi at %f", zdeg)
		assert.False(t, math.IsNaN(dni[i]) || math.IsInf(dni[i], 0), "dni at %f", zdeg)
		assert.False(t, math.IsNaN(dhi[i]) || math.IsInf(dhi[i], 0), "dhi at %f", zdeg)
		assert.True(t, ghi[i] >= 0, "ghi at %f", zdeg)
		assert.True(t, dni[i] >= 0, "dni at %f", zdeg)
		assert.True(t, dhi[i] >= 0, "dhi at %f", zdeg)
		if zdeg > 90 {
			assert.Equal(t, 0.0, dni[i], "night dni at %f", zdeg)
			assert.Equal(t, 0.0, dhi[i], "night dhi at %f", zdeg)
			assert.Equal(t, 0.0, ghi[i], "night ghi at %f", zdeg)
		}
	}
}

// In deep night the aerosol forward scatterance factor goes negative and the
// raw diffuse terms can come out large and positive, so the below-horizon
// zeroing cannot be left to the non-negativity floor.
func Test_ClearSkyRadiation_DeepNight(t *testing.T) {
	ghi, dni, dhi := ClearSkyRadiation(
		[]float64{176.76 * math.Pi / 180},
		[]float64{1400},
		stateOf(388.7, 0.061, 0.149, 0.0045, 1.392, 0.05, 0.808))

	assert.Equal(t, 0.0, ghi[0])
	assert.Equal(t, 0.0, dni[0])
	assert.Equal(t, 0.0, dhi[0])

	// high turbidity just past the scatterance sign flip
	for _, zdeg := range []float64{112, 120, 150, 180} {
		ghi, dni, dhi = ClearSkyRadiation(
			[]float64{zdeg * math.Pi / 180},
			[]float64{1366},
			stateOf(1013.25, 1.42, 0.34, 0.0002, 1.0, 0.5, 0.8))
		assert.Equal(t, 0.0, ghi[0], "ghi at %f", zdeg)
		assert.Equal(t, 0.0, dni[0], "dni at %f", zdeg)
		assert.Equal(t, 0.0, dhi[0], "dhi at %f", zdeg)
	}
}
