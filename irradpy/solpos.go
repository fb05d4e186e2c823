package irradpy

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

//--------------------------------------
// Solar position and extraterrestrial irradiance
//--------------------------------------

// NOAAGeometry computes solar geometry with the NOAA solar position
// equations on a Julian date base. It satisfies SolarGeometry and is the
// default collaborator of the model.
type NOAAGeometry struct {
	// SolarConstant [Wm-2] at one astronomical unit.
	SolarConstant float64
}

// DefaultGeometry returns a NOAAGeometry with Gueymard's solar constant of
// 1366.1 Wm-2, the value the REST2 papers are calibrated against.
func DefaultGeometry() NOAAGeometry {
	return NOAAGeometry{SolarConstant: 1366.1}
}

// ZenithAngle returns the solar zenith angle [degrees] for every site at
// every timestamp, indexed [site][time]. Timestamps are interpreted in UTC.
func (g NOAAGeometry) ZenithAngle(lat []float64, lon []float64, times []time.Time) [][]float64 {
	zen := make([][]float64, len(lat))
	for s := range lat {
		zen[s] = make([]float64, len(times))
		for i, t := range times {
			zen[s][i] = sunZenith(lat[s], lon[s], t)
		}
	}
	return zen
}

// ExtraterrestrialIrradiance returns the extraterrestrial normal irradiance
// [Wm-2] at every timestamp, the solar constant scaled by the inverse square
// of the Sun-Earth distance.
func (g NOAAGeometry) ExtraterrestrialIrradiance(times []time.Time) []float64 {
	eext := make([]float64, len(times))
	for i, t := range times {
		r := sunEarthDistanceAU(t)
		eext[i] = g.SolarConstant / (r * r)
	}
	return eext
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }
func fixAngle(a float64) float64   { return a - 360.0*math.Floor(a/360.0) }

// sunZenith computes the solar zenith angle [degrees] at one site and
// instant (NOAA solar position equations, no refraction term).
func sunZenith(lat float64, lon float64, t time.Time) float64 {
	t = t.UTC()
	jd := julian.TimeToJD(t)
	T := (jd - 2451545.0) / 36525.0

	L0 := fixAngle(280.46646 + T*(36000.76983+T*0.0003032))
	M := fixAngle(357.52911 + T*(35999.05029-T*0.0001537))
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)
	C := math.Sin(degToRad(M))*(1.914602-T*(0.004817+T*0.000014)) +
		math.Sin(degToRad(2*M))*(0.019993-T*0.000101) +
		math.Sin(degToRad(3*M))*0.000289
	sunLong := L0 + C
	omega := 125.04 - 1934.136*T
	lambda := sunLong - 0.00569 - 0.00478*math.Sin(degToRad(omega))
	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60
	declRad := math.Asin(math.Sin(degToRad(eps0)) * math.Sin(degToRad(lambda)))

	// equation of time [minutes]
	y := math.Tan(degToRad(eps0)/2) * math.Tan(degToRad(eps0)/2)
	eqTimeMin := radToDeg(y*math.Sin(degToRad(2*L0))-
		2*e*math.Sin(degToRad(M))+
		4*e*y*math.Sin(degToRad(M))*math.Cos(degToRad(2*L0))-
		0.5*y*y*math.Sin(degToRad(4*L0))-
		1.25*e*e*math.Sin(degToRad(2*M))) * 4

	utcMin := float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60.0
	tst := utcMin + 4*lon + eqTimeMin
	ha := tst/4 - 180

	latRad := degToRad(lat)
	cosZen := math.Sin(latRad)*math.Sin(declRad) +
		math.Cos(latRad)*math.Cos(declRad)*math.Cos(degToRad(ha))
	return radToDeg(math.Acos(cosZen))
}

// sunEarthDistanceAU computes the Sun-Earth distance [AU] from Kepler's
// equation (one iteration, libastro style).
func sunEarthDistanceAU(t time.Time) float64 {
	jd := julian.TimeToJD(t.UTC())
	T := (jd - 2451545.0) / 36525.0

	M := degToRad(fixAngle(357.52911 + T*(35999.05029-T*0.0001537)))
	e := 0.016708617 - T*(0.000042037+T*0.0000001236)
	E := M + e*math.Sin(M)*(1+e*math.Cos(M))
	v := 2 * math.Atan(math.Sqrt((1+e)/(1-e))*math.Tan(E/2))
	return (1 - e*e) / (1 + e*math.Cos(v))
}
