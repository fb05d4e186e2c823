package irradpy

import (
	"math"
)

//--------------------------------------
// REST2v5 clear-sky radiation model
//--------------------------------------

// This model is called the REST2v5 clear sky model, written and designed by
// Christian A. Gueymard over a series of publications, though primarily in
// his 2008 paper in the Journal of Solar Energy (volume 82, issue 3, pages
// 272-285) titled "REST2: High-performance solar radiation model for
// cloudless-sky irradiance, illuminance, and photosynthetically active
// radiation - Validation with a benchmark dataset"

// AtmosphericState holds the atmospheric input columns of the model, one
// element per (site, time) pair, flattened site-major.
//
//	Pressure            [mb]             (local barometric)
//	WaterVapour         [atm.cm]         (total columnar amount)
//	Ozone               [atm.cm]         (total columnar amount)
//	NitrogenDioxide     [atm.cm]         (total columnar amount)
//	AOD550              [dimensionless]  (aerosol optical depth at 550 nm)
//	AngstromExponent    [dimensionless]  (also known as alpha)
//	SurfaceAlbedo       [fraction]
type AtmosphericState struct {
	Pressure         []float64
	WaterVapour      []float64
	Ozone            []float64
	NitrogenDioxide  []float64
	AOD550           []float64
	AngstromExponent []float64
	SurfaceAlbedo    []float64
}

// Len returns the number of (site, time) elements.
func (atm *AtmosphericState) Len() int {
	return len(atm.Pressure)
}

// Clamped returns a copy of the state with every column clamped element-wise
// to the permissible range of the model. Clamping is silent and idempotent:
// in-range values pass through unchanged.
func (atm *AtmosphericState) Clamped() *AtmosphericState {
	return &AtmosphericState{
		Pressure:         clampColumn(atm.Pressure, 300, 1100),
		WaterVapour:      clampColumn(atm.WaterVapour, 0, 10),
		Ozone:            clampColumn(atm.Ozone, 0, 0.6),
		NitrogenDioxide:  clampColumn(atm.NitrogenDioxide, 0, 0.03),
		AOD550:           clampColumn(atm.AOD550, 0, math.Inf(1)),
		AngstromExponent: clampColumn(atm.AngstromExponent, 0, 2.5),
		SurfaceAlbedo:    clampColumn(atm.SurfaceAlbedo, 0, 1),
	}
}

func clampColumn(col []float64, lo float64, hi float64) []float64 {
	out := make([]float64, len(col))
	for i, v := range col {
		out[i] = clamp(v, lo, hi)
	}
	return out
}

func clamp(v float64, lo float64, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// airMass holds the relative air masses of one (site, time) element, one per
// attenuation process.
type airMass struct {
	ama  float64 // aerosol extinction
	amw  float64 // water vapor absorption
	amo  float64 // ozone absorption
	amR  float64 // Rayleigh scattering and uniformly mixed gases absorption
	amRe float64 // amR corrected to station pressure
}

// relativeAirMass computes the relative air masses from the zenith angle
// [radians] and the station pressure [mb].
func relativeAirMass(zenithRad float64, pressure float64) airMass {
	zdeg := zenithRad * 180.0 / math.Pi
	cosz := math.Cos(zenithRad)

	ama := rationalAirMass(cosz, zdeg, 0.16851, 0.18198, 95.318, 1.9542)
	amw := rationalAirMass(cosz, zdeg, 0.10648, 0.11423, 93.781, 1.9203)
	amo := rationalAirMass(cosz, zdeg, 1.0651, 0.6379, 101.8, 2.2694)
	amR := rationalAirMass(cosz, zdeg, 0.48353, 0.095846, 96.741, 1.754)

	return airMass{
		ama:  ama,
		amw:  amw,
		amo:  amo,
		amR:  amR,
		amRe: (pressure / 1013.25) * amR,
	}
}

// rationalAirMass evaluates |cos(z) + a*zdeg^b/(c-zdeg)^d|^-1.
//
// The Python implementation evaluates the fractional power through the
// complex domain so that zenith angles past the fitted range (zdeg > c) do
// not produce NaN. For zdeg <= c the expression is plainly real. Past c the
// principal value of (c-zdeg)^d has magnitude |c-zdeg|^d and phase pi*d, so
// the magnitude of the complex sum is recovered here without complex
// arithmetic. Both branches match the complex path bit-for-bit.
func rationalAirMass(cosz float64, zdeg float64, a float64, b float64, c float64, d float64) float64 {
	den := c - zdeg
	t := a * math.Pow(zdeg, b) / math.Pow(math.Abs(den), d)
	if den >= 0 {
		return 1 / math.Abs(cosz+t)
	}
	sin, cos := math.Sincos(math.Pi * d)
	return 1 / math.Hypot(cosz+t*cos, t*sin)
}

// bandFactors holds the transmittance terms and auxiliary coefficients of
// one spectral band for one (site, time) element. Recomputed on every call,
// never cached.
type bandFactors struct {
	TR    float64 // Rayleigh scattering
	Tg    float64 // uniformly mixed gases absorption
	To    float64 // ozone absorption
	Tn    float64 // nitrogen dioxide absorption
	Tn166 float64 // Tn at the reference air mass 1.66
	Tw    float64 // water vapor absorption
	Tw166 float64 // Tw at the reference air mass 1.66
	ta    float64 // aerosol optical depth at the band effective wavelength
	TA    float64 // aerosol extinction
	TAS   float64 // aerosol scattering
	BR    float64 // forward scattering fraction for Rayleigh extinction
	F     float64 // aerosol scattering correction factor
	rs    float64 // sky albedo
}

// band1Transmittance computes the transmittance factors of band 1
// (UV and visible, 0.29-0.70 um).
//
//	am:    relative air masses
//	uo:    ozone [atm.cm]
//	un:    nitrogen dioxide [atm.cm]
//	w:     water vapour [atm.cm]
//	beta:  Angstrom turbidity
//	alpha: Angstrom exponent
func band1Transmittance(am airMass, uo float64, un float64, w float64, beta float64, alpha float64) bandFactors {
	amRe, amo, amw, ama := am.amRe, am.amo, am.amw, am.ama

	// transmittance for Rayleigh scattering
	TR1 := (1 + 1.8169*amRe - 0.033454*amRe*amRe) / (1 + 2.063*amRe + 0.31978*amRe*amRe)
	// transmittance for uniformly mixed gases absorption
	Tg1 := (1 + 0.95885*amRe + 0.012871*amRe*amRe) / (1 + 0.96321*amRe + 0.015455*amRe*amRe)

	// transmittance for ozone absorption
	f1 := uo * (10.979 - 8.5421*uo) / (1 + 2.0115*uo + 40.189*uo*uo)
	f2 := uo * (-0.027589 - 0.005138*uo) / (1 - 2.4857*uo + 13.942*uo*uo)
	f3 := uo * (10.995 - 5.5001*uo) / (1 + 1.6784*uo + 42.406*uo*uo)
	To1 := (1 + f1*amo + f2*amo*amo) / (1 + f3*amo)

	// transmittance for nitrogen dioxide absorption, capped at 1 both at the
	// true air mass and at the reference air mass 1.66 used for diffuse
	g1 := (0.17499 + 41.654*un - 2146.4*un*un) / (1 + 22295.0*un*un)
	g2 := un * (-1.2134 + 59.324*un) / (1 + 8847.8*un*un)
	g3 := (0.17499 + 61.658*un + 9196.4*un*un) / (1 + 74109.0*un*un)
	Tn1 := math.Min(1, (1+g1*amw+g2*amw*amw)/(1+g3*amw))
	Tn1166 := math.Min(1, (1+g1*1.66+g2*1.66*1.66)/(1+g3*1.66))

	// transmittance for water vapor absorption
	h1 := w * (0.065445 + 0.00029901*w) / (1 + 1.2728*w)
	h2 := w * (0.065687 + 0.0013218*w) / (1 + 1.2008*w)
	Tw1 := (1 + h1*amw) / (1 + h2*amw)
	Tw1166 := (1 + h1*1.66) / (1 + h2*1.66)

	// effective wavelength of band 1 from the Angstrom exponent interaction
	d0 := 0.57664 - 0.024743*alpha
	d1 := (0.093942 - 0.2269*alpha + 0.12848*alpha*alpha) / (1 + 0.6418*alpha)
	d2 := (-0.093819 + 0.36668*alpha - 0.12775*alpha*alpha) / (1 - 0.11651*alpha)
	d3 := alpha * (0.15232 - 0.087214*alpha + 0.012664*alpha*alpha) /
		(1 - 0.90454*alpha + 0.26167*alpha*alpha)
	ua1 := math.Log(1 + ama*beta)
	lam1 := (d0 + d1*ua1 + d2*ua1*ua1) / (1 + d3*ua1*ua1)

	// aerosol transmittance; a non-positive lam1 sends ta1 to NaN, which the
	// quality-control floor of the composer turns into zero irradiance
	ta1 := math.Abs(beta * math.Pow(lam1, -alpha))
	TA1 := math.Exp(-ama * ta1)
	// aerosol scattering transmittance, single-scattering albedo 0.92
	TAS1 := math.Exp(-ama * 0.92 * ta1)

	// forward scattering fraction for Rayleigh extinction
	BR1 := 0.5 * (0.89013 - 0.0049558*am.amR + 0.000045721*am.amR*am.amR)

	// aerosol scattering correction factor
	p0 := (3.715 + 0.368*ama + 0.036294*ama*ama) / (1 + 0.0009391*ama*ama)
	p1 := (-0.164 - 0.72567*ama + 0.20701*ama*ama) / (1 + 0.0019012*ama*ama)
	p2 := (-0.052288 + 0.31902*ama + 0.17871*ama*ama) / (1 + 0.0069592*ama*ama)
	F1 := (p0 + p1*ta1) / (1 + p2*ta1)

	// sky albedo
	rs1 := (0.13363 + 0.00077358*alpha + beta*(0.37567+0.22946*alpha)/(1-0.10832*alpha)) /
		(1 + beta*(0.84057+0.68683*alpha)/(1-0.08158*alpha))

	return bandFactors{
		TR: TR1, Tg: Tg1, To: To1,
		Tn: Tn1, Tn166: Tn1166,
		Tw: Tw1, Tw166: Tw1166,
		ta: ta1, TA: TA1, TAS: TAS1,
		BR: BR1, F: F1, rs: rs1,
	}
}

// band2Transmittance computes the transmittance factors of band 2
// (near infrared, 0.70-4.0 um). Ozone and nitrogen dioxide do not absorb
// in this band.
func band2Transmittance(am airMass, w float64, beta float64, alpha float64) bandFactors {
	amRe, amw, ama := am.amRe, am.amw, am.ama

	// transmittance for Rayleigh scattering
	TR2 := (1 - 0.010394*amRe) / (1 - 0.00011042*amRe*amRe)
	// transmittance for uniformly mixed gases absorption
	Tg2 := (1 + 0.27284*amRe - 0.00063699*amRe*amRe) / (1 + 0.30306*amRe)

	// transmittance for water vapor absorption
	c1 := w * (19.566 - 1.6506*w + 1.0672*w*w) / (1 + 5.4248*w + 1.6005*w*w)
	c2 := w * (0.50158 - 0.14732*w + 0.047584*w*w) / (1 + 1.1811*w + 1.0699*w*w)
	c3 := w * (21.286 - 0.39232*w + 1.2692*w*w) / (1 + 4.8318*w + 1.412*w*w)
	c4 := w * (0.70992 - 0.23155*w + 0.096514*w*w) / (1 + 0.44907*w + 0.75425*w*w)
	Tw2 := (1 + c1*amw + c2*amw*amw) / (1 + c3*amw + c4*amw*amw)
	Tw2166 := (1 + c1*1.66 + c2*1.66*1.66) / (1 + c3*1.66 + c4*1.66*1.66)

	// effective wavelength of band 2 from the Angstrom exponent interaction
	e0 := (1.183 - 0.022989*alpha + 0.020829*alpha*alpha) / (1 + 0.11133*alpha)
	e1 := (-0.50003 - 0.18329*alpha + 0.23835*alpha*alpha) / (1 + 1.6756*alpha)
	e2 := (-0.50001 + 1.1414*alpha + 0.0083589*alpha*alpha) / (1 + 11.168*alpha)
	e3 := (-0.70003 - 0.73587*alpha + 0.51509*alpha*alpha) / (1 + 4.7665*alpha)
	ua2 := math.Log(1 + ama*beta)
	lam2 := (e0 + e1*ua2 + e2*ua2*ua2) / (1 + e3*ua2)

	// aerosol transmittance; lam2 can go negative inside the fitted domain,
	// where the Python implementation evaluates lam2^-alpha through the
	// complex plane and keeps the magnitude. The magnitude of the principal value is
	// |lam2|^-alpha, so the real form below is exact.
	ta2 := beta * math.Pow(math.Abs(lam2), -alpha)
	TA2 := math.Exp(-ama * ta2)
	// aerosol scattering transmittance, single-scattering albedo 0.84
	TAS2 := math.Exp(-ama * 0.84 * ta2)

	// multiple scattering is negligible in band 2
	BR2 := 0.5

	// aerosol scattering correction factor
	ama15 := math.Pow(ama, 1.5)
	p0 := (3.4352 + 0.65267*ama + 0.00034328*ama*ama) / (1 + 0.034388*ama15)
	p1 := (1.231 - 1.63853*ama + 0.20667*ama*ama) / (1 + 0.1451*ama15)
	p2 := (0.8889 - 0.55063*ama + 0.50152*ama*ama) / (1 + 0.14865*ama15)
	F2 := (p0 + p1*ta2) / (1 + p2*ta2)

	// sky albedo
	rs2 := (0.010191 + 0.00085547*alpha + beta*(0.14618+0.062758*alpha)/(1-0.19402*alpha)) /
		(1 + beta*(0.58101+0.17426*alpha)/(1-0.17586*alpha))

	return bandFactors{
		TR: TR2, Tg: Tg2, To: 1, Tn: 1, Tn166: 1,
		Tw: Tw2, Tw166: Tw2166,
		ta: ta2, TA: TA2, TAS: TAS2,
		BR: BR2, F: F2, rs: rs2,
	}
}

// bandIrradiance composes the irradiance components of one band.
//
//	e0n:  extraterrestrial irradiance apportioned to the band [Wm-2]
//	cosz: cosine of the zenith angle
//	ba:   aerosol forward scatterance factor
//	rg:   ground albedo
//
// Returns the direct beam irradiance, the incident diffuse irradiance on a
// perfectly absorbing ground, and the contribution of multiple reflections
// between the ground and the atmosphere.
func bandIrradiance(e0n float64, cosz float64, ba float64, rg float64, b bandFactors) (ebn float64, edp float64, edd float64) {
	ebn = e0n * b.TR * b.Tg * b.To * b.Tn * b.Tw * b.TA
	edp = e0n * cosz * b.To * b.Tg * b.Tn166 * b.Tw166 *
		(b.BR*(1-b.TR)*math.Pow(b.TA, 0.25) + ba*b.F*b.TR*(1-math.Pow(b.TAS, 0.25)))
	edd = rg * b.rs * (ebn*cosz + edp) / (1 - rg*b.rs)
	return ebn, edp, edd
}

// ClearSkyRadiation runs the REST2v5 clear sky model element-wise over
// equally sized columns and returns the global horizontal, direct normal and
// diffuse horizontal irradiance [Wm-2].
//
//	zenithRad [radians]  solar zenith angle
//	eext      [Wm-2]     extraterrestrial normal irradiance
//	atm                  atmospheric columns, clamped internally
//
// The computation is pure: no input column is modified and no state survives
// the call. Out-of-range atmospheric inputs are clamped, sun-below-horizon
// elements are zeroed, and any negative or NaN
// result is floored to zero, so every output element is finite and
// non-negative.
func ClearSkyRadiation(zenithRad []float64, eext []float64, atm *AtmosphericState) (ghi []float64, dni []float64, dhi []float64) {
	cl := atm.Clamped()
	n := len(zenithRad)

	ghi = make([]float64, n)
	dni = make([]float64, n)
	dhi = make([]float64, n)

	for i := 0; i < n; i++ {
		zen := zenithRad[i]
		zdeg := zen * 180.0 / math.Pi
		cosz := math.Cos(zen)

		am := relativeAirMass(zen, cl.Pressure[i])

		// Angstrom turbidity, shared by both bands
		alpha := cl.AngstromExponent[i]
		beta := clamp(cl.AOD550[i]/math.Pow(0.55, -alpha), 0, 1.1)

		rg := cl.SurfaceAlbedo[i]
		w := cl.WaterVapour[i]

		b1 := band1Transmittance(am, cl.Ozone[i], cl.NitrogenDioxide[i], w, beta, alpha)
		b2 := band2Transmittance(am, w, beta, alpha)

		// aerosol forward scatterance factor
		ba := 1 - math.Exp(-0.6931-1.8326*cosz)

		ebn1, edp1, edd1 := bandIrradiance(eext[i]*0.46512, cosz, ba, rg, b1)
		ebn2, edp2, edd2 := bandIrradiance(eext[i]*0.51951, cosz, ba, rg, b2)

		d := ebn1 + ebn2
		ebh := d * cosz
		s := edp1 + edd1 + edp2 + edd2
		if zdeg > 90 {
			// sun below the horizon: no radiation. The diffuse fits are not
			// valid past 90 degrees and can come out positive in deep night,
			// so the diffuse part is zeroed explicitly too.
			d = 0
			ebh = 0
			s = 0
		}

		ghi[i] = qualityFloor(ebh + s)
		dni[i] = qualityFloor(d)
		dhi[i] = qualityFloor(s)
	}

	return ghi, dni, dhi
}

// qualityFloor replaces negative and NaN values with zero.
func qualityFloor(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
