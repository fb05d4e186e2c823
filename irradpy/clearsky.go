// Package irradpy estimates clear-sky solar irradiance (GHI, DNI, DHI) at
// arbitrary geographic points and timestamps with the REST2v5 two-band
// broadband model.
package irradpy

import (
	"fmt"
	"math"
	"time"

	"github.com/hhkbp2/go-logging"
)

// ShapeMismatchError reports coordinate columns whose lengths differ.
type ShapeMismatchError struct {
	Lat  int
	Lon  int
	Elev int
	Time int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("lat, lon, elev and time shapes do not match: lat=%d lon=%d elev=%d time=%d",
		e.Lat, e.Lon, e.Elev, e.Time)
}

// RangeError reports a latitude or longitude outside its geographic bounds.
type RangeError struct {
	Field string
	Value float64
	Bound float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %g outside [-%g, %g], reset your %s",
		e.Field, e.Value, e.Bound, e.Bound, e.Field)
}

// SolarGeometry converts site coordinates and timestamps into solar geometry.
type SolarGeometry interface {
	// ZenithAngle returns the solar zenith angle [degrees] for every site at
	// every timestamp of the grid, indexed [site][time].
	ZenithAngle(lat []float64, lon []float64, times []time.Time) [][]float64
	// ExtraterrestrialIrradiance returns the extraterrestrial normal
	// irradiance [Wm-2] at every timestamp of the grid.
	ExtraterrestrialIrradiance(times []time.Time) []float64
}

// Extractor supplies the atmospheric input columns for a set of sites over
// one time grid, flattened site-major (same ordering as the model kernel).
type Extractor interface {
	FetchAtmosphericState(lat []float64, lon []float64, elev []float64, times []time.Time, dataDir string) (*AtmosphericState, error)
}

// ClearSkyREST2v5 evaluates the REST2v5 model over a set of sites, each with
// its own timestamp grid. Site coordinates are validated at construction and
// immutable afterwards.
type ClearSkyREST2v5 struct {
	lat     []float64
	lon     []float64
	elev    []float64
	time    [][]time.Time
	dataDir string
	tabular bool

	// Collaborators, replaceable before the first run.
	Geometry  SolarGeometry
	Extractor Extractor
}

// Result is the model output: either raw columns indexed [site][time], or
// one labeled time series per site when tabular output was requested.
type Result struct {
	GHI [][]float64
	DNI [][]float64
	DHI [][]float64

	Stations []StationSeries
}

// NewClearSkyREST2v5 validates the site definition and prepares a model run.
//
//	lat       [degrees, -90..90]
//	lon       [degrees, -180..180]
//	elev      [m]
//	times     one timestamp grid per site
//	dataDir   passed through to the extractor
//	tabular   wrap results into one labeled time series per site
//
// Mismatched column lengths fail with *ShapeMismatchError, out-of-range
// coordinates with *RangeError. No partial model is returned on failure.
func NewClearSkyREST2v5(lat []float64, lon []float64, elev []float64, times [][]time.Time, dataDir string, tabular bool) (*ClearSkyREST2v5, error) {
	if len(lat) != len(lon) || len(lat) != len(elev) || len(lat) != len(times) {
		return nil, &ShapeMismatchError{Lat: len(lat), Lon: len(lon), Elev: len(elev), Time: len(times)}
	}
	if len(lat) == 0 {
		return nil, fmt.Errorf("at least one site is required")
	}
	for _, v := range lat {
		if math.Abs(v) > 90 {
			return nil, &RangeError{Field: "latitude", Value: v, Bound: 90}
		}
	}
	for _, v := range lon {
		if math.Abs(v) > 180 {
			return nil, &RangeError{Field: "longitude", Value: v, Bound: 180}
		}
	}

	return &ClearSkyREST2v5{
		lat:       append([]float64{}, lat...),
		lon:       append([]float64{}, lon...),
		elev:      append([]float64{}, elev...),
		time:      times,
		dataDir:   dataDir,
		tabular:   tabular,
		Geometry:  DefaultGeometry(),
		Extractor: DefaultExtractor(),
	}, nil
}

// StationCount returns the number of sites of the run.
func (c *ClearSkyREST2v5) StationCount() int {
	return len(c.lat)
}

// REST2v5 runs the model for every site and timestamp.
//
// When every site shares the same timestamp grid the whole run is computed
// as one batch: one geometry call, one extraction, one pass of the kernel.
// Otherwise each site is computed independently on its own grid. Both paths
// feed the same kernel and produce identical numbers for equivalent inputs.
func (c *ClearSkyREST2v5) REST2v5() (*Result, error) {
	logger := logging.GetLogger("irradpy")

	if c.sameTimeGrids() {
		logger.Debugf("shared time grid, computing %d stations as one batch", len(c.lat))
		ghi, dni, dhi, err := c.computeGroup(c.lat, c.lon, c.elev, c.time[0])
		if err != nil {
			return nil, err
		}
		return c.wrap(ghi, dni, dhi), nil
	}

	logger.Debugf("per-station time grids, computing %d stations independently", len(c.lat))
	ghi := make([][]float64, len(c.lat))
	dni := make([][]float64, len(c.lat))
	dhi := make([][]float64, len(c.lat))
	for i := range c.lat {
		g, d, s, err := c.computeGroup(c.lat[i:i+1], c.lon[i:i+1], c.elev[i:i+1], c.time[i])
		if err != nil {
			return nil, err
		}
		ghi[i], dni[i], dhi[i] = g[0], d[0], s[0]
	}
	return c.wrap(ghi, dni, dhi), nil
}

// sameTimeGrids reports whether every site's grid equals the first site's
// grid, element for element.
func (c *ClearSkyREST2v5) sameTimeGrids() bool {
	for i := 1; i < len(c.time); i++ {
		if len(c.time[i]) != len(c.time[0]) {
			return false
		}
		for j := range c.time[i] {
			if !c.time[i][j].Equal(c.time[0][j]) {
				return false
			}
		}
	}
	return true
}

// computeGroup runs geometry, extraction and the kernel for a group of sites
// sharing one time grid, and reshapes the flat kernel columns to
// [site][time]. Both orchestration paths go through here, so grouping is
// purely a batching decision.
func (c *ClearSkyREST2v5) computeGroup(lat []float64, lon []float64, elev []float64, grid []time.Time) (ghi [][]float64, dni [][]float64, dhi [][]float64, err error) {
	zen := c.Geometry.ZenithAngle(lat, lon, grid)
	eext := c.Geometry.ExtraterrestrialIrradiance(grid)

	atm, err := c.Extractor.FetchAtmosphericState(lat, lon, elev, grid, c.dataDir)
	if err != nil {
		return nil, nil, nil, err
	}

	// flatten site-major, converting the zenith angle to radians
	n := len(lat) * len(grid)
	zenRad := make([]float64, 0, n)
	eextFlat := make([]float64, 0, n)
	for s := range lat {
		for t := range grid {
			zenRad = append(zenRad, zen[s][t]*math.Pi/180.0)
		}
		eextFlat = append(eextFlat, eext...)
	}

	g, d, s := ClearSkyRadiation(zenRad, eextFlat, atm)

	ghi = unflatten(g, len(lat), len(grid))
	dni = unflatten(d, len(lat), len(grid))
	dhi = unflatten(s, len(lat), len(grid))
	return ghi, dni, dhi, nil
}

func unflatten(flat []float64, sites int, steps int) [][]float64 {
	out := make([][]float64, sites)
	for s := 0; s < sites; s++ {
		out[s] = flat[s*steps : (s+1)*steps : (s+1)*steps]
	}
	return out
}

// wrap packages the per-site columns in the requested output form.
func (c *ClearSkyREST2v5) wrap(ghi [][]float64, dni [][]float64, dhi [][]float64) *Result {
	if !c.tabular {
		return &Result{GHI: ghi, DNI: dni, DHI: dhi}
	}

	stations := make([]StationSeries, len(c.lat))
	for i := range c.lat {
		stations[i] = StationSeries{
			Time: c.time[i],
			GHI:  ghi[i],
			DNI:  dni[i],
			DIF:  dhi[i],
		}
	}
	return &Result{Stations: stations}
}
