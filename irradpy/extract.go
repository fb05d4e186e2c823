package irradpy

import (
	"math"
	"time"
)

//--------------------------------------
// Atmospheric state extraction
//--------------------------------------

// ClimatologyExtractor supplies a fixed set of atmospheric values for every
// site and timestamp, with the pressure corrected barometrically to the
// station elevation. It satisfies Extractor and stands in where no gridded
// reanalysis reader is wired; a MERRA-2 style reader plugs into the same
// interface.
type ClimatologyExtractor struct {
	SeaLevelPressure float64 // mb
	WaterVapour      float64 // atm.cm
	Ozone            float64 // atm.cm
	NitrogenDioxide  float64 // atm.cm
	AOD550           float64
	AngstromExponent float64
	SurfaceAlbedo    float64
}

// DefaultExtractor returns a ClimatologyExtractor loaded with mid-latitude
// reference values.
func DefaultExtractor() *ClimatologyExtractor {
	return &ClimatologyExtractor{
		SeaLevelPressure: 1013.25,
		WaterVapour:      1.42,
		Ozone:            0.34,
		NitrogenDioxide:  0.0002,
		AOD550:           0.1,
		AngstromExponent: 1.3,
		SurfaceAlbedo:    0.2,
	}
}

// FetchAtmosphericState fills the atmospheric columns for every (site, time)
// pair, flattened site-major. dataDir is unused: the climatology carries no
// file backing.
func (x *ClimatologyExtractor) FetchAtmosphericState(lat []float64, lon []float64, elev []float64, times []time.Time, dataDir string) (*AtmosphericState, error) {
	n := len(lat) * len(times)
	atm := &AtmosphericState{
		Pressure:         make([]float64, n),
		WaterVapour:      make([]float64, n),
		Ozone:            make([]float64, n),
		NitrogenDioxide:  make([]float64, n),
		AOD550:           make([]float64, n),
		AngstromExponent: make([]float64, n),
		SurfaceAlbedo:    make([]float64, n),
	}

	for s := range lat {
		// pressure corrected to station elevation, standard lapse rate
		pres := correctedPressure(x.SeaLevelPressure, elev[s])
		for t := range times {
			i := s*len(times) + t
			atm.Pressure[i] = pres
			atm.WaterVapour[i] = x.WaterVapour
			atm.Ozone[i] = x.Ozone
			atm.NitrogenDioxide[i] = x.NitrogenDioxide
			atm.AOD550[i] = x.AOD550
			atm.AngstromExponent[i] = x.AngstromExponent
			atm.SurfaceAlbedo[i] = x.SurfaceAlbedo
		}
	}
	return atm, nil
}

// correctedPressure scales a sea-level pressure [mb] to the station
// elevation [m] with the standard atmosphere lapse rate of 0.0065 K/m at
// 15 degrees C.
func correctedPressure(seaLevel float64, elev float64) float64 {
	return seaLevel * math.Pow(1-(elev*0.0065)/288.15, 5.257)
}
