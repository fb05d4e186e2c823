package irradpy

import (
	"bytes"
	"strconv"
	"time"
)

// StationSeries is the labeled per-site output of a model run: one row per
// timestamp with the GHI, DNI and DIF columns [Wm-2].
type StationSeries struct {
	Name string
	Time []time.Time
	GHI  []float64
	DNI  []float64
	DIF  []float64
}

// ToCSV writes the series as CSV with a date index column.
func (st *StationSeries) ToCSV(buf *bytes.Buffer) {
	buf.WriteString("date,GHI,DNI,DIF\n")

	writeFloat := func(v float64) {
		buf.WriteString(",")
		buf.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	for i := 0; i < len(st.Time); i++ {
		buf.WriteString(st.Time[i].Format("2006-01-02 15:04:05"))
		writeFloat(st.GHI[i])
		writeFloat(st.DNI[i])
		writeFloat(st.DIF[i])
		buf.WriteString("\n")
	}
}
