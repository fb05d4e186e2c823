// irradpy-go
package main

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/akamensky/argparse"
	"github.com/cbhramar/irradpy-go/irradpy"
	"github.com/hhkbp2/go-logging"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v2"
)

// SiteConfig is one entry of the --sites YAML file. Start, End and Step
// override the command line flags for that site only.
type SiteConfig struct {
	Name  string  `yaml:"name"`
	Lat   float64 `yaml:"lat"`
	Lon   float64 `yaml:"lon"`
	Elev  float64 `yaml:"elev"`
	Start string  `yaml:"start"`
	End   string  `yaml:"end"`
	Step  int     `yaml:"step"`
}

// SitesFile is the root of the --sites YAML file.
type SitesFile struct {
	Sites []SiteConfig `yaml:"sites"`
}

func main() {
	parser := argparse.NewParser("irradpy", "Computes REST2v5 clear-sky irradiance (GHI, DNI, DHI) for any specified point")

	lat := parser.FloatPositional(&argparse.Options{
		Default: 35.658,
		Help:    "Latitude of the target point (decimal degrees)"})

	lon := parser.FloatPositional(&argparse.Options{
		Default: 139.741,
		Help:    "Longitude of the target point (decimal degrees)"})

	elev := parser.Float("", "elevation", &argparse.Options{
		Default: 0.0,
		Help:    "Elevation of the target point [m]"})

	start := parser.String("", "start", &argparse.Options{
		Default: "2019-06-21T00:00:00",
		Help:    "First timestamp (UTC)"})

	end := parser.String("", "end", &argparse.Options{
		Default: "2019-06-21T23:00:00",
		Help:    "Last timestamp (UTC)"})

	step := parser.Int("", "step", &argparse.Options{
		Default: 60,
		Help:    "Time step [minutes]"})

	sitesPath := parser.String("", "sites", &argparse.Options{
		Default: "",
		Help:    "YAML file with a list of sites, overrides the positional point"})

	filename := parser.String("o", "output", &argparse.Options{
		Default: "",
		Help:    "Output file path (stdout if empty)"})

	raw := parser.Flag("", "raw", &argparse.Options{
		Help: "Output raw GHI/DNI/DHI rows per site instead of per-site tables"})

	dataDir := parser.String("", "data_dir", &argparse.Options{
		Default: ".irradpy_cache",
		Help:    "Directory handed to the atmospheric data extractor"})

	level := parser.Selector("", "log", []string{"DEBUG", "INFO", "WARN", "ERROR"}, &argparse.Options{
		Default: "INFO",
		Help:    "Log level"})

	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger := logging.GetLogger("irradpy")
	switch *level {
	case "DEBUG":
		logger.SetLevel(logging.LevelDebug)
	case "INFO":
		logger.SetLevel(logging.LevelInfo)
	case "WARN":
		logger.SetLevel(logging.LevelWarn)
	case "ERROR":
		logger.SetLevel(logging.LevelError)
	}

	sites := []SiteConfig{{Name: "site", Lat: *lat, Lon: *lon, Elev: *elev}}
	if *sitesPath != "" {
		sites, err = loadSites(*sitesPath)
		if err != nil {
			logger.Errorf("cannot load sites file %s: %s", *sitesPath, err)
			os.Exit(1)
		}
	}

	lats := make([]float64, len(sites))
	lons := make([]float64, len(sites))
	elevs := make([]float64, len(sites))
	grids := make([][]time.Time, len(sites))
	for i, st := range sites {
		lats[i] = st.Lat
		lons[i] = st.Lon
		elevs[i] = st.Elev
		grids[i], err = buildGrid(st, *start, *end, *step)
		if err != nil {
			logger.Errorf("site %s: %s", st.Name, err)
			os.Exit(1)
		}
	}

	model, err := irradpy.NewClearSkyREST2v5(lats, lons, elevs, grids, *dataDir, !*raw)
	if err != nil {
		logger.Errorf("invalid site definition: %s", err)
		os.Exit(1)
	}

	res, err := model.REST2v5()
	if err != nil {
		logger.Errorf("model run failed: %s", err)
		os.Exit(1)
	}

	buf := bytes.NewBuffer([]byte{})
	if *raw {
		writeRaw(buf, sites, res)
		for i := range sites {
			logger.Infof("%s: peak GHI %.1f Wm-2", sites[i].Name, floats.Max(res.GHI[i]))
		}
	} else {
		for i := range res.Stations {
			res.Stations[i].Name = sites[i].Name
			if len(res.Stations) > 1 {
				buf.WriteString("# " + sites[i].Name + "\n")
			}
			res.Stations[i].ToCSV(buf)
			logger.Infof("%s: peak GHI %.1f Wm-2, daily sum %.2f MJ/m2",
				sites[i].Name,
				floats.Max(res.Stations[i].GHI),
				floats.Sum(res.Stations[i].GHI)*float64(*step)*60/1e6)
		}
	}

	if *filename == "" {
		fmt.Print(buf.String())
	} else {
		logger.Infof("saving output: %s", *filename)
		if err := os.WriteFile(*filename, buf.Bytes(), os.ModePerm); err != nil {
			logger.Errorf("cannot write %s: %s", *filename, err)
			os.Exit(1)
		}
	}
}

func loadSites(path string) ([]SiteConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f SitesFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	if len(f.Sites) == 0 {
		return nil, fmt.Errorf("no sites defined in %s", path)
	}
	for i := range f.Sites {
		if f.Sites[i].Name == "" {
			f.Sites[i].Name = "site" + strconv.Itoa(i)
		}
	}
	return f.Sites, nil
}

// buildGrid expands a site definition into its timestamp grid, taking
// per-site overrides from the YAML entry when present.
func buildGrid(st SiteConfig, start string, end string, stepMin int) ([]time.Time, error) {
	if st.Start != "" {
		start = st.Start
	}
	if st.End != "" {
		end = st.End
	}
	if st.Step > 0 {
		stepMin = st.Step
	}
	if stepMin <= 0 {
		return nil, fmt.Errorf("step must be positive, got %d", stepMin)
	}

	from, err := parseTime(start)
	if err != nil {
		return nil, err
	}
	to, err := parseTime(end)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("end %s before start %s", end, start)
	}

	step := time.Duration(stepMin) * time.Minute
	grid := []time.Time{}
	for t := from; !t.After(to); t = t.Add(step) {
		grid = append(grid, t)
	}
	return grid, nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func writeRaw(buf *bytes.Buffer, sites []SiteConfig, res *irradpy.Result) {
	buf.WriteString("site,component,values...\n")
	writeRow := func(name string, component string, col []float64) {
		buf.WriteString(name)
		buf.WriteString(",")
		buf.WriteString(component)
		for _, v := range col {
			buf.WriteString(",")
			buf.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		}
		buf.WriteString("\n")
	}
	for i := range sites {
		writeRow(sites[i].Name, "GHI", res.GHI[i])
		writeRow(sites[i].Name, "DNI", res.DNI[i])
		writeRow(sites[i].Name, "DHI", res.DHI[i])
	}
}
