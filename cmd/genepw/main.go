// Command genepw generates deterministic synthetic EPW files for tests and
// local development. Values follow simple diurnal and seasonal sine curves so
// plotted output looks plausible without any real weather data.
//
// Usage:
//
//	go run ./cmd/genepw -out testdata/synthetic.epw -rows 8760
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type params struct {
	out       string
	rows      int
	year      int
	city      string
	state     string
	country   string
	wmo       string
	lat       float64
	lon       float64
	tz        float64
	altitude  float64
	minuteVal int
	columns   int
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var p params
	flag.StringVar(&p.out, "out", "", "output path for the generated EPW file")
	flag.IntVar(&p.rows, "rows", 8760, "number of hourly data rows")
	flag.IntVar(&p.year, "year", 1987, "nominal year written to the data rows")
	flag.StringVar(&p.city, "city", "Testville", "LOCATION city")
	flag.StringVar(&p.state, "state", "ST", "LOCATION state or province")
	flag.StringVar(&p.country, "country", "USA", "LOCATION country")
	flag.StringVar(&p.wmo, "wmo", "999999", "LOCATION WMO station number")
	flag.Float64Var(&p.lat, "lat", 40.0, "LOCATION latitude")
	flag.Float64Var(&p.lon, "lon", -105.0, "LOCATION longitude")
	flag.Float64Var(&p.tz, "tz", -7.0, "LOCATION time zone offset")
	flag.Float64Var(&p.altitude, "altitude", 1650.0, "LOCATION altitude in meters")
	flag.IntVar(&p.minuteVal, "minute", 60, "minute value written per row (60 marks end-of-hour)")
	flag.IntVar(&p.columns, "columns", 35, "number of data columns to emit (truncate to simulate short files)")
	flag.Parse()

	if p.out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if p.rows < 1 {
		return fmt.Errorf("-rows must be positive, got %d", p.rows)
	}

	if err := os.MkdirAll(filepath.Dir(p.out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(p.out)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	writeHeaders(w, p)
	writeRows(w, p)
	if err := w.Flush(); err != nil {
		return err
	}

	log.Printf("wrote %s: %d rows for %s, %s", p.out, p.rows, p.city, p.country)
	return nil
}

// writeHeaders emits the 8 EPW header lines. Only LOCATION carries real
// content; the rest are structural fillers the parser skips.
func writeHeaders(w *bufio.Writer, p params) {
	fmt.Fprintf(w, "LOCATION,%s,%s,%s,SYN,%s,%g,%g,%g,%g\n",
		p.city, p.state, p.country, p.wmo, p.lat, p.lon, p.tz, p.altitude)
	fmt.Fprintln(w, "DESIGN CONDITIONS,0")
	fmt.Fprintln(w, "TYPICAL/EXTREME PERIODS,0")
	fmt.Fprintln(w, "GROUND TEMPERATURES,0")
	fmt.Fprintln(w, "HOLIDAYS/DAYLIGHT SAVINGS,No,0,0,0")
	fmt.Fprintln(w, "COMMENTS 1,synthetic data generated by genepw")
	fmt.Fprintln(w, "COMMENTS 2,")
	fmt.Fprintf(w, "DATA PERIODS,1,1,Data,Sunday,1/1,12/31\n")
}

// writeRows emits hourly rows using the EPW hour convention: hours run 1-24
// within each calendar day, where hour 24 is the last hour of that day.
func writeRows(w *bufio.Writer, p params) {
	base := time.Date(p.year, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < p.rows; i++ {
		day := base.AddDate(0, 0, i/24)
		epwHour := i%24 + 1
		cols := rowColumns(day, epwHour, p)
		if p.columns < len(cols) {
			cols = cols[:p.columns]
		}
		fmt.Fprintln(w, strings.Join(cols, ","))
	}
}

// rowColumns builds the standard 35 EPW data columns for one timestamp.
// Unmodeled fields get the EPW missing sentinel 9999/99999.
func rowColumns(day time.Time, epwHour int, p params) []string {
	hourOfDay := float64(epwHour - 1)
	dayOfYear := float64(day.YearDay())

	// Diurnal swing around a seasonal baseline.
	seasonal := 10*math.Sin(2*math.Pi*(dayOfYear-81)/365) + 10
	diurnal := 8 * math.Sin(2*math.Pi*(hourOfDay-9)/24)
	dryBulb := seasonal + diurnal
	dewPoint := dryBulb - 5
	humidity := 60 - diurnal
	pressure := 101325 - p.altitude*11

	// Zero radiation at night, sine hump across daylight hours.
	var global, direct, diffuse float64
	if hourOfDay >= 6 && hourOfDay <= 18 {
		sun := math.Sin(math.Pi * (hourOfDay - 6) / 12)
		global = 800 * sun
		direct = 600 * sun
		diffuse = global - direct*sun
	}

	windDir := math.Mod(dayOfYear*7+hourOfDay*15, 360)
	windSpeed := 3 + 2*math.Sin(2*math.Pi*hourOfDay/24)
	skyCover := 5 + 4*math.Sin(2*math.Pi*dayOfYear/365)

	cols := make([]string, 35)
	for i := range cols {
		cols[i] = "9999"
	}
	cols[0] = fmt.Sprintf("%d", day.Year())
	cols[1] = fmt.Sprintf("%d", int(day.Month()))
	cols[2] = fmt.Sprintf("%d", day.Day())
	cols[3] = fmt.Sprintf("%d", epwHour)
	cols[4] = fmt.Sprintf("%d", p.minuteVal)
	cols[5] = "?9?9?9?9E0?9?9?9?9?9?9?9?9?9?9?9?9?9?9?9*9*9?9?9?9"
	cols[6] = fmt.Sprintf("%.1f", dryBulb)
	cols[7] = fmt.Sprintf("%.1f", dewPoint)
	cols[8] = fmt.Sprintf("%.0f", humidity)
	cols[9] = fmt.Sprintf("%.0f", pressure)
	cols[12] = fmt.Sprintf("%.0f", 330+global/10)
	cols[13] = fmt.Sprintf("%.0f", global)
	cols[14] = fmt.Sprintf("%.0f", direct)
	cols[15] = fmt.Sprintf("%.0f", diffuse)
	cols[16] = fmt.Sprintf("%.0f", global*110)
	cols[17] = fmt.Sprintf("%.0f", direct*110)
	cols[18] = fmt.Sprintf("%.0f", diffuse*110)
	cols[20] = fmt.Sprintf("%.0f", windDir)
	cols[21] = fmt.Sprintf("%.1f", windSpeed)
	cols[22] = fmt.Sprintf("%.0f", skyCover)
	return cols
}
