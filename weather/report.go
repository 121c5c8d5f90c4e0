package weather

import (
	"fmt"
	"io"
	"strconv"
	"time"
)

const (
	dailyCount  = 7
	hourlyCount = 12
)

// Report is the forecast formatted for reading.
type Report struct {
	Header []string
	Daily  []string
	Hourly []string
}

// NewReport formats w for the given place. Times are shown in loc.
func NewReport(w *Response, place string, loc *time.Location) Report {
	var r Report
	at := func(ts int64) time.Time { return time.Unix(ts, 0).In(loc) }

	r.Header = []string{
		"📍 " + place,
		"Current Temp: " + degrees(w.Current.Temp),
		"Sunrise: " + at(w.Current.Sunrise).Format("3:04 PM"),
		"Sunset: " + at(w.Current.Sunset).Format("3:04 PM"),
	}
	for i, d := range w.Daily {
		if i == dailyCount {
			break
		}
		r.Daily = append(r.Daily, fmt.Sprintf("%s: %s - %s, %s",
			at(d.Dt).Format("Mon, Jan _2"), degrees(d.Temp.Min), degrees(d.Temp.Max), describe(d.Weather)))
	}
	for i, h := range w.Hourly {
		if i == hourlyCount {
			break
		}
		r.Hourly = append(r.Hourly, fmt.Sprintf("%s: %s, %s",
			at(h.Dt).Format("Mon 3 PM"), degrees(h.Temp), describe(h.Weather)))
	}
	return r
}

// Lines is the report as printed by the weather command.
func (r Report) Lines() []string {
	var lines []string
	lines = append(lines, r.Header...)
	lines = append(lines, "", "Daily Forecasts:")
	lines = append(lines, r.Daily...)
	lines = append(lines, "")
	lines = append(lines, r.Hourly...)
	return lines
}

func (r Report) Print(w io.Writer) {
	for _, l := range r.Lines() {
		fmt.Fprintln(w, l)
	}
}

func degrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "°F"
}
