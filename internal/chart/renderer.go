// Package chart renders the pipeline's PNG chart artifacts with go-chart.
// A failed chart is reported to the caller but never stops the remaining
// charts from rendering.
package chart

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	pipeerrors "covidcli/internal/errors"
	"covidcli/pkg/contracts/domain"
)

// Renderer renders chart PNGs into an output directory.
type Renderer struct {
	logger *slog.Logger
	outDir string
	width  int
	height int
}

// Options configures chart rendering
type Options struct {
	OutDir string
	Width  int
	Height int
}

// NewRenderer creates a chart renderer
func NewRenderer(logger *slog.Logger, opts Options) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 720
	}
	return &Renderer{
		logger: logger,
		outDir: opts.OutDir,
		width:  opts.Width,
		height: opts.Height,
	}
}

// RenderAll renders every chart for the dataset and snapshot and returns the
// paths of the files actually written. Individual chart failures are logged
// and skipped; focusCountry selects the country for the vaccination pie.
func (r *Renderer) RenderAll(ds *domain.Dataset, snap *domain.Snapshot, focusCountry string) []string {
	type job struct {
		name   string
		render func() error
	}

	jobs := []job{
		{"total_cases_over_time.png", func() error {
			return r.timeSeries("total_cases_over_time.png", "Total COVID-19 Cases Over Time", "Total Cases", ds,
				func(rec domain.Record) float64 { return rec.TotalCases })
		}},
		{"total_deaths_over_time.png", func() error {
			return r.timeSeries("total_deaths_over_time.png", "Total COVID-19 Deaths Over Time", "Total Deaths", ds,
				func(rec domain.Record) float64 { return rec.TotalDeaths })
		}},
		{"death_rate_over_time.png", func() error {
			return r.timeSeries("death_rate_over_time.png", "COVID-19 Death Rate Over Time (%)", "Death Rate (%)", ds,
				func(rec domain.Record) float64 { return rec.DeathRate * 100 })
		}},
		{"vaccination_pct_over_time.png", func() error {
			return r.timeSeries("vaccination_pct_over_time.png", "Vaccination Percentage Over Time", "Vaccinated (% of Population)", ds,
				func(rec domain.Record) float64 { return rec.VaccinationPct })
		}},
		{"latest_total_cases.png", func() error {
			return r.barChart("latest_total_cases.png", "Total Cases by Country (Latest Data)", snap,
				func(rec domain.Record) float64 { return rec.TotalCases })
		}},
		{"latest_total_deaths.png", func() error {
			return r.barChart("latest_total_deaths.png", "Total Deaths by Country (Latest Data)", snap,
				func(rec domain.Record) float64 { return rec.TotalDeaths })
		}},
		{"latest_vaccination_rate.png", func() error {
			return r.barChart("latest_vaccination_rate.png", "Vaccination Rate by Country (%) (Latest Data)", snap,
				func(rec domain.Record) float64 { return rec.VaccinationPct })
		}},
		{"vaccination_status_pie.png", func() error {
			return r.vaccinationPie("vaccination_status_pie.png", snap, focusCountry)
		}},
	}

	var written []string
	for _, j := range jobs {
		if err := j.render(); err != nil {
			r.logger.Warn("Chart skipped",
				slog.String("chart", j.name),
				slog.String("error", err.Error()))
			continue
		}
		written = append(written, filepath.Join(r.outDir, j.name))
	}

	r.logger.Info("Chart rendering complete",
		slog.Int("rendered", len(written)),
		slog.Int("skipped", len(jobs)-len(written)))

	return written
}

// timeSeries renders one line per country over time.
func (r *Renderer) timeSeries(filename, title, yLabel string, ds *domain.Dataset, value func(domain.Record) float64) error {
	var series []chart.Series
	for i, country := range ds.Countries {
		recs := ds.ByCountry[country]
		// go-chart needs at least two points to compute a range
		if len(recs) < 2 {
			continue
		}
		xs := make([]time.Time, 0, len(recs))
		ys := make([]float64, 0, len(recs))
		for _, rec := range recs {
			xs = append(xs, rec.Date)
			ys = append(ys, value(rec))
		}
		series = append(series, chart.TimeSeries{
			Name:    country,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: chart.GetDefaultColor(i),
				StrokeWidth: 2,
			},
		})
	}
	if len(series) == 0 {
		return fmt.Errorf("%w: no plottable series for %s", pipeerrors.ErrChartRender, filename)
	}

	ch := chart.Chart{
		Title:      title,
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Date"},
		YAxis:      chart.YAxis{Name: yLabel},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return r.renderToFile(filename, func(f *os.File) error {
		return ch.Render(chart.PNG, f)
	})
}

// barChart renders one bar per snapshot country, sorted descending by value.
func (r *Renderer) barChart(filename, title string, snap *domain.Snapshot, value func(domain.Record) float64) error {
	if snap.Empty() {
		return fmt.Errorf("%w: empty snapshot for %s", pipeerrors.ErrChartRender, filename)
	}

	bars := make([]chart.Value, 0, len(snap.Records))
	for _, rec := range snap.Records {
		bars = append(bars, chart.Value{Label: rec.Country, Value: value(rec)})
	}
	sortBarsDesc(bars)

	ch := chart.BarChart{
		Title:      title,
		Width:      r.width,
		Height:     r.height,
		BarWidth:   60,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Bars:       bars,
	}

	return r.renderToFile(filename, func(f *os.File) error {
		return ch.Render(chart.PNG, f)
	})
}

// vaccinationPie renders the vaccinated/unvaccinated split of one country.
func (r *Renderer) vaccinationPie(filename string, snap *domain.Snapshot, country string) error {
	var rec *domain.Record
	for i := range snap.Records {
		if snap.Records[i].Country == country {
			rec = &snap.Records[i]
			break
		}
	}
	if rec == nil {
		return fmt.Errorf("%w: no snapshot data for %s", pipeerrors.ErrChartRender, country)
	}
	if rec.Population <= 0 {
		return fmt.Errorf("%w: no population data for %s", pipeerrors.ErrChartRender, country)
	}

	vaccinated := rec.PeopleVaccinated
	if vaccinated <= 0 {
		vaccinated = rec.TotalVaccinations
	}
	if vaccinated > rec.Population {
		vaccinated = rec.Population
	}
	if vaccinated < 0 {
		vaccinated = 0
	}
	unvaccinated := rec.Population - vaccinated

	ch := chart.PieChart{
		Title:  fmt.Sprintf("Vaccination Status in %s (Latest Data)", country),
		Width:  r.height,
		Height: r.height,
		Values: []chart.Value{
			{Label: "Vaccinated", Value: vaccinated},
			{Label: "Unvaccinated", Value: unvaccinated},
		},
	}

	return r.renderToFile(filename, func(f *os.File) error {
		return ch.Render(chart.PNG, f)
	})
}

// renderToFile writes one chart, removing partial output on render failure.
func (r *Renderer) renderToFile(filename string, render func(*os.File) error) error {
	if err := os.MkdirAll(r.outDir, 0755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}
	path := filepath.Join(r.outDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := render(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("%w: %v", pipeerrors.ErrChartRender, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close chart file: %w", err)
	}

	r.logger.Info("Rendered chart", slog.String("file_path", path))
	return nil
}

func sortBarsDesc(bars []chart.Value) {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Value > bars[j].Value })
}
