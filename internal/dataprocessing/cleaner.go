package dataprocessing

import (
	"log/slog"
	"math"
	"sort"

	"covidcli/pkg/contracts/domain"
)

// Cleaner restricts a dataset to the countries of interest and repairs gaps
// in the per-country series.
type Cleaner struct {
	logger    *slog.Logger
	countries []string
}

// NewCleaner creates a cleaner for the given country set
func NewCleaner(logger *slog.Logger, countries []string) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger, countries: countries}
}

// Clean returns a new dataset containing only the configured countries, with
// each country series sorted by date ascending, cumulative metrics forward
// filled, and any remaining missing values set to zero. Countries absent from
// the input are logged and omitted; an input with none of the configured
// countries yields an empty dataset, not an error.
func (c *Cleaner) Clean(ds *domain.Dataset) *domain.Dataset {
	wanted := make(map[string]bool, len(c.countries))
	for _, name := range c.countries {
		wanted[name] = true
	}

	out := &domain.Dataset{
		ByCountry: make(map[string][]domain.Record),
		Stats:     ds.Stats,
	}

	// Preserve input first-seen order so downstream tie-breaks are stable.
	for _, country := range ds.Countries {
		if !wanted[country] {
			continue
		}
		series := append([]domain.Record(nil), ds.ByCountry[country]...)
		sort.SliceStable(series, func(i, j int) bool {
			return series[i].Date.Before(series[j].Date)
		})
		forwardFill(series)
		zeroFillRemaining(series)

		out.Countries = append(out.Countries, country)
		out.ByCountry[country] = series
		out.Records = append(out.Records, series...)
	}

	for _, name := range c.countries {
		if _, found := out.ByCountry[name]; !found {
			c.logger.Warn("No data for requested country", slog.String("country", name))
		}
	}

	c.logger.Info("Cleaned dataset",
		slog.Int("countries", len(out.Countries)),
		slog.Int("records", len(out.Records)))

	return out
}

// forwardFill carries the last seen value of each cumulative metric forward
// over missing cells, per country series.
func forwardFill(series []domain.Record) {
	fill := func(get func(*domain.Record) *float64) {
		last := math.NaN()
		for i := range series {
			v := get(&series[i])
			if domain.HasValue(*v) {
				last = *v
			} else {
				*v = last
			}
		}
	}

	fill(func(r *domain.Record) *float64 { return &r.TotalCases })
	fill(func(r *domain.Record) *float64 { return &r.TotalDeaths })
	fill(func(r *domain.Record) *float64 { return &r.TotalVaccinations })
	fill(func(r *domain.Record) *float64 { return &r.PeopleVaccinated })
	fill(func(r *domain.Record) *float64 { return &r.Population })
	fill(func(r *domain.Record) *float64 { return &r.DeathsPerMillion })
}

// zeroFillRemaining replaces any missing value that survived forward filling
// with zero so no NaN reaches metric derivation or the charts.
func zeroFillRemaining(series []domain.Record) {
	for i := range series {
		r := &series[i]
		for _, v := range []*float64{
			&r.TotalCases, &r.NewCases, &r.TotalDeaths, &r.NewDeaths,
			&r.TotalVaccinations, &r.PeopleVaccinated, &r.Population,
			&r.DeathsPerMillion,
		} {
			if !domain.HasValue(*v) {
				*v = 0
			}
		}
	}
}
