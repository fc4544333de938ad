package domain

import (
	"math"
	"time"
)

// Record is one country/date row of COVID-19 statistics.
// Optional numeric fields that are absent in the source data are NaN until
// the cleaning stage resolves them (forward fill, then zero fill).
type Record struct {
	Country           string    `json:"country" csv:"Country"`
	Date              time.Time `json:"date" csv:"Date"`
	TotalCases        float64   `json:"total_cases" csv:"TotalCases"`
	NewCases          float64   `json:"new_cases" csv:"NewCases"`
	TotalDeaths       float64   `json:"total_deaths" csv:"TotalDeaths"`
	NewDeaths         float64   `json:"new_deaths" csv:"NewDeaths"`
	TotalVaccinations float64   `json:"total_vaccinations" csv:"TotalVaccinations"`
	PeopleVaccinated  float64   `json:"people_vaccinated" csv:"PeopleVaccinated"`
	Population        float64   `json:"population" csv:"Population"`
	DeathsPerMillion  float64   `json:"total_deaths_per_million" csv:"DeathsPerMillion"`

	// Derived metrics, populated by the derive stage.
	DeathRate      float64 `json:"death_rate" csv:"DeathRate"`
	VaccinationPct float64 `json:"vaccination_pct" csv:"VaccinationPct"`
}

// HasValue reports whether an optional numeric field carries real data.
func HasValue(v float64) bool {
	return !math.IsNaN(v)
}

// Dataset is an in-memory snapshot of the parsed statistics table.
// Countries preserves first-seen input order; ByCountry series are sorted by
// date ascending after cleaning.
type Dataset struct {
	Records   []Record
	Countries []string
	ByCountry map[string][]Record
	Stats     ParseStats
}

// ParseStats records data-quality counters from the load stage.
type ParseStats struct {
	TotalRows   int
	ParsedRows  int
	DroppedRows int
}

// Empty reports whether the dataset holds no records.
func (d *Dataset) Empty() bool {
	return d == nil || len(d.Records) == 0
}

// DateRange returns the earliest and latest dates present in the dataset.
func (d *Dataset) DateRange() (start, end time.Time) {
	for _, r := range d.Records {
		if start.IsZero() || r.Date.Before(start) {
			start = r.Date
		}
		if r.Date.After(end) {
			end = r.Date
		}
	}
	return start, end
}

// Snapshot holds the most recent record per country, in dataset country order.
type Snapshot struct {
	Date    time.Time
	Records []Record
}

// Empty reports whether the snapshot holds no records.
func (s *Snapshot) Empty() bool {
	return s == nil || len(s.Records) == 0
}
