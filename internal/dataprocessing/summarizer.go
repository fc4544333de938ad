package dataprocessing

import (
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"covidcli/pkg/contracts/domain"
)

// Summarizer generates the key-insights report from the derived dataset.
type Summarizer struct {
	logger     *slog.Logger
	windowDays int
}

// SummarizerConfig holds configuration options for the Summarizer.
type SummarizerConfig struct {
	TrailingWindowDays int // window for the average new cases insight
}

// NewSummarizer creates a new insights summarizer with the given configuration.
func NewSummarizer(logger *slog.Logger, config SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.TrailingWindowDays <= 0 {
		config.TrailingWindowDays = 30
	}
	return &Summarizer{logger: logger, windowDays: config.TrailingWindowDays}
}

// CountryValue pairs a country with a metric value. Valid is false when the
// metric could not be determined, e.g. on an empty snapshot.
type CountryValue struct {
	Country string
	Value   float64
	Valid   bool
}

// Insights holds the extremal metrics reported at the end of a run.
//
// All maxima tie-break to the first country in dataset order, which is the
// order countries first appear in the input file.
type Insights struct {
	GeneratedAt time.Time
	StartDate   time.Time
	EndDate     time.Time
	Records     int
	Countries   []string
	WindowDays  int

	HighestTotalCases       CountryValue
	HighestDeathRate        CountryValue
	HighestVaccinationPct   CountryValue
	HighestAvgNewCases      CountryValue
	HighestDeathsPerMillion CountryValue
}

// Summarize computes the insight set from the cleaned dataset and its latest
// snapshot. An empty snapshot produces an Insights value with every metric
// marked invalid rather than an error.
func (s *Summarizer) Summarize(ds *domain.Dataset, snap *domain.Snapshot) *Insights {
	insights := &Insights{
		GeneratedAt: time.Now(),
		Records:     len(ds.Records),
		Countries:   append([]string(nil), ds.Countries...),
		WindowDays:  s.windowDays,
	}
	insights.StartDate, insights.EndDate = ds.DateRange()

	if snap.Empty() {
		s.logger.Warn("No snapshot data, insights will be empty")
		return insights
	}

	insights.HighestTotalCases = maxOver(snap.Records, func(r domain.Record) float64 { return r.TotalCases })
	insights.HighestDeathRate = maxOver(snap.Records, func(r domain.Record) float64 { return r.DeathRate })
	insights.HighestVaccinationPct = maxOver(snap.Records, func(r domain.Record) float64 { return r.VaccinationPct })
	insights.HighestAvgNewCases = s.highestAvgNewCases(ds, snap.Date)

	perMillion := maxOver(snap.Records, func(r domain.Record) float64 { return r.DeathsPerMillion })
	if perMillion.Value > 0 {
		insights.HighestDeathsPerMillion = perMillion
	}

	s.logger.Info("Generated insights",
		slog.String("highest_total_cases", insights.HighestTotalCases.Country),
		slog.String("highest_death_rate", insights.HighestDeathRate.Country),
		slog.String("highest_vaccination_pct", insights.HighestVaccinationPct.Country))

	return insights
}

// maxOver picks the record maximizing value. Strict comparison keeps the
// first country on ties.
func maxOver(records []domain.Record, value func(domain.Record) float64) CountryValue {
	if len(records) == 0 {
		return CountryValue{}
	}
	best := CountryValue{Country: records[0].Country, Value: value(records[0]), Valid: true}
	for _, r := range records[1:] {
		if v := value(r); v > best.Value {
			best = CountryValue{Country: r.Country, Value: v, Valid: true}
		}
	}
	return best
}

// highestAvgNewCases averages NewCases per country over the trailing window
// ending at the snapshot date and returns the maximum.
func (s *Summarizer) highestAvgNewCases(ds *domain.Dataset, end time.Time) CountryValue {
	cutoff := end.AddDate(0, 0, -s.windowDays)

	var best CountryValue
	for _, country := range ds.Countries {
		var sum float64
		var n int
		for _, r := range ds.ByCountry[country] {
			if r.Date.Before(cutoff) {
				continue
			}
			sum += r.NewCases
			n++
		}
		if n == 0 {
			continue
		}
		avg := sum / float64(n)
		if !best.Valid || avg > best.Value {
			best = CountryValue{Country: country, Value: avg, Valid: true}
		}
	}
	return best
}

// FormatText renders the insights as the human-readable report printed at
// the end of a run.
func (in *Insights) FormatText() string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	b.WriteString("Key Insights\n")
	b.WriteString(strings.Repeat("-", 50) + "\n")

	if !in.HighestTotalCases.Valid {
		b.WriteString("No data available for the selected countries.\n")
		return b.String()
	}

	p.Fprintf(&b, "1. Highest total cases: %s - %.0f\n",
		in.HighestTotalCases.Country, in.HighestTotalCases.Value)
	p.Fprintf(&b, "2. Highest death rate: %s - %.2f%%\n",
		in.HighestDeathRate.Country, in.HighestDeathRate.Value*100)
	p.Fprintf(&b, "3. Highest vaccination rate: %s - %.2f%%\n",
		in.HighestVaccinationPct.Country, in.HighestVaccinationPct.Value)
	if in.HighestAvgNewCases.Valid {
		p.Fprintf(&b, "4. Highest average new cases (last %d days): %s - %.2f\n",
			in.WindowDays, in.HighestAvgNewCases.Country, in.HighestAvgNewCases.Value)
	}
	if in.HighestDeathsPerMillion.Valid {
		p.Fprintf(&b, "5. Highest deaths per million: %s - %.2f\n",
			in.HighestDeathsPerMillion.Country, in.HighestDeathsPerMillion.Value)
	}

	p.Fprintf(&b, "\nData spans %s to %s across %d countries (%d records).\n",
		in.StartDate.Format(dateLayout), in.EndDate.Format(dateLayout),
		len(in.Countries), in.Records)

	return b.String()
}
