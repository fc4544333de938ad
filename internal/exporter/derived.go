package exporter

import (
	"strconv"

	"covidcli/internal/dataprocessing"
	"covidcli/pkg/contracts/domain"
)

// derivedHeaders is the column layout of the derived metrics table.
var derivedHeaders = []string{
	"Country", "Date", "TotalCases", "NewCases", "TotalDeaths", "NewDeaths",
	"TotalVaccinations", "PeopleVaccinated", "Population",
	"DeathRate", "VaccinationPct",
}

// WriteDerivedTable writes the cleaned, derived dataset as a CSV table.
// Rows follow dataset order: country first-seen order, dates ascending.
func (w *CSVWriter) WriteDerivedTable(filePath string, ds *domain.Dataset) error {
	records := make([][]string, 0, len(ds.Records))
	for _, r := range ds.Records {
		records = append(records, []string{
			r.Country,
			r.Date.Format("2006-01-02"),
			formatCount(r.TotalCases),
			formatCount(r.NewCases),
			formatCount(r.TotalDeaths),
			formatCount(r.NewDeaths),
			formatCount(r.TotalVaccinations),
			formatCount(r.PeopleVaccinated),
			formatCount(r.Population),
			strconv.FormatFloat(r.DeathRate, 'f', 6, 64),
			strconv.FormatFloat(r.VaccinationPct, 'f', 4, 64),
		})
	}
	return w.WriteSimpleCSV(filePath, derivedHeaders, records)
}

// WriteInsights writes the key-insights report as a sectioned CSV.
func (w *CSVWriter) WriteInsights(filePath string, insights *dataprocessing.Insights, snap *domain.Snapshot) error {
	rows := [][]string{
		{"COVID-19 Tracker Insights Report"},
		{"Generated:", insights.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Date Range:", insights.StartDate.Format("2006-01-02") + " to " + insights.EndDate.Format("2006-01-02")},
		{"Countries:", strconv.Itoa(len(insights.Countries))},
		{"Records:", strconv.Itoa(insights.Records)},
		{""},
		{"KEY INSIGHTS"},
		{"Metric", "Country", "Value"},
	}

	appendInsight := func(metric string, cv dataprocessing.CountryValue, format func(float64) string) {
		if !cv.Valid {
			rows = append(rows, []string{metric, "n/a", ""})
			return
		}
		rows = append(rows, []string{metric, cv.Country, format(cv.Value)})
	}

	appendInsight("Highest total cases", insights.HighestTotalCases, formatCount)
	appendInsight("Highest death rate", insights.HighestDeathRate, func(v float64) string {
		return strconv.FormatFloat(v*100, 'f', 2, 64) + "%"
	})
	appendInsight("Highest vaccination rate", insights.HighestVaccinationPct, func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64) + "%"
	})
	appendInsight("Highest avg new cases (trailing window)", insights.HighestAvgNewCases, func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64)
	})
	appendInsight("Highest deaths per million", insights.HighestDeathsPerMillion, func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64)
	})

	rows = append(rows, []string{""})
	rows = append(rows, []string{"LATEST SNAPSHOT"})
	rows = append(rows, []string{"Country", "Date", "TotalCases", "TotalDeaths", "DeathRate", "VaccinationPct"})
	for _, r := range snap.Records {
		rows = append(rows, []string{
			r.Country,
			r.Date.Format("2006-01-02"),
			formatCount(r.TotalCases),
			formatCount(r.TotalDeaths),
			strconv.FormatFloat(r.DeathRate, 'f', 6, 64),
			strconv.FormatFloat(r.VaccinationPct, 'f', 4, 64),
		})
	}

	return w.WriteCSV(filePath, WriteOptions{Records: rows, BOMPrefix: true})
}

// formatCount renders a count column without a fractional part
func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}
