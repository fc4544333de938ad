package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covidcli/internal/dataprocessing"
	"covidcli/pkg/contracts/domain"
)

func readBackCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := strings.TrimPrefix(string(data), "\ufeff")
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteSimpleCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "simple.csv")

	err := NewCSVWriter().WriteSimpleCSV(path,
		[]string{"Country", "Value"},
		[][]string{{"Kenya", "1"}, {"Germany", "2"}})
	require.NoError(t, err)

	rows := readBackCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Country", "Value"}, rows[0])
	assert.Equal(t, []string{"Kenya", "1"}, rows[1])
}

func TestWriteSimpleCSVAddsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simple.csv")
	require.NoError(t, NewCSVWriter().WriteSimpleCSV(path, []string{"A"}, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), 3)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
}

func derivedFixture(t *testing.T) (*domain.Dataset, *domain.Snapshot) {
	t.Helper()
	d1, _ := time.Parse("2006-01-02", "2021-06-01")
	d2, _ := time.Parse("2006-01-02", "2021-06-02")
	ds := &domain.Dataset{
		Countries: []string{"Kenya"},
		ByCountry: map[string][]domain.Record{},
	}
	recs := []domain.Record{
		{Country: "Kenya", Date: d1, TotalCases: 100, TotalDeaths: 2, TotalVaccinations: 10, Population: 1000, DeathRate: 0.02, VaccinationPct: 1},
		{Country: "Kenya", Date: d2, TotalCases: 110, TotalDeaths: 3, TotalVaccinations: 12, Population: 1000, DeathRate: 3.0 / 110, VaccinationPct: 1.2},
	}
	ds.Records = recs
	ds.ByCountry["Kenya"] = recs
	return ds, &domain.Snapshot{Date: d2, Records: []domain.Record{recs[1]}}
}

func TestWriteDerivedTable(t *testing.T) {
	ds, _ := derivedFixture(t)
	path := filepath.Join(t.TempDir(), "derived.csv")

	require.NoError(t, NewCSVWriter().WriteDerivedTable(path, ds))

	rows := readBackCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, derivedHeaders, rows[0])
	assert.Equal(t, "Kenya", rows[1][0])
	assert.Equal(t, "2021-06-01", rows[1][1])
	assert.Equal(t, "100", rows[1][2])
	assert.Equal(t, "0.020000", rows[1][9])
	assert.Equal(t, "1.0000", rows[1][10])
}

func TestWriteInsights(t *testing.T) {
	ds, snap := derivedFixture(t)
	insights := dataprocessing.NewSummarizer(nil, dataprocessing.SummarizerConfig{}).Summarize(ds, snap)
	path := filepath.Join(t.TempDir(), "insights.csv")

	require.NoError(t, NewCSVWriter().WriteInsights(path, insights, snap))

	rows := readBackCSV(t, path)
	var flat []string
	for _, row := range rows {
		flat = append(flat, strings.Join(row, ","))
	}
	joined := strings.Join(flat, "\n")

	assert.Contains(t, joined, "KEY INSIGHTS")
	assert.Contains(t, joined, "Highest total cases,Kenya,110")
	assert.Contains(t, joined, "LATEST SNAPSHOT")
	assert.Contains(t, joined, "Kenya,2021-06-02")
}
