package dataprocessing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covidcli/pkg/contracts/domain"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func buildDataset(records ...domain.Record) *domain.Dataset {
	ds := &domain.Dataset{ByCountry: make(map[string][]domain.Record)}
	for _, r := range records {
		if _, seen := ds.ByCountry[r.Country]; !seen {
			ds.Countries = append(ds.Countries, r.Country)
		}
		ds.ByCountry[r.Country] = append(ds.ByCountry[r.Country], r)
		ds.Records = append(ds.Records, r)
	}
	return ds
}

func TestCleanerFiltersCountries(t *testing.T) {
	ds := buildDataset(
		domain.Record{Country: "Kenya", Date: time.Now(), TotalCases: 10},
		domain.Record{Country: "France", Date: time.Now(), TotalCases: 20},
		domain.Record{Country: "Germany", Date: time.Now(), TotalCases: 30},
	)

	out := NewCleaner(nil, []string{"Kenya", "Germany"}).Clean(ds)

	assert.Equal(t, []string{"Kenya", "Germany"}, out.Countries)
	assert.Len(t, out.Records, 2)
	for _, r := range out.Records {
		assert.Contains(t, []string{"Kenya", "Germany"}, r.Country)
	}
}

func TestCleanerAbsentCountryIsNotAnError(t *testing.T) {
	ds := buildDataset(
		domain.Record{Country: "Kenya", Date: time.Now(), TotalCases: 10},
	)

	out := NewCleaner(nil, []string{"Kenya", "Atlantis"}).Clean(ds)

	assert.Equal(t, []string{"Kenya"}, out.Countries)
	assert.Len(t, out.Records, 1)
}

func TestCleanerOnlyUnknownCountriesYieldsEmptyDataset(t *testing.T) {
	ds := buildDataset(
		domain.Record{Country: "France", Date: time.Now(), TotalCases: 10},
		domain.Record{Country: "Spain", Date: time.Now(), TotalCases: 20},
	)

	out := NewCleaner(nil, []string{"Kenya", "Germany"}).Clean(ds)

	assert.True(t, out.Empty())
	assert.Empty(t, out.Countries)
}

func TestCleanerSortsSeriesByDate(t *testing.T) {
	ds := buildDataset(
		domain.Record{Country: "Kenya", Date: day(t, "2021-06-03"), TotalCases: 120},
		domain.Record{Country: "Kenya", Date: day(t, "2021-06-01"), TotalCases: 100},
		domain.Record{Country: "Kenya", Date: day(t, "2021-06-02"), TotalCases: 110},
	)

	out := NewCleaner(nil, []string{"Kenya"}).Clean(ds)

	series := out.ByCountry["Kenya"]
	require.Len(t, series, 3)
	assert.True(t, series[0].Date.Before(series[1].Date))
	assert.True(t, series[1].Date.Before(series[2].Date))
}

func TestCleanerForwardFill(t *testing.T) {
	nan := math.NaN()
	ds := buildDataset(
		domain.Record{Country: "Kenya", Date: day(t, "2021-06-01"), TotalCases: 100, TotalDeaths: 2, TotalVaccinations: 10, Population: 1000},
		domain.Record{Country: "Kenya", Date: day(t, "2021-06-02"), TotalCases: nan, TotalDeaths: nan, TotalVaccinations: nan, Population: nan},
		domain.Record{Country: "Kenya", Date: day(t, "2021-06-03"), TotalCases: 120, TotalDeaths: 3, TotalVaccinations: nan, Population: 1000},
	)

	out := NewCleaner(nil, []string{"Kenya"}).Clean(ds)

	series := out.ByCountry["Kenya"]
	require.Len(t, series, 3)

	// gap carries the previous value forward
	assert.Equal(t, 100.0, series[1].TotalCases)
	assert.Equal(t, 2.0, series[1].TotalDeaths)
	assert.Equal(t, 10.0, series[1].TotalVaccinations)
	assert.Equal(t, 1000.0, series[1].Population)
	assert.Equal(t, 10.0, series[2].TotalVaccinations)

	// cumulative series never decreases after filling
	for i := 1; i < len(series); i++ {
		assert.GreaterOrEqual(t, series[i].TotalCases, series[i-1].TotalCases)
		assert.GreaterOrEqual(t, series[i].TotalDeaths, series[i-1].TotalDeaths)
	}
}

func TestCleanerZeroFillsLeadingGaps(t *testing.T) {
	nan := math.NaN()
	ds := buildDataset(
		domain.Record{Country: "Kenya", Date: day(t, "2021-06-01"), TotalCases: 100, TotalDeaths: 2, TotalVaccinations: nan, Population: 1000, NewCases: nan},
	)

	out := NewCleaner(nil, []string{"Kenya"}).Clean(ds)

	rec := out.ByCountry["Kenya"][0]
	assert.Equal(t, 0.0, rec.TotalVaccinations)
	assert.Equal(t, 0.0, rec.NewCases)
	assert.False(t, math.IsNaN(rec.DeathsPerMillion))
}

func TestCleanerPreservesInputOrderForCountries(t *testing.T) {
	ds := buildDataset(
		domain.Record{Country: "Germany", Date: time.Now(), TotalCases: 1},
		domain.Record{Country: "Kenya", Date: time.Now(), TotalCases: 2},
	)

	// configured order differs from input order; input order wins
	out := NewCleaner(nil, []string{"Kenya", "Germany"}).Clean(ds)
	assert.Equal(t, []string{"Germany", "Kenya"}, out.Countries)
}
