package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covidcli/pkg/contracts/domain"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name       string
		record     domain.Record
		wantRate   float64
		wantVaxPct float64
	}{
		{
			name: "kenya reference row",
			record: domain.Record{
				Country: "Kenya", TotalCases: 100, TotalDeaths: 2,
				TotalVaccinations: 10, Population: 1000,
			},
			wantRate:   0.02,
			wantVaxPct: 1.0,
		},
		{
			name: "zero cases yields zero death rate",
			record: domain.Record{
				Country: "Kenya", TotalCases: 0, TotalDeaths: 0,
				TotalVaccinations: 10, Population: 1000,
			},
			wantRate:   0,
			wantVaxPct: 1.0,
		},
		{
			name: "zero population yields zero vaccination pct",
			record: domain.Record{
				Country: "Kenya", TotalCases: 100, TotalDeaths: 2,
				TotalVaccinations: 10, Population: 0,
			},
			wantRate:   0.02,
			wantVaxPct: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := buildDataset(tt.record)
			Derive(ds)
			assert.InDelta(t, tt.wantRate, ds.Records[0].DeathRate, 1e-9)
			assert.InDelta(t, tt.wantVaxPct, ds.Records[0].VaccinationPct, 1e-9)
		})
	}
}

func TestDeriveBounds(t *testing.T) {
	ds := buildDataset(
		domain.Record{Country: "A", TotalCases: 100, TotalDeaths: 2, TotalVaccinations: 10, Population: 1000},
		domain.Record{Country: "B", TotalCases: 50, TotalDeaths: 50, TotalVaccinations: 0, Population: 100},
		domain.Record{Country: "C", TotalCases: 0, TotalDeaths: 0, TotalVaccinations: 5, Population: 10},
	)
	Derive(ds)

	for _, r := range ds.Records {
		if r.TotalCases > 0 {
			assert.GreaterOrEqual(t, r.DeathRate, 0.0)
			assert.LessOrEqual(t, r.DeathRate, 1.0)
		} else {
			assert.Zero(t, r.DeathRate)
		}
		assert.GreaterOrEqual(t, r.VaccinationPct, 0.0)
	}
}

func TestDeriveIsIdempotent(t *testing.T) {
	ds := buildDataset(
		domain.Record{Country: "Kenya", Date: day(t, "2021-06-01"), TotalCases: 100, TotalDeaths: 2, TotalVaccinations: 10, Population: 1000},
		domain.Record{Country: "Kenya", Date: day(t, "2021-06-02"), TotalCases: 110, TotalDeaths: 3, TotalVaccinations: 12, Population: 1000},
	)

	Derive(ds)
	first := append([]domain.Record(nil), ds.Records...)
	Derive(ds)

	assert.Equal(t, first, ds.Records)
}

func TestLatestSnapshot(t *testing.T) {
	ds := buildDataset(
		domain.Record{Country: "Kenya", Date: day(t, "2021-06-01"), TotalCases: 100},
		domain.Record{Country: "Kenya", Date: day(t, "2021-06-03"), TotalCases: 120},
		domain.Record{Country: "Germany", Date: day(t, "2021-06-02"), TotalCases: 500},
	)
	// series must be date sorted first, as the cleaner guarantees
	ds = NewCleaner(nil, []string{"Kenya", "Germany"}).Clean(ds)

	snap := LatestSnapshot(ds)

	require.Len(t, snap.Records, 2)
	assert.Equal(t, "Kenya", snap.Records[0].Country)
	assert.Equal(t, 120.0, snap.Records[0].TotalCases)
	assert.Equal(t, "Germany", snap.Records[1].Country)
	assert.Equal(t, day(t, "2021-06-03"), snap.Date)
}

func TestLatestSnapshotEmptyDataset(t *testing.T) {
	snap := LatestSnapshot(&domain.Dataset{ByCountry: map[string][]domain.Record{}})
	assert.True(t, snap.Empty())
}
