package dataprocessing

import (
	"covidcli/pkg/contracts/domain"
)

// Derive computes the derived metrics for every record in place.
//
// DeathRate is TotalDeaths / TotalCases and stays within [0, 1]; it is zero
// when TotalCases is zero. VaccinationPct is TotalVaccinations / Population
// expressed as a percentage, zero when Population is zero.
func Derive(ds *domain.Dataset) {
	for i := range ds.Records {
		deriveRecord(&ds.Records[i])
	}
	for _, series := range ds.ByCountry {
		for i := range series {
			deriveRecord(&series[i])
		}
	}
}

func deriveRecord(r *domain.Record) {
	if r.TotalCases > 0 {
		r.DeathRate = r.TotalDeaths / r.TotalCases
	} else {
		r.DeathRate = 0
	}
	if r.Population > 0 {
		r.VaccinationPct = r.TotalVaccinations / r.Population * 100
	} else {
		r.VaccinationPct = 0
	}
}

// LatestSnapshot returns the most recent record per country, in dataset
// country order. Series are date sorted by the cleaner, so the latest record
// is the last element. An empty dataset yields an empty snapshot.
func LatestSnapshot(ds *domain.Dataset) *domain.Snapshot {
	snap := &domain.Snapshot{}
	for _, country := range ds.Countries {
		series := ds.ByCountry[country]
		if len(series) == 0 {
			continue
		}
		latest := series[len(series)-1]
		snap.Records = append(snap.Records, latest)
		if latest.Date.After(snap.Date) {
			snap.Date = latest.Date
		}
	}
	return snap
}
