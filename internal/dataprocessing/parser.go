package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	pipeerrors "covidcli/internal/errors"
	"covidcli/pkg/contracts/domain"
)

// Column names the parser understands, as they appear in OWID exports.
const (
	colLocation          = "location"
	colDate              = "date"
	colTotalCases        = "total_cases"
	colNewCases          = "new_cases"
	colTotalDeaths       = "total_deaths"
	colNewDeaths         = "new_deaths"
	colTotalVaccinations = "total_vaccinations"
	colPeopleVaccinated  = "people_vaccinated"
	colPopulation        = "population"
	colDeathsPerMillion  = "total_deaths_per_million"
)

// requiredColumns must all be present in the header row.
var requiredColumns = []string{
	colLocation, colDate, colTotalCases, colTotalDeaths,
	colTotalVaccinations, colPopulation,
}

const dateLayout = "2006-01-02"

// ParseFile reads a COVID-19 statistics CSV and extracts the per-country
// records. Column positions are mapped dynamically from the header row, so
// column order in the source file does not matter. Rows whose date or any
// present numeric cell fails to parse are dropped and counted; empty numeric
// cells are kept as missing values for the cleaning stage to resolve.
func ParseFile(filePath string) (*domain.Dataset, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pipeerrors.ErrDataLoad, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pipeerrors.ErrDataLoad, err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("%w: empty file %s", pipeerrors.ErrDataLoad, filePath)
	}

	columnMap, err := mapColumns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pipeerrors.ErrDataLoad, err)
	}

	ds := &domain.Dataset{
		ByCountry: make(map[string][]domain.Record),
	}
	ds.Stats.TotalRows = len(rows) - 1

	for i := 1; i < len(rows); i++ {
		record, ok := parseRow(rows[i], columnMap)
		if !ok {
			ds.Stats.DroppedRows++
			continue
		}

		if _, seen := ds.ByCountry[record.Country]; !seen {
			ds.Countries = append(ds.Countries, record.Country)
		}
		ds.ByCountry[record.Country] = append(ds.ByCountry[record.Country], record)
		ds.Records = append(ds.Records, record)
		ds.Stats.ParsedRows++
	}

	slog.Info("Parsed input file",
		slog.String("file", filePath),
		slog.Int("total_rows", ds.Stats.TotalRows),
		slog.Int("parsed_rows", ds.Stats.ParsedRows),
		slog.Int("dropped_rows", ds.Stats.DroppedRows),
		slog.Int("countries", len(ds.Countries)))

	return ds, nil
}

// mapColumns builds the header name to column index map. The first cell may
// carry a UTF-8 BOM, which is stripped before matching.
func mapColumns(header []string) (map[string]int, error) {
	columnMap := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		columnMap[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, col := range requiredColumns {
		if _, exists := columnMap[col]; !exists {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}
	return columnMap, nil
}

// parseRow converts one CSV row to a Record. ok is false when the row must
// be dropped: empty country, unparsable date, or a malformed numeric cell.
func parseRow(row []string, columnMap map[string]int) (domain.Record, bool) {
	getString := func(colName string) string {
		if idx, exists := columnMap[colName]; exists && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	country := getString(colLocation)
	if country == "" {
		return domain.Record{}, false
	}

	date, err := time.Parse(dateLayout, getString(colDate))
	if err != nil {
		return domain.Record{}, false
	}

	bad := false
	parseFloat := func(colName string) float64 {
		s := strings.ReplaceAll(getString(colName), ",", "")
		if s == "" {
			return math.NaN()
		}
		val, err := strconv.ParseFloat(s, 64)
		if err != nil {
			bad = true
			return math.NaN()
		}
		return val
	}

	record := domain.Record{
		Country:           country,
		Date:              date,
		TotalCases:        parseFloat(colTotalCases),
		NewCases:          parseFloat(colNewCases),
		TotalDeaths:       parseFloat(colTotalDeaths),
		NewDeaths:         parseFloat(colNewDeaths),
		TotalVaccinations: parseFloat(colTotalVaccinations),
		PeopleVaccinated:  parseFloat(colPeopleVaccinated),
		Population:        parseFloat(colPopulation),
		DeathsPerMillion:  parseFloat(colDeathsPerMillion),
	}
	if bad {
		return domain.Record{}, false
	}
	return record, true
}
