// Package insee downloads index series from the French statistics institute (https://www.insee.fr),
// such as the consumer price index, to be used as benchmarks.
package insee

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	portfolio "github.com/matkaise/openfolio-sub000"
	"github.com/matkaise/openfolio-sub000/date"
)

// DefaultBaseURL is the address of the INSEE series database.
const DefaultBaseURL = "https://bdm.insee.fr"

// CPI is the idBank of the French consumer price index, all households.
const CPI = "001763825"

// Client downloads INSEE series.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient returns a client of the INSEE series database.
func NewClient() *Client { return &Client{BaseURL: DefaultBaseURL, HTTP: http.DefaultClient} }

// Series constructs the URL, downloads, and parses an INSEE time series.
func (c *Client) Series(ctx context.Context, idBank string, from, to date.Date) (*Series, error) {
	q := url.Values{}
	q.Set("lang", "fr")
	q.Set("ordre", "antechronologique")
	q.Set("transposition", "donneescolonne")
	q.Set("periodeDebut", strconv.Itoa(int(from.Month()-1)/3+1))
	q.Set("anneeDebut", strconv.Itoa(from.Year()))
	q.Set("periodeFin", strconv.Itoa(int(to.Month()-1)/3+1))
	q.Set("anneeFin", strconv.Itoa(to.Year()))
	q.Set("revision", "sansrevisions")
	addr := fmt.Sprintf("%s/series/%s/csv?%s", c.BaseURL, url.PathEscape(idBank), q.Encode())
	slog.Debug("downloading from INSEE", "url", addr)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download from INSEE for ID %s: %w", idBank, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download from INSEE for ID %s: received status %s", idBank, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return readArchive(body, idBank)
}

// readArchive parses the values file of a downloaded zip archive.
func readArchive(body []byte, idBank string) (*Series, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to open zip archive from INSEE response: %w", err)
	}

	var foundFiles []string
	for _, f := range zipReader.File {
		foundFiles = append(foundFiles, f.Name)
		if f.Name != "valeurs_trimestrielles.csv" && f.Name != "valeurs_mensuelles.csv" {
			continue
		}
		csvFile, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open '%s' from zip archive: %w", f.Name, err)
		}
		defer csvFile.Close()
		return parseSeries(csvFile)
	}
	return nil, fmt.Errorf("could not find a values file (mensuelles or trimestrielles) in downloaded zip file for ID %s (found: %s)", idBank, strings.Join(foundFiles, ", "))
}

// Series holds the data from an INSEE time series CSV file.
type Series struct {
	Libelle    string
	IDBank     string
	LastUpdate time.Time
	Values     date.History[float64]
}

// Benchmark returns the series as a benchmark in euro.
func (s *Series) Benchmark(name string) portfolio.Benchmark {
	return portfolio.Benchmark{Name: name, Currency: "EUR", Prices: s.Values}
}

// parseInseeDate parses a string like "2025-T2" or "2025-08" into the last day of that period.
func parseInseeDate(s string) (date.Date, error) {
	if strings.Contains(s, "-T") {
		return parseQuarterlyDate(s)
	}

	parts := strings.Split(s, "-")
	if len(parts) == 2 {
		year, err := strconv.Atoi(parts[0])
		if err != nil {
			return date.Date{}, fmt.Errorf("invalid year in monthly date %q: %w", s, err)
		}
		month, err := strconv.Atoi(parts[1])
		if err != nil || month < 1 || month > 12 {
			return date.Date{}, fmt.Errorf("invalid month in monthly date %q", s)
		}
		return date.New(year, time.Month(month)+1, 0), nil
	}
	return date.Date{}, fmt.Errorf("unrecognized insee date format: %q", s)
}

// parseQuarterlyDate parses a string like "2025-T2" into the last day of that quarter.
func parseQuarterlyDate(s string) (date.Date, error) {
	parts := strings.Split(s, "-T")
	if len(parts) != 2 {
		return date.Date{}, fmt.Errorf("invalid quarterly date format: %q", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return date.Date{}, fmt.Errorf("invalid year in quarterly date %q: %w", s, err)
	}
	quarter, err := strconv.Atoi(parts[1])
	if err != nil || quarter < 1 || quarter > 4 {
		return date.Date{}, fmt.Errorf("invalid quarter in quarterly date %q", s)
	}
	return date.New(year, time.Month(quarter*3)+1, 0), nil
}

// parseSeries reads the INSEE CSV format.
func parseSeries(r io.Reader) (*Series, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) < 4 {
		return nil, fmt.Errorf("not enough records in csv to parse series")
	}

	series := &Series{
		Libelle: records[0][1],
		IDBank:  records[1][1],
	}
	series.LastUpdate, err = time.Parse("02/01/2006 15:04", records[2][1])
	if err != nil {
		return nil, fmt.Errorf("failed to parse last update date %q: %w", records[2][1], err)
	}

	for i := 4; i < len(records); i++ {
		if len(records[i]) < 2 || records[i][1] == "" {
			continue
		}
		on, err := parseInseeDate(records[i][0])
		if err != nil {
			return nil, err
		}
		val, err := strconv.ParseFloat(records[i][1], 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse value %q for date %q: %w", records[i][1], records[i][0], err)
		}
		series.Values.Append(on, val)
	}
	return series, nil
}
