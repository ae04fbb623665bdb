package insee

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matkaise/openfolio-sub000/date"
)

func TestParseSeries(t *testing.T) {
	csvData := `"Libellé";"Indice des prix des logements anciens - Province : agglomérations de moins de 10 000 habitants et zones rurales - Appartements - Base 100 en moyenne annuelle 2015 - Série CVS";"Codes"
"idBank";"010567069";""
"Dernière mise à jour";"28/08/2025 08:45";""
"Période";"";""
"2025-T4";"";""
"2025-T3";"";""
"2025-T2";"135.2";"P"
"2025-T1";"135.6";"A"
"2024-T4";"133.4";"A"
`

	reader := strings.NewReader(csvData)
	series, err := parseSeries(reader)
	if err != nil {
		t.Fatalf("parseSeries() failed: %v", err)
	}

	expectedLibelle := "Indice des prix des logements anciens - Province : agglomérations de moins de 10 000 habitants et zones rurales - Appartements - Base 100 en moyenne annuelle 2015 - Série CVS"
	if series.Libelle != expectedLibelle {
		t.Errorf("got Libelle %q, want %q", series.Libelle, expectedLibelle)
	}

	expectedIDBank := "010567069"
	if series.IDBank != expectedIDBank {
		t.Errorf("got IDBank %q, want %q", series.IDBank, expectedIDBank)
	}

	expectedLastUpdate := time.Date(2025, 8, 28, 8, 45, 0, 0, time.UTC)
	if !series.LastUpdate.Equal(expectedLastUpdate) {
		t.Errorf("got LastUpdate %v, want %v", series.LastUpdate, expectedLastUpdate)
	}

	if series.Values.Len() != 3 {
		t.Errorf("got %d values, want 3", series.Values.Len())
	}

	dateT2_2025 := date.New(2025, 6, 30)
	if val, ok := series.Values.Get(dateT2_2025); !ok || val != 135.2 {
		t.Errorf("for date %v, got %f, want 135.2", dateT2_2025, val)
	}

	dateT4_2024 := date.New(2024, 12, 31)
	if val, ok := series.Values.Get(dateT4_2024); !ok || val != 133.4 {
		t.Errorf("for date %v, got %f, want 133.4", dateT4_2024, val)
	}
}

func TestParseSeries_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		csvData string
		wantErr string
	}{
		{
			name: "bad last update date",
			csvData: `"Libellé";"..."
"idBank";"..."
"Dernière mise à jour";"not-a-date"
"Période";""
`,
			wantErr: "failed to parse last update date",
		},
		{
			name: "bad quarterly date",
			csvData: `"Libellé";"..."
"idBank";"..."
"Dernière mise à jour";"28/08/2025 08:45"
"Période";""
"2025-T5";"135.2"`,
			wantErr: "invalid quarter in quarterly date",
		},
		{
			name: "bad value",
			csvData: `"Libellé";"..."
"idBank";"..."
"Dernière mise à jour";"28/08/2025 08:45"
"Période";""
"2025-T2";"not-a-float"`,
			wantErr: "failed to parse value",
		},
		{
			name: "not enough records",
			csvData: `"Libellé";"..."
"idBank";"..."`,
			wantErr: "not enough records in csv",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reader := strings.NewReader(tc.csvData)
			_, err := parseSeries(reader)
			if err == nil {
				t.Fatalf("parseSeries() expected an error, but got none")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("parseSeries() error = %q, want to contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestParseInseeDate(t *testing.T) {
	testCases := []struct {
		in      string
		want    date.Date
		wantErr bool
	}{
		{"2025-T1", date.New(2025, 3, 31), false},
		{"2024-T4", date.New(2024, 12, 31), false},
		{"2024-02", date.New(2024, 2, 29), false},
		{"2024-13", date.Date{}, true},
		{"2024", date.Date{}, true},
	}
	for _, tc := range testCases {
		got, err := parseInseeDate(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("parseInseeDate(%q) = %v, %v, want %v (error %v)", tc.in, got, err, tc.want, tc.wantErr)
		}
	}
}

func TestClient_Series(t *testing.T) {
	var archive bytes.Buffer
	zw := zip.NewWriter(&archive)
	w, err := zw.Create("valeurs_mensuelles.csv")
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte(`"Libellé";"Indice des prix à la consommation"
"idBank";"001763825"
"Dernière mise à jour";"15/01/2025 08:45"
"Période";""
"2024-12";"120.5"
"2024-11";"120.1"
`))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/series/001763825/csv" || r.URL.Query().Get("anneeDebut") != "2024" {
			http.NotFound(w, r)
			return
		}
		w.Write(archive.Bytes())
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, HTTP: srv.Client()}
	series, err := c.Series(context.Background(), CPI, date.New(2024, 1, 1), date.New(2024, 12, 31))
	if err != nil {
		t.Fatalf("Series() unexpected error: %v", err)
	}
	b := series.Benchmark("inflation")
	if b.Name != "inflation" || b.Currency != "EUR" || b.Prices.Len() != 2 {
		t.Errorf("Benchmark() = %+v, want 2 prices in EUR", b)
	}
	if _, v := b.Prices.Latest(); v != 120.5 {
		t.Errorf("latest value = %v, want 120.5", v)
	}

	if _, err := c.Series(context.Background(), "nope", date.New(2024, 1, 1), date.New(2024, 12, 31)); err == nil {
		t.Errorf("Series(nope) = nil error, want an error")
	}
}
