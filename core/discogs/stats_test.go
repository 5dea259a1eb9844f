package discogs

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want float64
		nil_ bool
	}{
		{"empty", nil, 0, true},
		{"single", []float64{7}, 7, false},
		{"odd", []float64{3, 1, 2}, 2, false},
		{"even averages middle two", []float64{1, 2, 3, 4}, 2.5, false},
		{"unsorted input", []float64{10, 1, 5}, 5, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Median(tc.in)
			if tc.nil_ {
				if got != nil {
					t.Fatalf("expected nil, got %v", *got)
				}
				return
			}
			if got == nil || *got != tc.want {
				t.Errorf("Median(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		nil_ bool
	}{
		{`12.5`, 12.5, false},
		{`"8,99"`, 8.99, false},
		{`"15.00"`, 15, false},
		{`{"currency":"EUR","value":20}`, 20, false},
		{`{"amount":"7,5"}`, 7.5, false},
		{`null`, 0, true},
		{`"no price"`, 0, true},
		{`{"other":1}`, 0, true},
	}
	for _, tc := range tests {
		got := toFloat([]byte(tc.in))
		if tc.nil_ {
			if got != nil {
				t.Errorf("toFloat(%s) = %v, want nil", tc.in, *got)
			}
			continue
		}
		if got == nil || *got != tc.want {
			t.Errorf("toFloat(%s) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFetchPriceStatsSuggestionsFillOnlyMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/marketplace/stats/42":
			// stats端点只有最低价
			fmt.Fprint(w, `{"lowest_price": {"currency": "EUR", "value": 9.5}}`)
		case "/marketplace/price_suggestions/42":
			fmt.Fprint(w, `{
				"Good (G)": {"currency": "EUR", "value": 5},
				"Very Good (VG)": {"currency": "EUR", "value": 15},
				"Mint (M)": {"currency": "EUR", "value": 30}
			}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", "test-agent", "eur")
	stats := c.FetchPriceStats(42)

	if stats.Currency != "EUR" {
		t.Errorf("Currency = %q", stats.Currency)
	}
	// stats已有的min不能被suggestions覆盖
	if stats.Min == nil || *stats.Min != 9.5 {
		t.Errorf("Min = %v, want 9.5", stats.Min)
	}
	if stats.Median == nil || *stats.Median != 15 {
		t.Errorf("Median = %v, want 15", stats.Median)
	}
	if stats.Max == nil || *stats.Max != 30 {
		t.Errorf("Max = %v, want 30", stats.Max)
	}
}

func TestFetchPriceStatsAllUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", "test-agent", "USD")
	stats := c.FetchPriceStats(42)
	if !stats.Empty() {
		t.Errorf("expected empty stats, got %+v", stats)
	}
}
