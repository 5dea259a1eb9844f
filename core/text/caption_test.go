package text

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTxt(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "release.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStripPriceLines(t *testing.T) {
	raw := `Release: Test LP
Artista(s): Someone

Precios (Discogs Marketplace):
  Mínimo: 10 EUR
  Mediana: 15 EUR
  Máximo: 20 EUR

Tracklist:
A1 - First Track`

	body, prices := StripPriceLines(raw)

	if strings.Contains(body, "Mínimo") || strings.Contains(body, "Precios") {
		t.Errorf("body still contains price lines:\n%s", body)
	}
	if !strings.Contains(body, "Release: Test LP") {
		t.Errorf("body lost the header:\n%s", body)
	}
	if !strings.Contains(body, "A1 - First Track") {
		t.Errorf("body lost the tracklist:\n%s", body)
	}
	for _, want := range []string{"Mínimo", "Mediana", "Máximo", "Precios"} {
		if !strings.Contains(prices, want) {
			t.Errorf("price block missing %q:\n%s", want, prices)
		}
	}
}

func TestStripPriceLinesNoPrices(t *testing.T) {
	raw := "Release: Test\n\nTracklist:\nA1 - Track"
	body, prices := StripPriceLines(raw)
	if prices != "" {
		t.Errorf("expected empty price block, got %q", prices)
	}
	if body != strings.TrimSpace(raw) {
		t.Errorf("body changed: %q", body)
	}
}

func TestBuildCaptionFromTxt(t *testing.T) {
	path := writeTxt(t, "Release: X\nMediana: 12 EUR\nTracklist:\nA1 - Y\n")

	caption, prices := BuildCaptionFromTxt(path)
	if strings.Contains(caption, "Mediana") {
		t.Errorf("caption should not carry prices: %q", caption)
	}
	if !strings.Contains(prices, "Mediana") {
		t.Errorf("price block lost: %q", prices)
	}
}

func TestBuildCaptionFromTxtMissingFile(t *testing.T) {
	caption, prices := BuildCaptionFromTxt(filepath.Join(t.TempDir(), "nope.txt"))
	if caption != "" || prices != "" {
		t.Errorf("expected empty results, got %q / %q", caption, prices)
	}
}

func TestAppendPrice(t *testing.T) {
	got := AppendPrice("caption body", "25 EUR")
	want := "caption body\n\n💲 Precio: 25 EUR"
	if got != want {
		t.Errorf("AppendPrice = %q, want %q", got, want)
	}

	if got := AppendPrice("caption body", "  "); got != "caption body" {
		t.Errorf("empty price must leave caption untouched, got %q", got)
	}
}

func TestParseReleaseHeader(t *testing.T) {
	path := writeTxt(t, `Release: Mi Disco
Artista(s): Banda X, Banda Y
Año: 1987
País: España

Tracklist:
A1 - Algo`)

	h := ParseReleaseHeader(path)
	if h.Title != "Mi Disco" {
		t.Errorf("Title = %q", h.Title)
	}
	if h.Artists != "Banda X, Banda Y" {
		t.Errorf("Artists = %q", h.Artists)
	}
	if h.Year != "1987" {
		t.Errorf("Year = %q", h.Year)
	}
	if h.Country != "España" {
		t.Errorf("Country = %q", h.Country)
	}
}

func TestParseReleaseHeaderPartial(t *testing.T) {
	path := writeTxt(t, "Release: Solo Título\n")
	h := ParseReleaseHeader(path)
	if h.Title != "Solo Título" {
		t.Errorf("Title = %q", h.Title)
	}
	if h.Artists != "" || h.Year != "" || h.Country != "" {
		t.Errorf("missing fields must stay empty: %+v", h)
	}
}
