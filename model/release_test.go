package model

import "testing"

func f(v float64) *float64 { return &v }

func TestPriceString(t *testing.T) {
	tests := []struct {
		name string
		rel  Release
		want string
	}{
		{"median with currency", Release{Prices: PriceStats{Median: f(15.5), Currency: "EUR"}}, "15.5 EUR"},
		{"trailing zeros trimmed", Release{Prices: PriceStats{Median: f(20), Currency: "USD"}}, "20 USD"},
		{"cents kept", Release{Prices: PriceStats{Median: f(9.99), Currency: "EUR"}}, "9.99 EUR"},
		{"no currency", Release{Prices: PriceStats{Median: f(12)}}, "12"},
		{"missing median", Release{Prices: PriceStats{Min: f(5), Currency: "EUR"}}, "NA"},
		{"no prices at all", Release{}, "NA"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.rel.PriceString(); got != tc.want {
				t.Errorf("PriceString = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTrackDisplayArtists(t *testing.T) {
	relArtists := []string{"Principal", "Secundario"}

	track := Track{Artists: []string{"Invitado A", "Invitado B"}}
	if got := track.DisplayArtists(relArtists); got != "Invitado A, Invitado B" {
		t.Errorf("got %q", got)
	}

	track = Track{}
	if got := track.DisplayArtists(relArtists); got != "Principal" {
		t.Errorf("fallback = %q", got)
	}

	if got := track.DisplayArtists(nil); got != "" {
		t.Errorf("empty fallback = %q", got)
	}
}

func TestPriceStatsEmpty(t *testing.T) {
	if !(PriceStats{Currency: "EUR"}).Empty() {
		t.Error("currency alone should still count as empty")
	}
	if (PriceStats{Max: f(1)}).Empty() {
		t.Error("any price makes it non-empty")
	}
}

func TestContainerStatus(t *testing.T) {
	tests := []struct {
		s        ContainerStatus
		ready    bool
		failed   bool
		terminal bool
	}{
		{StatusFinished, true, false, true},
		{StatusPublished, true, false, true},
		{StatusError, false, true, true},
		{StatusExpired, false, true, true},
		{StatusInProgress, false, false, false},
		{StatusUnknown, false, false, false},
	}
	for _, tc := range tests {
		if tc.s.Ready() != tc.ready || tc.s.Failed() != tc.failed || tc.s.Terminal() != tc.terminal {
			t.Errorf("%s: Ready=%v Failed=%v Terminal=%v", tc.s, tc.s.Ready(), tc.s.Failed(), tc.s.Terminal())
		}
	}
}

func TestSelectionSourceURL(t *testing.T) {
	auto := AutoSelection(Candidate{URL: "https://yt/abc"})
	if auto.SourceURL() != "https://yt/abc" {
		t.Errorf("auto = %q", auto.SourceURL())
	}

	manual := ManualSelection("https://yt/def")
	if manual.SourceURL() != "https://yt/def" {
		t.Errorf("manual = %q", manual.SourceURL())
	}

	local := LocalSelection("/tmp/x.mp3")
	if local.SourceURL() != "" {
		t.Errorf("local must have no URL, got %q", local.SourceURL())
	}
}
