package pipeline

import (
	"testing"

	"github.com/loictrobas/discogs-tool/model"
)

func TestSessionSelectionOverwrites(t *testing.T) {
	sess := NewSession(&model.Release{Title: "X"})

	if _, ok := sess.Selection(0); ok {
		t.Fatal("no selection expected yet")
	}

	sess.Select(0, model.ManualSelection("https://yt/first"))
	sess.Select(0, model.ManualSelection("https://yt/second"))

	sel, ok := sess.Selection(0)
	if !ok || sel.URL != "https://yt/second" {
		t.Errorf("selection = %+v", sel)
	}
}

func TestSessionResults(t *testing.T) {
	sess := NewSession(&model.Release{})

	if sess.HasResults(3) {
		t.Fatal("no results expected")
	}

	// 空结果也算搜索过，避免重复搜索
	sess.SetResults(3, nil)
	if !sess.HasResults(3) {
		t.Error("empty results should still count as searched")
	}

	sess.SetResults(3, []model.Candidate{{Title: "a"}})
	if got := sess.Results(3); len(got) != 1 {
		t.Errorf("results = %v", got)
	}
}

func TestArtifactName(t *testing.T) {
	tests := []struct {
		track model.Track
		price string
		want  string
	}{
		{model.Track{Position: "A1", Title: "Canción"}, "15.5 EUR", "A1 Canción - 15.5 EUR.mp4"},
		{model.Track{Title: "Sin Posición"}, "NA", "Sin Posición - NA.mp4"},
		{model.Track{Position: "B2", Title: `Mala/Idea?`}, "NA", "B2 Mala_Idea_ - NA.mp4"},
	}
	for _, tc := range tests {
		if got := artifactName(tc.track, tc.price); got != tc.want {
			t.Errorf("artifactName(%+v, %q) = %q, want %q", tc.track, tc.price, got, tc.want)
		}
	}
}
