package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/loictrobas/discogs-tool/config"
	"github.com/loictrobas/discogs-tool/core/instagram"
	"github.com/loictrobas/discogs-tool/model"
)

type fakeStore struct {
	failFor map[string]bool // base name → fail upload
	uploads []string
}

func (s *fakeStore) UploadSigned(_ context.Context, localPath, keyPrefix string, _ time.Duration) (string, error) {
	name := filepath.Base(localPath)
	if s.failFor[name] {
		return "", errors.New("upload refused")
	}
	s.uploads = append(s.uploads, keyPrefix+"/"+name)
	return "https://signed/" + name, nil
}

type fakeGraph struct {
	children    int
	failChild   map[int]bool // 1-based creation order → WaitReady terminal failure
	parentID    string
	parentErr   error
	publishErr  error
	published   []string
	lastCaption string
	lastKids    []string
	reelID      string
}

func (g *fakeGraph) CreateCarouselChild(_ context.Context, _ string) (string, error) {
	g.children++
	return fmt.Sprintf("child-%d", g.children), nil
}

func (g *fakeGraph) CreateCarouselParent(_ context.Context, kids []string, caption string) (string, error) {
	if g.parentErr != nil {
		return "", g.parentErr
	}
	g.lastKids = kids
	g.lastCaption = caption
	if g.parentID == "" {
		g.parentID = "parent-1"
	}
	return g.parentID, nil
}

func (g *fakeGraph) CreateReel(_ context.Context, _ string, caption string, _ int) (string, error) {
	g.lastCaption = caption
	g.reelID = "reel-1"
	return g.reelID, nil
}

func (g *fakeGraph) Publish(_ context.Context, creationID string) (string, error) {
	if g.publishErr != nil {
		return "", g.publishErr
	}
	g.published = append(g.published, creationID)
	return "post-1", nil
}

func (g *fakeGraph) WaitReady(_ context.Context, creationID string, _ instagram.PollConfig) (model.ContainerStatus, error) {
	var n int
	if _, err := fmt.Sscanf(creationID, "child-%d", &n); err == nil && g.failChild[n] {
		return model.StatusError, &instagram.ProcessingError{CreationID: creationID, Status: model.StatusError}
	}
	return model.StatusFinished, nil
}

type fakeSheet struct {
	rows [][]string
	err  error
}

func (s *fakeSheet) AppendRow(_ context.Context, row []string) error {
	if s.err != nil {
		return s.err
	}
	s.rows = append(s.rows, row)
	return nil
}

type fakeRepo struct {
	recs []*model.PublishedRelease
}

func (r *fakeRepo) Create(_ context.Context, rec *model.PublishedRelease) error {
	r.recs = append(r.recs, rec)
	return nil
}

func (r *fakeRepo) ListRecent(_ context.Context, _ int) ([]*model.PublishedRelease, error) {
	return r.recs, nil
}

func (r *fakeRepo) ExistsByTitle(_ context.Context, title string) (bool, error) {
	for _, rec := range r.recs {
		if rec.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func testCfg() *config.Config {
	return &config.Config{
		MinioPrefix:  "posts",
		SignedURLTTL: 7200,
		PollSec:      1,
		ChildWait:    1,
		ParentWait:   1,
	}
}

func testUnit(t *testing.T, videos int) model.PublishUnit {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "Mi Release")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	txt := filepath.Join(dir, "Mi Release.txt")
	content := "Release: Mi Release\nArtista(s): Banda X\nAño: 1991\nPaís: Spain\n\nPrecios (Discogs Marketplace):\n  Mediana: 15 EUR\n"
	if err := os.WriteFile(txt, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	var paths []string
	for i := 0; i < videos; i++ {
		p := filepath.Join(dir, fmt.Sprintf("A%d Track.mp4", i+1))
		if err := os.WriteFile(p, []byte("v"), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	return model.PublishUnit{Folder: dir, Name: "Mi Release", Videos: paths, CaptionFile: txt}
}

func TestPublishUnitCarousel(t *testing.T) {
	store := &fakeStore{}
	graph := &fakeGraph{}
	sheet := &fakeSheet{}
	repo := &fakeRepo{}

	pub := NewPublisher(testCfg(), store, graph, sheet, repo)
	pub.Owner = "Loic"
	pub.Price = "25 EUR"

	out := pub.PublishUnit(context.Background(), testUnit(t, 3))

	if out.FailedAny || out.Ambiguous {
		t.Fatalf("unexpected failure flags: %+v", out)
	}
	if out.PostID != "post-1" || out.ParentID != "parent-1" {
		t.Errorf("ids = %q / %q", out.PostID, out.ParentID)
	}
	if len(out.Children) != 3 || len(graph.lastKids) != 3 {
		t.Errorf("children = %v", out.Children)
	}

	// caption不带价格行，但带上运营填的价格
	if strings.Contains(graph.lastCaption, "Mediana") {
		t.Errorf("caption carries scraped prices: %q", graph.lastCaption)
	}
	if !strings.Contains(graph.lastCaption, "💲 Precio: 25 EUR") {
		t.Errorf("caption missing operator price: %q", graph.lastCaption)
	}

	if len(sheet.rows) != 1 {
		t.Fatalf("sheet rows = %v", sheet.rows)
	}
	row := sheet.rows[0]
	want := []string{"Mi Release", "Banda X", "Spain", "1991", "25 EUR", "No", "Sí", "Loic"}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("row[%d] = %q, want %q", i, row[i], want[i])
		}
	}

	if !out.LoggedToDB || len(repo.recs) != 1 {
		t.Fatalf("db record missing: %+v", out)
	}
	if repo.recs[0].CreationID != "parent-1" || repo.recs[0].Ambiguous {
		t.Errorf("record = %+v", repo.recs[0])
	}
}

func TestPublishUnitPartialChildren(t *testing.T) {
	graph := &fakeGraph{failChild: map[int]bool{2: true}}
	sheet := &fakeSheet{}
	pub := NewPublisher(testCfg(), &fakeStore{}, graph, sheet, &fakeRepo{})

	out := pub.PublishUnit(context.Background(), testUnit(t, 3))

	if !out.FailedAny {
		t.Error("FailedAny should be set when a child dies")
	}
	if len(out.Children) != 2 {
		t.Errorf("ready children = %v", out.Children)
	}
	// 还是要发出去并登记
	if out.PostID != "post-1" {
		t.Errorf("PostID = %q", out.PostID)
	}
	if len(sheet.rows) != 1 {
		t.Errorf("sheet rows = %d", len(sheet.rows))
	}
}

func TestPublishUnitAllChildrenFail(t *testing.T) {
	graph := &fakeGraph{failChild: map[int]bool{1: true, 2: true}}
	sheet := &fakeSheet{}
	repo := &fakeRepo{}
	pub := NewPublisher(testCfg(), &fakeStore{}, graph, sheet, repo)

	out := pub.PublishUnit(context.Background(), testUnit(t, 2))

	if out.ParentID != "" || out.PostID != "" {
		t.Errorf("no parent should exist: %+v", out)
	}
	if len(graph.published) != 0 {
		t.Errorf("published = %v", graph.published)
	}
	// 没发出去就不登记
	if len(sheet.rows) != 0 || len(repo.recs) != 0 {
		t.Error("bookkeeping must be skipped when nothing was published")
	}
}

func TestPublishUnitAmbiguousPublish(t *testing.T) {
	graph := &fakeGraph{publishErr: errors.New("timeout talking to graph")}
	sheet := &fakeSheet{}
	repo := &fakeRepo{}
	pub := NewPublisher(testCfg(), &fakeStore{}, graph, sheet, repo)

	out := pub.PublishUnit(context.Background(), testUnit(t, 2))

	if !out.Ambiguous {
		t.Fatal("expected ambiguous outcome")
	}
	if out.PostID != "" {
		t.Errorf("PostID = %q", out.PostID)
	}
	// 乐观记账：登记照做，但打上歧义标记
	if len(sheet.rows) != 1 {
		t.Errorf("sheet rows = %d", len(sheet.rows))
	}
	if len(repo.recs) != 1 || !repo.recs[0].Ambiguous {
		t.Errorf("record = %+v", repo.recs)
	}
}

func TestPublishUnitUploadFailureSkipsVideo(t *testing.T) {
	store := &fakeStore{failFor: map[string]bool{"A1 Track.mp4": true}}
	graph := &fakeGraph{}
	pub := NewPublisher(testCfg(), store, graph, &fakeSheet{}, &fakeRepo{})

	out := pub.PublishUnit(context.Background(), testUnit(t, 2))

	if !out.FailedAny {
		t.Error("FailedAny should be set")
	}
	if len(out.Children) != 1 {
		t.Errorf("children = %v", out.Children)
	}
}

func TestPublishUnitSingleVideoReel(t *testing.T) {
	graph := &fakeGraph{}
	sheet := &fakeSheet{}
	pub := NewPublisher(testCfg(), &fakeStore{}, graph, sheet, &fakeRepo{})
	pub.Price = "10 EUR"

	out := pub.PublishUnit(context.Background(), testUnit(t, 1))

	if graph.reelID != "reel-1" || graph.children != 0 {
		t.Errorf("single video must take the reel path: %+v", graph)
	}
	if out.PostID != "post-1" {
		t.Errorf("PostID = %q", out.PostID)
	}
	if len(sheet.rows) != 1 {
		t.Errorf("sheet rows = %d", len(sheet.rows))
	}
}

func TestPublishUnitSkipsAlreadyPublished(t *testing.T) {
	store := &fakeStore{}
	graph := &fakeGraph{}
	sheet := &fakeSheet{}
	repo := &fakeRepo{}
	pub := NewPublisher(testCfg(), store, graph, sheet, repo)

	unit := testUnit(t, 2)
	first := pub.PublishUnit(context.Background(), unit)
	if first.PostID != "post-1" || len(repo.recs) != 1 {
		t.Fatalf("first publish failed: %+v", first)
	}

	// 同一个目录再发一次：本地库里已有记录，什么都不该发生
	second := pub.PublishUnit(context.Background(), unit)
	if !second.Skipped {
		t.Fatal("second publish must be skipped")
	}
	if len(graph.published) != 1 || len(store.uploads) != 2 {
		t.Errorf("republished: published=%v uploads=%v", graph.published, store.uploads)
	}
	if len(sheet.rows) != 1 || len(repo.recs) != 1 {
		t.Errorf("bookkeeping ran twice: rows=%d recs=%d", len(sheet.rows), len(repo.recs))
	}

	// --force下照发不误
	pub.Force = true
	third := pub.PublishUnit(context.Background(), unit)
	if third.Skipped || third.PostID != "post-1" {
		t.Errorf("forced republish outcome: %+v", third)
	}
	if len(repo.recs) != 2 {
		t.Errorf("forced republish missing record: %d", len(repo.recs))
	}
}

func TestAlreadyPublishedWithoutRepo(t *testing.T) {
	pub := NewPublisher(testCfg(), &fakeStore{}, &fakeGraph{}, nil, nil)
	if pub.AlreadyPublished(context.Background(), testUnit(t, 1)) {
		t.Error("sin base de datos no hay forma de saberlo, debe ser false")
	}
}

func TestPublishAllContinuesAfterFailure(t *testing.T) {
	graph := &fakeGraph{failChild: map[int]bool{1: true, 2: true}}
	pub := NewPublisher(testCfg(), &fakeStore{}, graph, &fakeSheet{}, &fakeRepo{})

	units := []model.PublishUnit{testUnit(t, 2), testUnit(t, 2)}
	outcomes := pub.PublishAll(context.Background(), units)

	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes", len(outcomes))
	}
}
