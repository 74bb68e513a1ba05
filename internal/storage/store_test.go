package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	tmpDir, err := os.MkdirTemp("", "store-test-*")
	if err != nil {
		t.Fatal(err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	store, err := NewStore(dbPath, 0)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatal(err)
	}

	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpDir)
	}

	return store, cleanup
}

func TestStore_SaveAndGetFeeds(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	feeds := []Feed{
		{Name: "NPR News", URL: "https://feeds.npr.org/1001/rss.xml"},
		{Name: "BBC World", URL: "https://feeds.bbci.co.uk/news/world/rss.xml"},
		{Name: "Le Monde", URL: "https://www.lemonde.fr/rss/une.xml"},
	}
	if err := store.SaveFeeds(feeds); err != nil {
		t.Fatalf("failed to save feeds: %v", err)
	}

	got, err := store.GetFeeds()
	if err != nil {
		t.Fatalf("failed to get feeds: %v", err)
	}
	if len(got) != len(feeds) {
		t.Fatalf("expected %d feeds, got %d", len(feeds), len(got))
	}
	for i, f := range got {
		if f.Name != feeds[i].Name {
			t.Errorf("position %d: expected %s, got %s", i, feeds[i].Name, f.Name)
		}
		if f.Position != i {
			t.Errorf("expected position %d, got %d", i, f.Position)
		}
		if f.AddedAt.IsZero() {
			t.Errorf("feed %s has no added time", f.Name)
		}
	}

	// Saving again replaces the list.
	if err := store.SaveFeeds(feeds[:1]); err != nil {
		t.Fatalf("failed to replace feeds: %v", err)
	}
	got, _ = store.GetFeeds()
	if len(got) != 1 {
		t.Errorf("expected 1 feed after replace, got %d", len(got))
	}
}

func TestStore_AddAndRemoveFeed(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	for _, f := range []Feed{
		{Name: "A", URL: "http://a.example/rss"},
		{Name: "B", URL: "http://b.example/rss"},
		{Name: "C", URL: "http://c.example/rss"},
	} {
		if err := store.AddFeed(f); err != nil {
			t.Fatalf("failed to add %s: %v", f.Name, err)
		}
	}

	err := store.AddFeed(Feed{Name: "A again", URL: "http://a.example/rss"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	if err := store.SaveItems("http://a.example/rss", []Item{{Title: "x"}}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveFetchMetadata(&FetchMetadata{FeedURL: "http://a.example/rss", ETag: `"1"`}); err != nil {
		t.Fatal(err)
	}

	if err := store.RemoveFeed("http://a.example/rss"); err != nil {
		t.Fatalf("failed to remove feed: %v", err)
	}

	feeds, err := store.GetFeeds()
	if err != nil {
		t.Fatal(err)
	}
	if len(feeds) != 2 || feeds[0].Name != "B" || feeds[1].Name != "C" {
		t.Fatalf("unexpected feeds after remove: %+v", feeds)
	}
	if feeds[0].Position != 0 || feeds[1].Position != 1 {
		t.Errorf("positions not compacted: %d, %d", feeds[0].Position, feeds[1].Position)
	}

	if _, err := store.GetItems("http://a.example/rss"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected items to be removed, got %v", err)
	}
	if _, err := store.GetFetchMetadata("http://a.example/rss"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected metadata to be removed, got %v", err)
	}

	if err := store.RemoveFeed("http://missing.example/rss"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Items(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	url := "http://example.com/feed.xml"
	items := []Item{
		{FeedURL: url, Title: "Second story", Description: "b", Published: time.Now().Add(-time.Hour)},
		{FeedURL: url, Title: "First story", Description: "a", Published: time.Now()},
	}
	if err := store.SaveItems(url, items); err != nil {
		t.Fatalf("failed to save items: %v", err)
	}

	got, err := store.GetItems(url)
	if err != nil {
		t.Fatalf("failed to get items: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	// Feed order is kept, not re-sorted by date.
	if got[0].Title != "Second story" {
		t.Errorf("expected feed order, got %s first", got[0].Title)
	}

	if _, err := store.GetItems("http://other.example/rss"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_FetchMetadata(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	meta := &FetchMetadata{
		FeedURL:      "http://example.com/feed.xml",
		ETag:         "\"abc123\"",
		LastModified: "Wed, 01 Jan 2025 00:00:00 GMT",
		LastFetched:  time.Now(),
	}
	if err := store.SaveFetchMetadata(meta); err != nil {
		t.Fatalf("failed to save metadata: %v", err)
	}

	got, err := store.GetFetchMetadata(meta.FeedURL)
	if err != nil {
		t.Fatalf("failed to get metadata: %v", err)
	}
	if got.ETag != meta.ETag {
		t.Errorf("expected ETag %s, got %s", meta.ETag, got.ETag)
	}
	if got.LastModified != meta.LastModified {
		t.Errorf("expected LastModified %s, got %s", meta.LastModified, got.LastModified)
	}
}

func TestStore_Settings(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	if _, ok, err := store.ReadingSpeed(); err != nil || ok {
		t.Fatalf("expected no stored speed, got ok=%v err=%v", ok, err)
	}
	if _, ok, err := store.Backlight(); err != nil || ok {
		t.Fatalf("expected no stored backlight, got ok=%v err=%v", ok, err)
	}

	if err := store.SaveReadingSpeed(350); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveBacklight(false); err != nil {
		t.Fatal(err)
	}

	wpm, ok, err := store.ReadingSpeed()
	if err != nil || !ok || wpm != 350 {
		t.Errorf("expected 350 wpm, got %d ok=%v err=%v", wpm, ok, err)
	}
	on, ok, err := store.Backlight()
	if err != nil || !ok || on {
		t.Errorf("expected backlight off, got %v ok=%v err=%v", on, ok, err)
	}

	if err := store.SaveReadingSpeed(0); err == nil {
		t.Error("expected error for zero reading speed")
	}
}

func TestStore_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "persist.db")

	store, err := NewStore(dbPath, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SaveReadingSpeed(500); err != nil {
		t.Fatal(err)
	}
	store.Close()

	reopened, err := NewStore(dbPath, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	wpm, ok, _ := reopened.ReadingSpeed()
	if !ok || wpm != 500 {
		t.Errorf("expected 500 after reopen, got %d ok=%v", wpm, ok)
	}
}

func TestRetry(t *testing.T) {
	calls := 0
	err := Retry(func() error {
		calls++
		if calls < 2 {
			return errors.New("database busy")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}

	calls = 0
	err = Retry(func() error {
		calls++
		return ErrNotFound
	})
	if !errors.Is(err, ErrNotFound) || calls != 1 {
		t.Errorf("expected one call returning ErrNotFound, got %d calls err=%v", calls, err)
	}
}
