package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	feedsBucket    = []byte("feeds")
	itemsBucket    = []byte("items")
	metaBucket     = []byte("metadata")
	settingsBucket = []byte("settings")

	readingSpeedKey = []byte("reading_speed_wpm")
	backlightKey    = []byte("backlight_enabled")
)

var (
	// ErrNotFound is returned when a key has no stored value.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when adding a feed whose URL is already listed.
	ErrDuplicate = errors.New("feed already exists")
)

const defaultTimeout = time.Second

type Store struct {
	db *bolt.DB
}

// NewStore opens or creates the database at dbPath. A non-positive timeout
// falls back to one second.
func NewStore(dbPath string, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{feedsBucket, itemsBucket, metaBucket, settingsBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveFeeds replaces the feed list. Positions follow slice order.
func (s *Store) SaveFeeds(feeds []Feed) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(feedsBucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		b, err := tx.CreateBucket(feedsBucket)
		if err != nil {
			return err
		}
		now := time.Now()
		for i, feed := range feeds {
			feed.Position = i
			if feed.AddedAt.IsZero() {
				feed.AddedAt = now
			}
			if err := putJSON(b, []byte(feed.URL), feed); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetFeeds returns the feed list in position order.
func (s *Store) GetFeeds() ([]Feed, error) {
	var feeds []Feed
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		feeds, err = readFeeds(tx.Bucket(feedsBucket))
		return err
	})
	return feeds, err
}

// AddFeed appends a feed to the end of the list.
func (s *Store) AddFeed(feed Feed) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(feedsBucket)
		if b.Get([]byte(feed.URL)) != nil {
			return fmt.Errorf("%s: %w", feed.URL, ErrDuplicate)
		}
		existing, err := readFeeds(b)
		if err != nil {
			return err
		}
		feed.Position = len(existing)
		if feed.AddedAt.IsZero() {
			feed.AddedAt = time.Now()
		}
		return putJSON(b, []byte(feed.URL), feed)
	})
}

// RemoveFeed deletes a feed with its cached items and fetch metadata, and
// closes the gap in positions.
func (s *Store) RemoveFeed(url string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(feedsBucket)
		if b.Get([]byte(url)) == nil {
			return fmt.Errorf("feed %s: %w", url, ErrNotFound)
		}
		if err := b.Delete([]byte(url)); err != nil {
			return err
		}
		if err := tx.Bucket(itemsBucket).Delete([]byte(url)); err != nil {
			return err
		}
		if err := tx.Bucket(metaBucket).Delete([]byte(url)); err != nil {
			return err
		}

		rest, err := readFeeds(b)
		if err != nil {
			return err
		}
		for i, feed := range rest {
			if feed.Position == i {
				continue
			}
			feed.Position = i
			if err := putJSON(b, []byte(feed.URL), feed); err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveItems replaces the cached items of one feed.
func (s *Store) SaveItems(feedURL string, items []Item) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return putJSON(tx.Bucket(itemsBucket), []byte(feedURL), items)
	})
}

// GetItems returns the cached items of one feed, or ErrNotFound when the
// feed was never cached.
func (s *Store) GetItems(feedURL string) ([]Item, error) {
	var items []Item
	err := s.db.View(func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket(itemsBucket), []byte(feedURL), &items)
	})
	if err != nil {
		return nil, fmt.Errorf("items for %s: %w", feedURL, err)
	}
	return items, nil
}

func (s *Store) SaveFetchMetadata(meta *FetchMetadata) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return putJSON(tx.Bucket(metaBucket), []byte(meta.FeedURL), meta)
	})
}

func (s *Store) GetFetchMetadata(feedURL string) (*FetchMetadata, error) {
	var meta FetchMetadata
	err := s.db.View(func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket(metaBucket), []byte(feedURL), &meta)
	})
	if err != nil {
		return nil, fmt.Errorf("metadata for %s: %w", feedURL, err)
	}
	return &meta, nil
}

// ReadingSpeed returns the stored words-per-minute. ok is false when none
// was ever saved.
func (s *Store) ReadingSpeed() (int, bool, error) {
	var wpm int
	ok, err := s.getSetting(readingSpeedKey, &wpm)
	return wpm, ok, err
}

func (s *Store) SaveReadingSpeed(wpm int) error {
	if wpm <= 0 {
		return fmt.Errorf("invalid reading speed %d", wpm)
	}
	return s.putSetting(readingSpeedKey, wpm)
}

// Backlight returns the stored backlight preference.
func (s *Store) Backlight() (bool, bool, error) {
	var on bool
	ok, err := s.getSetting(backlightKey, &on)
	return on, ok, err
}

func (s *Store) SaveBacklight(on bool) error {
	return s.putSetting(backlightKey, on)
}

func (s *Store) getSetting(key []byte, v any) (bool, error) {
	err := s.db.View(func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket(settingsBucket), key, v)
	})
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading setting %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) putSetting(key []byte, v any) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return putJSON(tx.Bucket(settingsBucket), key, v)
	})
}

func readFeeds(b *bolt.Bucket) ([]Feed, error) {
	var feeds []Feed
	err := b.ForEach(func(_ []byte, v []byte) error {
		var feed Feed
		if err := json.Unmarshal(v, &feed); err != nil {
			return err
		}
		feeds = append(feeds, feed)
		return nil
	})
	sort.SliceStable(feeds, func(i, j int) bool {
		return feeds[i].Position < feeds[j].Position
	})
	return feeds, err
}

func putJSON(b *bolt.Bucket, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put(key, data)
}

func getJSON(b *bolt.Bucket, key []byte, v any) error {
	data := b.Get(key)
	if data == nil {
		return ErrNotFound
	}
	return json.Unmarshal(data, v)
}
