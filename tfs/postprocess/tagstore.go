package postprocess

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
)

// ErrTagWriteUnsupported is returned by stores that can only read a container.
var ErrTagWriteUnsupported = errors.New("tag writing is not supported for this format")

// Tags are the embedded fields the renamer reads and writes.
type Tags struct {
	Artist      string `json:"artist,omitempty" yaml:"artist,omitempty"`
	AlbumArtist string `json:"album_artist,omitempty" yaml:"album_artist,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Album       string `json:"album,omitempty" yaml:"album,omitempty"`
	Genre       string `json:"genre,omitempty" yaml:"genre,omitempty"`
	Year        string `json:"year,omitempty" yaml:"year,omitempty"`
	Track       int    `json:"track,omitempty" yaml:"track,omitempty"`
	Format      string `json:"format,omitempty" yaml:"format,omitempty"`
}

// HasArtistAndTitle reports whether both identifying fields are non-blank.
func (t Tags) HasArtistAndTitle() bool {
	return strings.TrimSpace(t.Artist) != "" && strings.TrimSpace(t.Title) != ""
}

// TagStore reads and writes embedded tags for the containers it supports.
type TagStore interface {
	Supports(ext string) bool
	// Read returns empty Tags, not an error, for a file without a tag block.
	Read(path string) (Tags, error)
	// Write sets artist, album artist and title, and clears album, genre,
	// year and track. An empty Title leaves the stored title as it is.
	Write(path string, tags Tags) error
}

// TagStores picks the first store supporting an extension.
type TagStores []TagStore

// DefaultTagStores returns the id3v2 store for mp3 followed by the read-only
// store for other containers.
func DefaultTagStores() TagStores {
	return TagStores{ID3Store{}, ReadOnlyStore{}}
}

// For returns the store for ext, or nil.
func (s TagStores) For(ext string) TagStore {
	for _, store := range s {
		if store.Supports(ext) {
			return store
		}
	}
	return nil
}

// ID3Store reads and writes ID3v2 tags in mp3 files.
type ID3Store struct{}

func (ID3Store) Supports(ext string) bool {
	return strings.EqualFold(strings.TrimPrefix(ext, "."), "mp3")
}

func (ID3Store) Read(path string) (Tags, error) {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return Tags{}, fmt.Errorf("failed to open id3 tag of %s: %w", path, err)
	}
	defer t.Close()

	tags := Tags{
		Artist:      t.Artist(),
		Title:       t.Title(),
		Album:       t.Album(),
		Genre:       t.Genre(),
		Year:        t.Year(),
		AlbumArtist: t.GetTextFrame(t.CommonID("Band/Orchestra/Accompaniment")).Text,
		Format:      fmt.Sprintf("ID3v2.%d", t.Version()),
	}
	track := t.GetTextFrame(t.CommonID("Track number/Position in set")).Text
	if n, _, _ := strings.Cut(track, "/"); n != "" {
		tags.Track, _ = strconv.Atoi(strings.TrimSpace(n))
	}
	return tags, nil
}

func (ID3Store) Write(path string, tags Tags) error {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open id3 tag of %s: %w", path, err)
	}
	defer t.Close()

	t.SetDefaultEncoding(id3v2.EncodingUTF8)
	t.SetArtist(tags.Artist)
	albumArtist := t.CommonID("Band/Orchestra/Accompaniment")
	t.DeleteFrames(albumArtist)
	if tags.AlbumArtist != "" {
		t.AddTextFrame(albumArtist, t.DefaultEncoding(), tags.AlbumArtist)
	}
	if tags.Title != "" {
		t.SetTitle(tags.Title)
	}

	for _, desc := range []string{"Album/Movie/Show title", "Content type", "Year", "Track number/Position in set"} {
		t.DeleteFrames(t.CommonID(desc))
	}

	if err := t.Save(); err != nil {
		return fmt.Errorf("failed to save id3 tag of %s: %w", path, err)
	}
	return nil
}

// ReadOnlyStore reads tags from flac, ogg and m4a containers.
type ReadOnlyStore struct{}

func (ReadOnlyStore) Supports(ext string) bool {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "flac", "ogg", "m4a":
		return true
	}
	return false
}

func (ReadOnlyStore) Read(path string) (Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tags{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if errors.Is(err, tag.ErrNoTagsFound) {
		return Tags{}, nil
	}
	if err != nil {
		return Tags{}, fmt.Errorf("failed to read tags of %s: %w", path, err)
	}
	return metadataTags(m), nil
}

func (ReadOnlyStore) Write(path string, _ Tags) error {
	return fmt.Errorf("%s: %w", path, ErrTagWriteUnsupported)
}

// ReadAny reads tags from any container dhowden/tag understands, including
// mp3. Used for inspection where no store selection is needed.
func ReadAny(path string) (Tags, error) {
	return ReadOnlyStore{}.Read(path)
}

func metadataTags(m tag.Metadata) Tags {
	track, _ := m.Track()
	tags := Tags{
		Artist:      m.Artist(),
		AlbumArtist: m.AlbumArtist(),
		Title:       m.Title(),
		Album:       m.Album(),
		Genre:       m.Genre(),
		Track:       track,
		Format:      fmt.Sprintf("%s/%s", m.Format(), m.FileType()),
	}
	if m.Year() > 0 {
		tags.Year = strconv.Itoa(m.Year())
	}
	return tags
}
