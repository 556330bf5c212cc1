package directory

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/common"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/interfaces"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/options"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/types"
)

// Entry is one child of a directory as seen at listing time.
type Entry struct {
	Path string
	Name string
	Info os.FileInfo
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Info != nil && e.Info.IsDir()
}

// View lists a directory's children in case-insensitive name order.
// A View is created per traversal level and discarded afterwards.
type View struct {
	path      string
	root      string
	ignore    options.IgnoreChecker
	pathUtils *common.PathUtils
}

// NewView opens a view on path, which must be an existing directory.
func NewView(path string) (*View, error) {
	vu := common.NewValidationUtils()
	if err := vu.ValidateTargetDirectory(path); err != nil {
		return nil, err
	}
	pu := common.NewPathUtils()
	abs := pu.NormalizePath(path)
	return &View{path: abs, root: abs, pathUtils: pu}, nil
}

// WithIgnore returns a copy of v that drops entries whose path relative to
// root matches ig. A nil checker disables ignoring.
func (v *View) WithIgnore(root string, ig options.IgnoreChecker) *View {
	cp := *v
	cp.root = v.pathUtils.NormalizePath(root)
	cp.ignore = ig
	return &cp
}

// Sub opens a view on a child directory, inheriting ignore settings.
func (v *View) Sub(path string) (*View, error) {
	sub, err := NewView(path)
	if err != nil {
		return nil, err
	}
	sub.root = v.root
	sub.ignore = v.ignore
	return sub, nil
}

// Path returns the absolute path of the viewed directory.
func (v *View) Path() string {
	return v.path
}

// Names captures the names of every child, unfiltered.
func (v *View) Names() (types.NameSet, error) {
	entries, err := os.ReadDir(v.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", v.path, err)
	}
	names := types.NewNameSet()
	for _, e := range entries {
		names.Add(e.Name())
	}
	return names, nil
}

// Listing returns the direct children accepted by filter.
func (v *View) Listing(filter interfaces.Filter) ([]Entry, error) {
	entries, err := v.read()
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if filter.Accepts(e.Name, e.IsDir()) {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out, nil
}

// ListingRecursive descends into every subdirectory regardless of filter and
// returns the flattened, re-sorted result. Directories are part of the result
// only when filter accepts directories.
func (v *View) ListingRecursive(filter interfaces.Filter) ([]Entry, error) {
	var out []Entry
	if err := v.collect(filter, &out); err != nil {
		return nil, err
	}
	sortEntries(out)
	return out, nil
}

func (v *View) collect(filter interfaces.Filter, out *[]Entry) error {
	entries, err := v.read()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			if filter.Accepts(e.Name, true) {
				*out = append(*out, e)
			}
			sub, err := v.Sub(e.Path)
			if err != nil {
				return err
			}
			if err := sub.collect(filter, out); err != nil {
				return err
			}
			continue
		}
		if filter.Accepts(e.Name, false) {
			*out = append(*out, e)
		}
	}
	return nil
}

func (v *View) read() ([]Entry, error) {
	dirEntries, err := os.ReadDir(v.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", v.path, err)
	}

	out := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		full := filepath.Join(v.path, de.Name())
		if v.ignored(full, de.IsDir()) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			// Entry vanished between ReadDir and Info
			continue
		}
		out = append(out, Entry{Path: full, Name: de.Name(), Info: info})
	}
	return out, nil
}

func (v *View) ignored(full string, isDir bool) bool {
	if v.ignore == nil {
		return false
	}
	rel, err := v.pathUtils.RelativeTo(v.root, full)
	if err != nil {
		return false
	}
	if isDir && v.ignore.MatchesPath(rel+"/") {
		return true
	}
	return v.ignore.MatchesPath(rel)
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := strings.ToLower(entries[i].Name), strings.ToLower(entries[j].Name)
		if a != b {
			return a < b
		}
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Path < entries[j].Path
	})
}
