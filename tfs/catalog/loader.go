package catalog

import (
	"bytes"
	"embed"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/common"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

//go:embed defaults/*.yaml
var defaultSources embed.FS

const (
	exclusionsName = "exclusions"
	noiseName      = "noise"
)

// sourceFormats maps recognised file extensions to viper config types. XML is
// handled separately.
var sourceFormats = map[string]string{
	"yaml": "yaml",
	"yml":  "yaml",
	"json": "json",
	"toml": "toml",
	"xml":  "xml",
}

// Catalogs bundles the two catalogs the renamer is constructed with.
type Catalogs struct {
	Exclusions *ExclusionCatalog
	Noise      *NoiseCatalog
	// Sources lists every file that contributed, defaults first.
	Sources []string
}

// LoadOptions selects where catalog sources are discovered.
type LoadOptions struct {
	SearchPaths []string
	// SkipDefaults leaves the built-in lists out of the merge.
	SkipDefaults bool
}

// Empty returns catalogs with no entries.
func Empty() *Catalogs {
	return &Catalogs{
		Exclusions: NewExclusionCatalog(),
		Noise:      NewNoiseCatalog(nil, nil),
	}
}

type accumulator struct {
	exclusions []string
	noise      []string
	localized  map[string][]string
	sources    []string
}

// Load merges the built-in lists with every matching source found directly
// inside the search paths. Missing directories and files are skipped; a
// present source that cannot be read or parsed fails the whole load with a
// *common.CatalogLoadError.
func Load(opts LoadOptions) (*Catalogs, error) {
	acc := &accumulator{localized: make(map[string][]string)}

	if !opts.SkipDefaults {
		if err := acc.loadDefaults(); err != nil {
			return nil, err
		}
	}

	for _, dir := range opts.SearchPaths {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := acc.loadDir(dir); err != nil {
			return nil, err
		}
	}

	c := &Catalogs{
		Exclusions: NewExclusionCatalog(acc.exclusions...),
		Noise:      NewNoiseCatalog(acc.noise, acc.localized),
		Sources:    acc.sources,
	}
	slog.Debug("Catalogs loaded",
		"exclusions", c.Exclusions.Len(),
		"noise", len(c.Noise.Entries()),
		"locales", c.Noise.Locales(),
		"sources", len(c.Sources))
	return c, nil
}

func (acc *accumulator) loadDefaults() error {
	entries, err := fs.ReadDir(defaultSources, "defaults")
	if err != nil {
		return &common.CatalogLoadError{Source: "defaults", Err: err}
	}
	for _, e := range entries {
		name := path.Join("defaults", e.Name())
		data, err := defaultSources.ReadFile(name)
		if err != nil {
			return &common.CatalogLoadError{Source: name, Err: err}
		}
		if err := acc.add("builtin:"+e.Name(), e.Name(), data); err != nil {
			return err
		}
	}
	return nil
}

func (acc *accumulator) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("Catalog search path not found", "path", dir)
			return nil
		}
		return &common.CatalogLoadError{Source: dir, Err: err}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, _, ok := classifySource(e.Name()); !ok {
			continue
		}
		full := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(full)
		if err != nil {
			return &common.CatalogLoadError{Source: full, Err: err}
		}
		if err := acc.add(full, e.Name(), data); err != nil {
			return err
		}
	}
	return nil
}

// add parses one source and merges it. name decides the kind of catalog.
func (acc *accumulator) add(source, name string, data []byte) error {
	kind, locale, ok := classifySource(name)
	if !ok {
		return nil
	}
	format := sourceFormats[strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))]

	var values []string
	var err error
	if format == "xml" {
		values, err = parseXML(kind, data)
	} else {
		values, err = parseStructured(kind, format, data)
	}
	if err != nil {
		return &common.CatalogLoadError{Source: source, Err: err}
	}

	switch {
	case kind == exclusionsName:
		acc.exclusions = append(acc.exclusions, values...)
	case locale == "":
		acc.noise = append(acc.noise, values...)
	default:
		key := normalizeLocale(locale)
		acc.localized[key] = append(acc.localized[key], values...)
	}
	acc.sources = append(acc.sources, source)
	return nil
}

// classifySource recognises exclusions.<ext>, noise.<ext> and
// noise_<locale>.<ext>.
func classifySource(name string) (kind, locale string, ok bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if _, known := sourceFormats[ext]; !known {
		return "", "", false
	}
	base := strings.TrimSuffix(name, filepath.Ext(name))
	switch {
	case base == exclusionsName:
		return exclusionsName, "", true
	case base == noiseName:
		return noiseName, "", true
	case strings.HasPrefix(base, noiseName+"_") && len(base) > len(noiseName)+1:
		return noiseName, base[len(noiseName)+1:], true
	}
	return "", "", false
}

type exclusionsDocument struct {
	Exclusions []string `mapstructure:"exclusions"`
}

type noiseDocument struct {
	Noise []string `mapstructure:"noise"`
}

// parseStructured reads a yaml/json/toml document through viper and decodes
// it strictly: unknown keys and non-string entries are errors.
func parseStructured(kind, format string, data []byte) ([]string, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to parse %s document: %w", format, err)
	}

	var (
		excl  exclusionsDocument
		noise noiseDocument
	)
	var target interface{} = &excl
	if kind == noiseName {
		target = &noise
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: false,
		Result:           target,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("invalid %s catalog: %w", kind, err)
	}

	if kind == noiseName {
		return noise.Noise, nil
	}
	return excl.Exclusions, nil
}

type xmlExclusions struct {
	XMLName xml.Name `xml:"exclusions"`
	Items   []struct {
		Value string `xml:"value"`
	} `xml:"exclusion"`
}

type xmlNoise struct {
	XMLName xml.Name `xml:"noise"`
	Values  []string `xml:"value"`
}

// parseXML reads the legacy list format.
func parseXML(kind string, data []byte) ([]string, error) {
	if kind == noiseName {
		var doc xmlNoise
		if err := xml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse xml document: %w", err)
		}
		return doc.Values, nil
	}

	var doc xmlExclusions
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse xml document: %w", err)
	}
	values := make([]string, 0, len(doc.Items))
	for _, item := range doc.Items {
		values = append(values, item.Value)
	}
	return values, nil
}
