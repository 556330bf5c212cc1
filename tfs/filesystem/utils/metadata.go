package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/common"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/directory"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/types"
	"github.com/ZanzyTHEbar/tidyfs/tfs/postprocess"

	exiflib "github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// FileMetadata is what `inspect` reports about a single file.
type FileMetadata struct {
	Path           string               `json:"path" yaml:"path"`
	Name           string               `json:"name" yaml:"name"`
	Extension      string               `json:"extension" yaml:"extension"`
	Classification types.Classification `json:"classification" yaml:"classification"`
	Group          string               `json:"group" yaml:"group"`
	Size           int64                `json:"size" yaml:"size"`
	ModTime        time.Time            `json:"mod_time" yaml:"mod_time"`
	Tags           *postprocess.Tags    `json:"tags,omitempty" yaml:"tags,omitempty"`
	TagError       string               `json:"tag_error,omitempty" yaml:"tag_error,omitempty"`
	EXIF           map[string]string    `json:"exif,omitempty" yaml:"exif,omitempty"`
	EXIFError      string               `json:"exif_error,omitempty" yaml:"exif_error,omitempty"`
}

// Inspect classifies path and reads its embedded metadata: tags for audio,
// EXIF for images. Unreadable metadata is reported, not returned as an error.
func Inspect(path string) (*FileMetadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	_, ext := common.NewPathUtils().SplitExtension(filepath.Base(path))
	class := directory.Classify(ext)
	md := &FileMetadata{
		Path:           path,
		Name:           filepath.Base(path),
		Extension:      ext,
		Classification: class,
		Group:          directory.GroupDescription(class),
		Size:           info.Size(),
		ModTime:        info.ModTime(),
	}

	switch class {
	case types.ClassAudio:
		tags, err := postprocess.ReadAny(path)
		if err != nil {
			md.TagError = err.Error()
		} else {
			md.Tags = &tags
		}
	case types.ClassImage:
		exif, err := ExtractEXIF(path)
		if err != nil {
			md.EXIFError = err.Error()
		}
		md.EXIF = exif
	}
	return md, nil
}

// ExtractEXIF decodes the EXIF block of an image into tag name/value pairs.
// A file without a decodable EXIF block yields an empty map.
func ExtractEXIF(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Non-critical errors still leave a usable partial result
	x, err := exiflib.Decode(f)
	if err != nil && exiflib.IsCriticalError(err) {
		return map[string]string{}, nil
	}

	fields := make(map[string]string)
	if err := x.Walk(fieldCollector(fields)); err != nil {
		return nil, err
	}
	return fields, nil
}

// fieldCollector stores every walked field as its string form.
type fieldCollector map[string]string

func (c fieldCollector) Walk(name exiflib.FieldName, tag *tiff.Tag) error {
	c[string(name)] = tag.String()
	return nil
}
