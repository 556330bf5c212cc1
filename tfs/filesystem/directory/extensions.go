package directory

import (
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/types"
)

var extensionTable = map[string]types.Classification{
	"mp3":  types.ClassAudio,
	"wma":  types.ClassAudio,
	"wav":  types.ClassAudio,
	"flac": types.ClassAudio,
	"ogg":  types.ClassAudio,
	"m4a":  types.ClassAudio,
	"wmv":  types.ClassVideo,
	"mpeg": types.ClassVideo,
	"mpg":  types.ClassVideo,
	"mov":  types.ClassVideo,
	"avi":  types.ClassVideo,
	"mp4":  types.ClassVideo,
	"mkv":  types.ClassVideo,
	"jpg":  types.ClassImage,
	"jpeg": types.ClassImage,
	"bmp":  types.ClassImage,
	"png":  types.ClassImage,
	"gif":  types.ClassImage,
	"txt":  types.ClassText,
}

var groupDescriptions = map[types.Classification]string{
	types.ClassAudio: "Audio files",
	types.ClassVideo: "Video files",
	types.ClassImage: "Image files",
	types.ClassText:  "Text files",
	types.ClassOther: "Other files",
}

// Classify maps an extension (with or without the dot, any case) to its
// classification. Unknown extensions are OTHER.
func Classify(ext string) types.Classification {
	if c, ok := extensionTable[normalizeExtension(ext)]; ok {
		return c
	}
	return types.ClassOther
}

// KnownExtensions returns every extension with a classification, sorted.
func KnownExtensions() []string {
	out := make([]string, 0, len(extensionTable))
	for ext := range extensionTable {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// ExtensionsFor returns the sorted extensions of one classification.
func ExtensionsFor(c types.Classification) []string {
	var out []string
	for ext, class := range extensionTable {
		if class == c {
			out = append(out, ext)
		}
	}
	sort.Strings(out)
	return out
}

// GroupDescription returns the human-readable name of a classification group.
func GroupDescription(c types.Classification) string {
	if d, ok := groupDescriptions[c]; ok {
		return d
	}
	return groupDescriptions[types.ClassOther]
}

func normalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
