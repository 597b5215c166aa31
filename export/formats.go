package export

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Format names an RDF serialization.
type Format string

const (
	// FormatNTriples writes one triple per line. It is the default because
	// batches can be appended without any document framing.
	FormatNTriples Format = "ntriples"

	// FormatTurtle writes prefixed subject blocks.
	FormatTurtle Format = "turtle"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
	},
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// Formats lists the supported formats by name.
func Formats() []Format {
	out := make([]Format, 0, len(FormatRegistry))
	for f := range FormatRegistry {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseFormat accepts a format name, a common alias, or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "", "ntriples", "n-triples", "nt":
		return FormatNTriples, nil
	case "turtle", "ttl":
		return FormatTurtle, nil
	}
	return "", fmt.Errorf("unknown RDF format %q", s)
}

// FormatForPath picks the format matching the extension of path, falling
// back to N-Triples.
func FormatForPath(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	for _, info := range FormatRegistry {
		if info.Extension == ext {
			return info.Name
		}
	}
	return FormatNTriples
}
