package backend

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies the store behind a location string.
type Kind string

const (
	FileBackend   Kind = "file"
	MemoryBackend Kind = "memory"
	S3Backend     Kind = "s3"
	AzureBackend  Kind = "azure"
	SheetsBackend Kind = "gsheets"
	SQLiteBackend Kind = "sqlite"
)

var ErrUnsupportedLocation = errors.New("unsupported location")

// String implements fmt.Stringer
func (k Kind) String() string {
	return string(k)
}

// IsValid returns true if the kind is known
func (k Kind) IsValid() bool {
	switch k {
	case FileBackend, MemoryBackend, S3Backend, AzureBackend, SheetsBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// Location is a parsed location string.
//
//	./data/credits.jsonl              file
//	file:///srv/credits.jsonl.gz      file, gzip
//	memory://scratch                  memory
//	s3://bucket/path/credits.jsonl    s3
//	azure://container/credits.jsonl   azure
//	gsheets://spreadsheetID/Credits   gsheets
//	sqlite:///var/lib/credits.db      sqlite
type Location struct {
	Raw  string
	Kind Kind
	// Host is the bucket, container or spreadsheet ID. Empty for file,
	// memory and sqlite.
	Host string
	// Path is the file path, object key, blob name, memory name or sheet.
	Path string
	// Gzip is set for byte stores whose path ends in ".gz".
	Gzip bool
}

func (l Location) String() string { return l.Raw }

// SameAs reports whether both locations address the same dataset.
func (l Location) SameAs(other Location) bool {
	return l.Kind == other.Kind && l.Host == other.Host && l.Path == other.Path
}

// ParseLocation splits a location string into its store kind and address.
// Strings without a scheme are local paths.
func ParseLocation(raw string) (Location, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Location{}, fmt.Errorf("%w: empty location", ErrUnsupportedLocation)
	}
	loc := Location{Raw: s}

	scheme, rest, ok := strings.Cut(s, "://")
	if !ok {
		loc.Kind, loc.Path = FileBackend, s
		loc.Gzip = strings.HasSuffix(s, ".gz")
		return loc, nil
	}

	loc.Kind = Kind(strings.ToLower(scheme))
	switch loc.Kind {
	case FileBackend, SQLiteBackend, MemoryBackend:
		if rest == "" {
			return Location{}, fmt.Errorf("%w: %q has no path", ErrUnsupportedLocation, raw)
		}
		loc.Path = rest
	case S3Backend, AzureBackend:
		host, path, _ := strings.Cut(rest, "/")
		if host == "" || path == "" {
			return Location{}, fmt.Errorf("%w: %q must look like %s://<%s>/<name>", ErrUnsupportedLocation, raw, loc.Kind, hostLabel(loc.Kind))
		}
		loc.Host, loc.Path = host, path
	case SheetsBackend:
		host, sheet, _ := strings.Cut(rest, "/")
		if host == "" {
			return Location{}, fmt.Errorf("%w: %q has no spreadsheet ID", ErrUnsupportedLocation, raw)
		}
		loc.Host, loc.Path = host, strings.Trim(sheet, "/")
		return loc, nil
	default:
		return Location{}, fmt.Errorf("%w: scheme %q", ErrUnsupportedLocation, scheme)
	}
	if loc.Kind != SQLiteBackend {
		loc.Gzip = strings.HasSuffix(loc.Path, ".gz")
	}
	return loc, nil
}

func hostLabel(k Kind) string {
	if k == S3Backend {
		return "bucket"
	}
	return "container"
}
