package selection

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/alessio/shellescape"
)

// Scheme is the only URI scheme the launcher accepts.
const Scheme = "file"

// Entry is one file-system reference handed over by the file manager.
type Entry struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

// Selection is the set of entries highlighted when a menu is requested.
type Selection []Entry

// Argument is the command argument derived from an entry's URI.
type Argument struct {
	Path   string `json:"path"`
	Quoted string `json:"quoted"`
}

// InvalidSelectionError reports a URI that cannot be turned into a local path.
type InvalidSelectionError struct {
	URI    string
	Reason string
	Err    error
}

func (e *InvalidSelectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid selection %q: %s: %v", e.URI, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid selection %q: %s", e.URI, e.Reason)
}

func (e *InvalidSelectionError) Unwrap() error {
	return e.Err
}

func invalid(uri, reason string, err error) error {
	return &InvalidSelectionError{URI: uri, Reason: reason, Err: err}
}

// Decode converts a file:// URI into the literal filesystem path it names.
// Percent escapes are resolved by the URI parser; the result is always an
// absolute path.
func Decode(uri string) (string, error) {
	if strings.TrimSpace(uri) == "" {
		return "", invalid(uri, "empty uri", nil)
	}

	u, err := url.Parse(uri)
	if err != nil {
		return "", invalid(uri, "malformed uri", err)
	}
	if !strings.EqualFold(u.Scheme, Scheme) {
		return "", invalid(uri, fmt.Sprintf("unsupported scheme %q", u.Scheme), nil)
	}
	if u.Opaque != "" {
		return "", invalid(uri, "relative file uri", nil)
	}
	if u.Host != "" && !strings.EqualFold(u.Host, "localhost") {
		return "", invalid(uri, fmt.Sprintf("remote host %q", u.Host), nil)
	}
	if u.User != nil {
		return "", invalid(uri, "user info in file uri", nil)
	}
	if u.RawQuery != "" || u.ForceQuery || u.Fragment != "" {
		return "", invalid(uri, "query or fragment in file uri", nil)
	}
	if u.Path == "" {
		return "", invalid(uri, "empty path", nil)
	}
	if !strings.HasPrefix(u.Path, "/") {
		return "", invalid(uri, "path is not absolute", nil)
	}
	if strings.ContainsRune(u.Path, 0) {
		return "", invalid(uri, "path contains NUL byte", nil)
	}

	return u.Path, nil
}

// Escape quotes path so a POSIX shell reads it back as exactly one word
// with no expansion.
func Escape(path string) string {
	return shellescape.Quote(path)
}

// Parse decodes uri and escapes the resulting path.
func Parse(uri string) (Argument, error) {
	p, err := Decode(uri)
	if err != nil {
		return Argument{}, err
	}
	return Argument{Path: p, Quoted: Escape(p)}, nil
}

// Encode is the inverse of Decode.
func Encode(path string) string {
	u := url.URL{Scheme: Scheme, Path: path}
	return u.String()
}

// NewEntry builds an entry for uri, deriving the display name from its path.
func NewEntry(uri string) Entry {
	return Entry{URI: uri, Name: DisplayName(uri)}
}

// FromPath builds an entry for a plain filesystem path.
func FromPath(p string) Entry {
	return NewEntry(Encode(p))
}

// DisplayName returns the base name of the path uri refers to. Undecodable
// URIs are returned unchanged.
func DisplayName(uri string) string {
	p, err := Decode(uri)
	if err != nil {
		return uri
	}
	return path.Base(p)
}
