// Package head models which environment is currently mirrored into the local file.
//
// The head is either the local environment, whose contents live only in the local
// file (and in the backup while another environment is active), or a named
// environment stored next to it. It is persisted as a single line: the token
// "local" or the environment name. Because "local" is reserved, no named
// environment can ever be called "local".
package head

import (
	"envm/internal/constants"
	"os"
	"strings"
)

// Head is the active environment: either Local or a named environment.
type Head struct {
	local bool
	name  string
}

// Local returns the head of the local environment.
func Local() Head {
	return Head{local: true}
}

// Named returns the head of the environment called name.
// The name is not validated; an empty name is still a named head.
func Named(name string) Head {
	return Head{name: name}
}

// Parse converts a persisted token into a Head.
// Surrounding whitespace is ignored; "local" is always the local environment.
func Parse(text string) Head {
	text = strings.TrimSpace(text)
	if text == constants.LocalToken {
		return Local()
	}
	return Named(text)
}

// IsLocal reports whether h is the local environment.
func (h Head) IsLocal() bool {
	return h.local
}

// Name returns the environment name and true for a named head, or "" and false for Local.
func (h Head) Name() (string, bool) {
	return h.name, !h.local
}

// String returns the persisted token.
func (h Head) String() string {
	if h.IsLocal() {
		return constants.LocalToken
	}
	return h.name
}

// Equal reports whether two heads refer to the same environment.
func (h Head) Equal(other Head) bool {
	return h.local == other.local && h.name == other.name
}

// Read loads the head stored at path.
func Read(path string) (Head, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Head{}, err
	}
	return Parse(string(data)), nil
}

// Write stores h at path, replacing its contents.
func Write(path string, h Head) error {
	return os.WriteFile(path, []byte(h.String()), 0644)
}
