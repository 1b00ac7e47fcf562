// Package data provides the static reference data shown by the bot: the
// staff roster, size chart images, the Hage & Hige lineup and personal
// profiles. Data is loaded once at startup and is read-only afterwards.
package data

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/titansbeer/titans-linebot-go/internal/logger"
)

// Image URLs shared by several cards.
const (
	TitansLogoURL   = "https://obs.line-scdn.net/0hMJn8lgocEmVTQQaKOTRtMgMcGQdgIwxucXUGAnQ-KQg4IyxMJltfYDI9Ogw4CgpPZ3cCc3c6EzV2Ix1Yb0Y4d3U-NSohGlZYN3cWdDcqByUiITAzKA/f256x256"
	HagehigeLogoURL = "https://assets.untappd.com/site/brewery_logos_hd/brewery-520788_c80d1_hd.jpeg"
)

// Reference file names.
const (
	StaffFile    = "staff.json"
	SizesFile    = "size_images.json"
	HagehigeFile = "hagehige.json"
	ProfilesFile = "profiles.json"
)

// DefaultProfileKey is used when a profile name is unknown.
const DefaultProfileKey = "adam"

//go:embed reference/*.json
var embedded embed.FS

// Staff is one member of the staff roster.
type Staff struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// SizeImages holds the glass images of the size chart.
type SizeImages struct {
	Small  string `json:"small"`
	Goblet string `json:"goblet"`
	Titan  string `json:"titan"`
}

// HagehigeBeer is one beer of the Hage & Hige lineup.
type HagehigeBeer struct {
	Name       string `json:"name"`
	Image      string `json:"image"`
	UntappdURL string `json:"untappd_url"`
}

// Profile is a personal profile card.
type Profile struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
	Image string `json:"image"`
}

// Reference is the immutable reference data set. Getters return copies.
type Reference struct {
	staff    []Staff
	sizes    SizeImages
	hagehige []HagehigeBeer
	profiles map[string]Profile
}

// Default returns the reference data built into the binary.
func Default() *Reference {
	ref, err := load(embeddedFS())
	if err != nil {
		// The embedded files are validated by tests.
		panic(fmt.Sprintf("data: embedded reference data is invalid: %v", err))
	}
	return ref
}

// Load reads reference data from dir, falling back to the built-in set for
// every file that is missing or invalid. An empty dir uses the built-in set.
func Load(dir string, log *logger.Logger) *Reference {
	ref := Default()
	if dir == "" {
		return ref
	}

	log = log.WithModule("data").WithField("dir", dir)
	override := os.DirFS(dir)

	var staff []Staff
	if err := readList(override, StaffFile, &staff); err != nil {
		log.WithError(err).Warn("Using built-in staff roster")
	} else {
		ref.staff = staff
	}

	var sizes SizeImages
	if err := readJSON(override, SizesFile, &sizes); err != nil {
		log.WithError(err).Warn("Using built-in size chart images")
	} else if err := sizes.validate(); err != nil {
		log.WithError(err).Warn("Using built-in size chart images")
	} else {
		ref.sizes = sizes
	}

	var hagehige []HagehigeBeer
	if err := readList(override, HagehigeFile, &hagehige); err != nil {
		log.WithError(err).Warn("Using built-in Hage & Hige lineup")
	} else {
		ref.hagehige = hagehige
	}

	profiles, err := readProfiles(override)
	if err != nil {
		log.WithError(err).Warn("Using built-in profiles")
	} else {
		ref.profiles = profiles
	}

	return ref
}

func embeddedFS() fs.FS {
	sub, err := fs.Sub(embedded, "reference")
	if err != nil {
		panic(err)
	}
	return sub
}

func load(fsys fs.FS) (*Reference, error) {
	ref := &Reference{}
	if err := readList(fsys, StaffFile, &ref.staff); err != nil {
		return nil, err
	}
	if err := readJSON(fsys, SizesFile, &ref.sizes); err != nil {
		return nil, err
	}
	if err := ref.sizes.validate(); err != nil {
		return nil, err
	}
	if err := readList(fsys, HagehigeFile, &ref.hagehige); err != nil {
		return nil, err
	}
	profiles, err := readProfiles(fsys)
	if err != nil {
		return nil, err
	}
	ref.profiles = profiles
	return ref, nil
}

func readJSON(fsys fs.FS, name string, v any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// readList reads a JSON array and rejects an empty one.
func readList[T any](fsys fs.FS, name string, out *[]T) error {
	var items []T
	if err := readJSON(fsys, name, &items); err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("%s: no entries", name)
	}
	*out = items
	return nil
}

func readProfiles(fsys fs.FS) (map[string]Profile, error) {
	var raw map[string]Profile
	if err := readJSON(fsys, ProfilesFile, &raw); err != nil {
		return nil, err
	}
	profiles := make(map[string]Profile, len(raw))
	for k, p := range raw {
		profiles[strings.ToLower(strings.TrimSpace(k))] = p
	}
	if _, ok := profiles[DefaultProfileKey]; !ok {
		return nil, fmt.Errorf("%s: missing %q profile", ProfilesFile, DefaultProfileKey)
	}
	return profiles, nil
}

func (s SizeImages) validate() error {
	if s.Small == "" || s.Goblet == "" || s.Titan == "" {
		return fmt.Errorf("%s: small, goblet and titan images are required", SizesFile)
	}
	return nil
}

// Staff returns the staff roster.
func (r *Reference) Staff() []Staff {
	return slices.Clone(r.staff)
}

// Sizes returns the size chart images.
func (r *Reference) Sizes() SizeImages {
	return r.sizes
}

// Hagehige returns the Hage & Hige lineup.
func (r *Reference) Hagehige() []HagehigeBeer {
	return slices.Clone(r.hagehige)
}

// Profile returns the profile stored under key (case-insensitive), or the
// default profile when key is unknown.
func (r *Reference) Profile(key string) Profile {
	if p, ok := r.profiles[strings.ToLower(strings.TrimSpace(key))]; ok {
		return p
	}
	return r.profiles[DefaultProfileKey]
}

// ProfileKeys returns the known profile keys in sorted order.
func (r *Reference) ProfileKeys() []string {
	return slices.Sorted(maps.Keys(r.profiles))
}
