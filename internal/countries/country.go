package countries

import (
	"sort"
	"strings"
)

// Country represents a country record from the REST Countries API.
// Records are treated as read-only once decoded.
type Country struct {
	Name       Name              `json:"name"`
	Capital    []string          `json:"capital"`
	Population int64             `json:"population"`
	Languages  map[string]string `json:"languages"`
	Flags      Flags             `json:"flags"`
	Flag       string            `json:"flag"` // emoji
}

// Name holds the common and official country names.
type Name struct {
	Common   string `json:"common"`
	Official string `json:"official"`
}

// Flags holds flag image URLs.
type Flags struct {
	SVG string `json:"svg"`
	PNG string `json:"png"`
	Alt string `json:"alt,omitempty"`
}

// OfficialName returns the official name, falling back to the common name
func (c *Country) OfficialName() string {
	if c.Name.Official != "" {
		return c.Name.Official
	}
	return c.Name.Common
}

// CapitalName returns all capitals joined with ", "
func (c *Country) CapitalName() string {
	return strings.Join(c.Capital, ", ")
}

// FlagURL prefers the SVG flag and falls back to PNG
func (c *Country) FlagURL() string {
	if c.Flags.SVG != "" {
		return c.Flags.SVG
	}
	return c.Flags.PNG
}

// LanguageNames returns language names ordered by language code.
func (c *Country) LanguageNames() []string {
	codes := make([]string, 0, len(c.Languages))
	for code := range c.Languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	names := make([]string, 0, len(codes))
	for _, code := range codes {
		names = append(names, c.Languages[code])
	}
	return names
}

// FindByOfficialName returns the first record whose official name equals name exactly.
func FindByOfficialName(list []Country, name string) (Country, bool) {
	for _, c := range list {
		if c.OfficialName() == name {
			return c, true
		}
	}
	return Country{}, false
}
