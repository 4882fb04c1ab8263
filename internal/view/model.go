// Package view turns country records into view models and renders them as
// HTML fragments for the browser widget.
package view

import (
	"strconv"
	"strings"

	"github.com/yildizm/countrylookup/internal/countries"
)

// EntryClass marks the clickable element of a list entry. The page script
// only reacts to clicks whose target carries exactly this class.
const EntryClass = "country-link"

// Detail is the view model of the detail pane
type Detail struct {
	Name       string `json:"name"`
	FlagURL    string `json:"flag_url"`
	FlagAlt    string `json:"flag_alt"`
	FlagEmoji  string `json:"flag_emoji,omitempty"`
	Capital    string `json:"capital"`
	Population int64  `json:"population"`
	Languages  string `json:"languages"`
}

// Entry is one line of the list pane
type Entry struct {
	Name      string `json:"name"`
	FlagURL   string `json:"flag_url"`
	FlagAlt   string `json:"flag_alt"`
	FlagEmoji string `json:"flag_emoji,omitempty"`
}

// List is the view model of the list pane
type List struct {
	Entries []Entry `json:"entries"`
}

// NewDetail builds the detail view model for c
func NewDetail(c *countries.Country) Detail {
	name := c.OfficialName()
	return Detail{
		Name:       name,
		FlagURL:    c.FlagURL(),
		FlagAlt:    flagAlt(name),
		FlagEmoji:  c.Flag,
		Capital:    c.CapitalName(),
		Population: c.Population,
		Languages:  strings.Join(c.LanguageNames(), ", "),
	}
}

// NewList builds the list view model, preserving order
func NewList(list []countries.Country) List {
	entries := make([]Entry, 0, len(list))
	for i := range list {
		name := list[i].OfficialName()
		entries = append(entries, Entry{
			Name:      name,
			FlagURL:   list[i].FlagURL(),
			FlagAlt:   flagAlt(name),
			FlagEmoji: list[i].Flag,
		})
	}
	return List{Entries: entries}
}

// PopulationText formats the population as a plain integer
func (d Detail) PopulationText() string {
	return strconv.FormatInt(d.Population, 10)
}

func flagAlt(name string) string {
	return name + "'s flag"
}
