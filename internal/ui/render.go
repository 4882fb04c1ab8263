package ui

import (
	"strings"

	"github.com/yildizm/countrylookup/internal/emoji"
	"github.com/yildizm/countrylookup/internal/search"
	"github.com/yildizm/countrylookup/internal/view"
)

// renderNotice renders a failure or info notice on one line
func renderNotice(styles *Styles, n *search.Notice) string {
	if n == nil {
		return ""
	}
	if n.Kind == search.NoticeFailure {
		return styles.Failure.Render(emoji.Severity("error") + " " + n.Text)
	}
	return styles.Info.Render(emoji.Severity("info") + " " + n.Text)
}

// renderDetail renders the detail pane
func renderDetail(styles *Styles, d view.Detail) string {
	var b strings.Builder

	b.WriteString(styles.Header.Render(flagPrefix(d.FlagEmoji) + d.Name))
	b.WriteString("\n\n")
	writeField(&b, styles, "capital", "Capital", d.Capital)
	writeField(&b, styles, "population", "Population", d.PopulationText())
	writeField(&b, styles, "languages", "Languages", d.Languages)

	return strings.TrimRight(b.String(), "\n")
}

func writeField(b *strings.Builder, styles *Styles, icon, label, value string) {
	b.WriteString(emoji.GetEmoji(icon))
	b.WriteString(" ")
	b.WriteString(styles.Label.Render(label + ":"))
	b.WriteString(" ")
	b.WriteString(styles.Body.Render(value))
	b.WriteString("\n")
}

// renderList renders the list pane with the cursor entry highlighted
func renderList(styles *Styles, l view.List, cursor int) string {
	lines := make([]string, 0, len(l.Entries))
	for i, entry := range l.Entries {
		text := flagPrefix(entry.FlagEmoji) + entry.Name
		if i == cursor {
			lines = append(lines, styles.ListSelected.Render(emoji.GetEmoji("pointer")+" "+text))
			continue
		}
		lines = append(lines, styles.ListItem.Render("  "+text))
	}
	return strings.Join(lines, "\n")
}

func flagPrefix(flag string) string {
	f := emoji.Flag(flag, "")
	if f == "" {
		return ""
	}
	return f + " "
}
