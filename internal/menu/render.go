package menu

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
	emptyStyle = lipgloss.NewStyle().Faint(true).Italic(true)
	childStyle = lipgloss.NewStyle().PaddingLeft(4)
)

// Render writes items as an indented list, one entry per line.
func Render(w io.Writer, items []Item) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, emptyStyle.Render("(no menu items)"))
		return err
	}
	for _, it := range items {
		if _, err := fmt.Fprintf(w, "%s  %s\n", titleStyle.Render(it.Title), keyStyle.Render(it.Key)); err != nil {
			return err
		}
		for _, child := range it.Children {
			line := fmt.Sprintf("▸ %s  %s", child.Title, keyStyle.Render(child.Key))
			if _, err := fmt.Fprintln(w, childStyle.Render(line)); err != nil {
				return err
			}
		}
	}
	return nil
}
