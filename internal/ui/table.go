package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/josephgoksu/contactbook/models"
)

// EmptyListing is printed by list when the book has no records.
const EmptyListing = "(no contacts)"

// ContactHeaders are the column titles of the contacts table.
var ContactHeaders = []string{"ID", "Name", "Phone", "Email", "Tags"}

// Table renders rows as " | " separated, left-aligned columns with a
// "-+-" rule under the header. Styled only affects the header cells.
type Table struct {
	Headers []string
	Rows    [][]string
	Styled  bool
}

// ColumnWidths calculates the display width of every column.
func (t *Table) ColumnWidths() []int {
	widths := make([]int, len(t.Headers))

	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}

	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	return widths
}

// Render outputs the table to a string without a trailing newline.
func (t *Table) Render() string {
	if len(t.Headers) == 0 {
		return ""
	}

	widths := t.ColumnWidths()
	lines := make([]string, 0, len(t.Rows)+2)

	header := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		cell := padRight(h, widths[i])
		if t.Styled {
			cell = StyleHeader.Render(cell)
		}
		header[i] = cell
	}
	lines = append(lines, strings.Join(header, " | "))

	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("-", w)
	}
	lines = append(lines, strings.Join(rule, "-+-"))

	for _, row := range t.Rows {
		cells := make([]string, len(t.Headers))
		for i := range t.Headers {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			cells[i] = padRight(val, widths[i])
		}
		lines = append(lines, strings.Join(cells, " | "))
	}

	return strings.Join(lines, "\n")
}

// RenderContacts renders the contacts listing followed by a blank line and
// the record count, or EmptyListing when there is nothing to show.
func RenderContacts(list []models.Contact, styled bool) string {
	if len(list) == 0 {
		return EmptyListing
	}

	t := &Table{Headers: ContactHeaders, Styled: styled}
	for _, c := range list {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(c.ID),
			c.Name,
			c.Phone,
			c.Email,
			c.JoinedTags(),
		})
	}

	total := "Total: " + strconv.Itoa(len(list))
	if styled {
		total = StyleSubtle.Render(total)
	}
	return t.Render() + "\n\n" + total
}

// padRight pads a string to the specified display width.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
