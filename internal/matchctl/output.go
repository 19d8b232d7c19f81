package matchctl

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/okian/matchboard/internal/domain/model"
	"github.com/okian/matchboard/internal/domain/types"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// render writes v as JSON or YAML, or calls tableFn for the table format.
func render(w io.Writer, format string, v any, tableFn func() string) error {
	switch format {
	case "", FormatTable:
		_, err := fmt.Fprintln(w, tableFn())
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(yamlView(v)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

// yamlView round-trips v through JSON so YAML keys and custom encodings
// match the API's JSON.
func yamlView(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func matchesTable(ms []types.Match) string {
	t := newTable("RANK", "SCORE", "KW", "ROLE", "AFF", "TRAIT", "SOURCE", "PROJECT")
	for _, m := range ms {
		t.Row(
			strconv.Itoa(m.Rank),
			strconv.Itoa(m.Score),
			strconv.Itoa(m.Keyword),
			strconv.Itoa(m.Role),
			strconv.Itoa(m.Affiliation),
			strconv.Itoa(m.Trait),
			string(m.TraitSource),
			m.Title,
		)
	}
	return t.Render()
}

func projectsTable(ps []model.Project) string {
	t := newTable("ID", "TITLE", "STAGE", "ADVANTAGES", "JOINERS", "FAV")
	for _, p := range ps {
		fav := ""
		if p.Favorite {
			fav = "*"
		}
		t.Row(
			p.ID,
			p.Title,
			p.Stage,
			strings.Join(p.Advantages, ", "),
			strconv.Itoa(len(p.Joiners)),
			fav,
		)
	}
	return t.Render()
}

func writePreview(w io.Writer, pv types.ImportPreview) {
	_, _ = fmt.Fprintf(w, "Projects: %d\n", pv.Projects)
	for _, t := range pv.ProjectTitles {
		_, _ = fmt.Fprintf(w, "  - %s\n", t)
	}
	if pv.HasProfile {
		_, _ = fmt.Fprintf(w, "Profile: %s (%d traits)\n", pv.ProfileName, pv.ProfileTraits)
	} else {
		_, _ = fmt.Fprintln(w, "Profile: none")
	}
	_, _ = fmt.Fprintf(w, "Courses: %d\n", pv.Courses)
	for _, t := range pv.CourseTitles {
		_, _ = fmt.Fprintf(w, "  - %s\n", t)
	}
}
