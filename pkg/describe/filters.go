package describe

import (
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
)

var (
	filtersOnce  sync.Once
	titlePolicy  *bluemonday.Policy
	mdCellEscape = strings.NewReplacer("|", `\|`, "\n", " ", "\r", "")
)

func registerFilters() {
	filtersOnce.Do(func() {
		titlePolicy = bluemonday.StrictPolicy()
		titlePolicy.AllowElements("em", "strong", "b", "i", "code", "sup", "sub")

		if !pongo2.FilterExists("sanitize") {
			_ = pongo2.RegisterFilter("sanitize", filterSanitize)
		}
		if !pongo2.FilterExists("mdcell") {
			_ = pongo2.RegisterFilter("mdcell", filterMarkdownCell)
		}
	})
}

// filterSanitize keeps simple inline markup in titles and strips the rest.
func filterSanitize(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsSafeValue(sanitizeTitle(in.String())), nil
}

func filterMarkdownCell(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(mdCellEscape.Replace(in.String())), nil
}

func sanitizeTitle(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(titlePolicy.Sanitize(trimmed))
}
