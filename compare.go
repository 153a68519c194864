package apidoc

import (
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/samber/lo"
)

var startMarker = regexp.MustCompile(`<!-- START_([0-9a-f]+) -->`)

// routeBlocks indexes the marked route blocks of a Markdown document by id.
// The first block of an id wins.
func routeBlocks(md string) map[string]string {
	blocks := make(map[string]string)
	for _, loc := range startMarker.FindAllStringSubmatchIndex(md, -1) {
		id := md[loc[2]:loc[3]]
		end := "<!-- END_" + id + " -->"
		i := strings.Index(md[loc[0]:], end)
		if i < 0 {
			continue
		}
		if _, seen := blocks[id]; !seen {
			blocks[id] = md[loc[0] : loc[0]+i+len(end)]
		}
	}
	return blocks
}

// Edit is a route block changed by hand since it was last generated.
type Edit struct {
	ID   string
	Diff string
}

// PreserveEdits finds route blocks of the existing index that differ from
// the compare copy written by the previous run. Unless force is set, those
// blocks replace their freshly rendered counterparts in rendered. The
// returned edits carry a unified diff from generated to hand-edited text.
func PreserveEdits(index, compare, rendered string, force bool) (string, []Edit) {
	if index == "" || compare == "" {
		return rendered, nil
	}

	current := routeBlocks(index)
	generated := routeBlocks(compare)
	fresh := routeBlocks(rendered)

	var edits []Edit
	for _, loc := range startMarker.FindAllStringSubmatchIndex(index, -1) {
		id := index[loc[2]:loc[3]]
		edited, ok := current[id]
		if !ok {
			continue
		}
		orig, ok := generated[id]
		if !ok || orig == edited {
			continue
		}
		if lo.ContainsBy(edits, func(e Edit) bool { return e.ID == id }) {
			continue
		}

		edits = append(edits, Edit{ID: id, Diff: unifiedDiff(id, orig, edited)})
		if force {
			continue
		}
		if block, ok := fresh[id]; ok {
			rendered = strings.Replace(rendered, block, edited, 1)
		}
	}
	return rendered, edits
}

func unifiedDiff(id, a, b string) string {
	s, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: "generated/" + id,
		ToFile:   "edited/" + id,
		Context:  2,
	})
	if err != nil {
		return ""
	}
	return s
}
