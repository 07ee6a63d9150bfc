package overpass

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

// selectors for areas that are drawn as water polygons along a river.
var waterAreaSelectors = []string{
	`[natural=water][water=river]`,
	`[natural=water][water=canal]`,
	`[waterway=riverbank]`,
}

func bboxString(bound orb.Bound) string {
	return fmt.Sprintf("%f,%f,%f,%f", bound.Min[1], bound.Min[0], bound.Max[1], bound.Max[0])
}

func quoteValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func buildWaterAreaQuery(bbox string, name string, timeoutSeconds int) string {
	var nameFilter string
	if name != "" {
		nameFilter = `["name"="` + quoteValue(name) + `"]`
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[out:json]\n[timeout:%d]\n[bbox:%s];\n(\n", timeoutSeconds, bbox)
	for _, kind := range []string{"way", "rel"} {
		for _, sel := range waterAreaSelectors {
			sb.WriteString("    " + kind + sel + nameFilter + ";\n")
		}
	}
	sb.WriteString(");\nout body;\n>;\nout skel qt;\n")
	return sb.String()
}
