package backend

import (
	"regexp"
	"strings"
)

var (
	doctypeDecl = regexp.MustCompile(`(?s)<!DOCTYPE[^\[>]*(\[.*?\])?\s*>`)
	entityDecl  = regexp.MustCompile(`<!ENTITY\s+([A-Za-z_][\w.-]*)\s+(?:"([^"]*)"|'([^']*)')\s*>`)
	entityRef   = regexp.MustCompile(`&([A-Za-z_][\w.-]*);`)
)

// expandEntities replaces references to general entities declared in the
// document's internal DTD subset with their values and drops the DOCTYPE.
// Both XML decoders in the library path reject unknown entities, while
// rsvg-convert resolves them. Documents without a DOCTYPE are returned as is.
func expandEntities(svg string) string {
	loc := doctypeDecl.FindStringSubmatchIndex(svg)
	if loc == nil {
		return svg
	}
	body := svg[:loc[0]] + svg[loc[1]:]
	if loc[2] < 0 {
		return body
	}

	values := make(map[string]string)
	for _, m := range entityDecl.FindAllStringSubmatch(svg[loc[2]:loc[3]], -1) {
		values[m[1]] = m[2] + m[3]
	}
	if len(values) == 0 {
		return body
	}

	// Entity values may reference earlier entities; a few passes resolve
	// nesting without looping on self-reference.
	for range 4 {
		expanded := entityRef.ReplaceAllStringFunc(body, func(ref string) string {
			if v, ok := values[strings.TrimSuffix(strings.TrimPrefix(ref, "&"), ";")]; ok {
				return v
			}
			return ref
		})
		if expanded == body {
			break
		}
		body = expanded
	}
	return body
}
