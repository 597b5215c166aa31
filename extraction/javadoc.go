package extraction

import (
	"strings"
)

// docComment is a documentation comment split into its description and
// the block tags the extractor uses.
type docComment struct {
	description string
	params      map[string]string
	returns     string
}

// parseDoc accepts a comment with or without its /** */ delimiters and
// leading asterisks.
func parseDoc(raw string) docComment {
	doc := docComment{params: make(map[string]string)}
	if strings.TrimSpace(raw) == "" {
		return doc
	}
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "/**")
	raw = strings.TrimSuffix(raw, "*/")

	var desc []string
	var tag, arg string
	var body []string
	finish := func() {
		text := strings.Join(body, " ")
		switch tag {
		case "@param":
			if arg != "" {
				doc.params[arg] = text
			}
		case "@return":
			doc.returns = text
		}
		tag, arg, body = "", "", nil
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
		if strings.HasPrefix(line, "@") {
			finish()
			fields := strings.Fields(line)
			tag = fields[0]
			rest := fields[1:]
			if tag == "@param" && len(rest) > 0 {
				arg, rest = rest[0], rest[1:]
			}
			body = append(body, strings.Join(rest, " "))
			continue
		}
		if line == "" {
			continue
		}
		if tag != "" {
			body = append(body, line)
		} else {
			desc = append(desc, line)
		}
	}
	finish()
	doc.description = strings.Join(desc, " ")
	for k, v := range doc.params {
		doc.params[k] = strings.TrimSpace(v)
	}
	doc.returns = strings.TrimSpace(doc.returns)
	return doc
}
