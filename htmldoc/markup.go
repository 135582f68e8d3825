package htmldoc

import "strings"

// voidTags are elements that never take a closing tag.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// LimitDepth truncates inner markup beyond the given element depth. Depth 1
// keeps the direct children's tags and the element's own text; nested
// content is dropped. The scan is aware of comments, quoted attribute
// values and void elements, so unbalanced-looking markup inside attributes
// does not confuse the depth tracking.
func LimitDepth(markup string, depth int64) string {
	if depth <= 0 {
		return ""
	}
	var sb strings.Builder
	var level int64 = 0
	i := 0
	for i < len(markup) {
		if markup[i] != '<' {
			end := strings.IndexByte(markup[i:], '<')
			if end < 0 {
				end = len(markup) - i
			}
			if level < depth {
				sb.WriteString(markup[i : i+end])
			}
			i += end
			continue
		}

		if strings.HasPrefix(markup[i:], "<!--") {
			end := strings.Index(markup[i:], "-->")
			if end < 0 {
				end = len(markup) - i
			} else {
				end += len("-->")
			}
			if level < depth {
				sb.WriteString(markup[i : i+end])
			}
			i += end
			continue
		}

		end := tagEnd(markup, i)
		if end < 0 {
			// Unterminated tag: keep the remainder verbatim if visible.
			if level < depth {
				sb.WriteString(markup[i:])
			}
			break
		}
		tag := markup[i : end+1]
		name, closing, selfClosed := tagName(tag)

		if closing {
			if level > 0 {
				level--
			}
			if level < depth {
				sb.WriteString(tag)
			}
		} else {
			if level < depth {
				sb.WriteString(tag)
			}
			if !selfClosed && !voidTags[name] {
				level++
			}
		}
		i = end + 1
	}
	return sb.String()
}

// tagEnd returns the index of the '>' closing the tag that starts at i,
// skipping over quoted attribute values. Returns -1 if the tag never ends.
func tagEnd(markup string, i int) int {
	var quote byte
	for j := i + 1; j < len(markup); j++ {
		c := markup[j]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '>':
			return j
		}
	}
	return -1
}

// tagName extracts the lowercase element name from a raw tag and reports
// whether it is a closing or self-closing tag.
func tagName(tag string) (name string, closing, selfClosed bool) {
	body := strings.TrimSuffix(strings.TrimPrefix(tag, "<"), ">")
	selfClosed = strings.HasSuffix(body, "/")
	body = strings.TrimSuffix(body, "/")
	body = strings.TrimSpace(body)
	if strings.HasPrefix(body, "/") {
		closing = true
		body = strings.TrimSpace(strings.TrimPrefix(body, "/"))
	}
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			body = body[:i]
			break
		}
	}
	return strings.ToLower(body), closing, selfClosed
}
