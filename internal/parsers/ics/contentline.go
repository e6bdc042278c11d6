package ics

import "strings"

// contentLine is one logical calendar line after unfolding:
// NAME;PARAM=VAL;PARAM=VAL:VALUE
type contentLine struct {
	name   string
	params map[string]string
	value  string
}

// unfold splits text into logical lines. A physical line starting with a
// single space or tab continues the previous logical line; the indicator
// character is stripped and the fragments are concatenated with no
// inserted whitespace.
func unfold(text string) []string {
	physical := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var logical []string
	for _, line := range physical {
		if line == "" {
			continue
		}
		if (line[0] == ' ' || line[0] == '\t') && len(logical) > 0 {
			logical[len(logical)-1] += line[1:]
			continue
		}
		logical = append(logical, line)
	}
	return logical
}

// parseContentLine splits a logical line at the first unescaped colon
// into name, parameters and value. Returns false for lines with no
// colon at all.
func parseContentLine(line string) (contentLine, bool) {
	sep := -1
	escaped := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c == ':' {
			sep = i
			break
		}
	}
	if sep < 0 {
		return contentLine{}, false
	}

	head := line[:sep]
	cl := contentLine{value: line[sep+1:]}

	parts := strings.Split(head, ";")
	cl.name = strings.ToUpper(strings.TrimSpace(parts[0]))
	for _, p := range parts[1:] {
		key, val, found := strings.Cut(p, "=")
		if !found {
			continue
		}
		if cl.params == nil {
			cl.params = make(map[string]string)
		}
		cl.params[strings.ToUpper(strings.TrimSpace(key))] = strings.TrimSpace(val)
	}
	return cl, cl.name != ""
}

// unescapeText reverses the calendar text escapes: \n (or \N) becomes a
// newline, \, \; and \\ become the literal character.
func unescapeText(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n', 'N':
			b.WriteByte('\n')
		case ',', ';', '\\':
			b.WriteByte(s[i])
		default:
			// Unknown escape: keep both characters.
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
