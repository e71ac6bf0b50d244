// Package sections splits backend analysis text into titled segments.
//
// The backend writes its reports as markdown-ish bullet lists where each
// section starts with a bolded title:
//
//	- **Verdict**: Likely true
//	Some detail
//	- **Sources**: see below
//
// Parse turns that into ordered {Title, Body} pairs for display.
package sections

import (
	"regexp"
	"strings"
)

var titleRegex = regexp.MustCompile(`^-?\s*\*\*([^*]+)\*\*:?\s*(.*)`)

type Section struct {
	// Title is empty only for the unlabeled fallback section.
	Title string
	Body  string
}

// Sections keeps first-seen order; a repeated title replaces the earlier body
// in place.
type Sections []Section

// Parse scans text line by line. A bold-title line opens a section whose body
// starts with the rest of that line; other non-blank lines are appended to
// the open section. Text without any title line comes back as one unlabeled
// section holding the whole input.
func Parse(text string) Sections {
	var (
		result  Sections
		index   = make(map[string]int)
		title   string
		body    []string
		hasOpen bool
	)

	flush := func() {
		if !hasOpen {
			return
		}
		content := strings.TrimSpace(strings.Join(body, "\n"))
		if i, ok := index[title]; ok {
			result[i].Body = content
			return
		}
		index[title] = len(result)
		result = append(result, Section{Title: title, Body: content})
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if m := titleRegex.FindStringSubmatch(line); m != nil {
			flush()
			// "**Verdict:**" and "**Verdict**:" name the same section.
			title = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(m[1]), ":"))
			body = []string{m[2]}
			hasOpen = true
			continue
		}
		if hasOpen && strings.TrimSpace(line) != "" {
			body = append(body, line)
		}
	}
	flush()

	if len(result) == 0 {
		return Sections{{Body: text}}
	}
	return result
}

// Fallback reports whether no title line was found.
func (s Sections) Fallback() bool {
	return len(s) == 1 && s[0].Title == ""
}

// Lookup finds a section by title, ignoring case and surrounding space.
func (s Sections) Lookup(title string) (string, bool) {
	for _, sec := range s {
		if strings.EqualFold(strings.TrimSpace(sec.Title), strings.TrimSpace(title)) {
			return sec.Body, true
		}
	}
	return "", false
}

// Map returns the sections keyed by title.
func (s Sections) Map() map[string]string {
	m := make(map[string]string, len(s))
	for _, sec := range s {
		m[sec.Title] = sec.Body
	}
	return m
}

// Lines splits a newline-delimited list (recommendations, alternative
// views), trimming entries and dropping blanks.
func Lines(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
