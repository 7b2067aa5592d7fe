// Free-form "section:key=value" additions to the generated config.

package config

import (
	"errors"
	"strings"
)

// Where a synthesized section may be inserted: immediately before the first of these suite section
// headers that appears in the template.  None present means append at the end.
var suiteSectionCandidates = []string{
	"intrate,intspeed,fprate,fpspeed=base:",
	"intrate,fprate=base:",
	"intspeed,fpspeed=base:",
	"intrate=base:",
	"intspeed=base:",
	"fprate=base:",
	"fpspeed=base:",
}

// insertExtraSetting adds key = value under the named section.  If the section header already
// exists verbatim the line goes right after it; otherwise a new section block is synthesized ahead
// of the suite sections so the setting applies before any suite-specific overrides.

func insertExtraSetting(text, entry string) (string, error) {
	section, rest, found := strings.Cut(entry, ":")
	if !found || section == "" {
		return "", errors.New("expected section:key=value")
	}
	key, value, found := strings.Cut(rest, "=")
	if !found || strings.TrimSpace(key) == "" {
		return "", errors.New("expected section:key=value")
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	header := strings.TrimSuffix(strings.TrimSpace(section), ":") + ":"
	settingLine := "   " + key + " = " + value + "\n"

	lines := strings.SplitAfter(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == header {
			var b strings.Builder
			for _, l := range lines[:i+1] {
				b.WriteString(l)
			}
			b.WriteString(settingLine)
			for _, l := range lines[i+1:] {
				b.WriteString(l)
			}
			return b.String(), nil
		}
	}

	block := header + "\n" + settingLine + "\n"
	for _, candidate := range suiteSectionCandidates {
		if idx := indexOfLine(text, candidate); idx >= 0 {
			return text[:idx] + block + text[idx:], nil
		}
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text + "\n" + block, nil
}

// indexOfLine returns the byte offset of the start of the first line whose content is exactly s,
// or -1.

func indexOfLine(text, s string) int {
	offset := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		if strings.TrimRight(line, "\n") == s {
			return offset
		}
		offset += len(line)
	}
	return -1
}
