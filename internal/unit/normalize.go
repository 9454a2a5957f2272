package unit

import "strings"

// Normalize collapses runs of blank lines into one, drops trailing blank lines
// and terminates the text with exactly one newline. Whitespace-only lines count as blank.
func Normalize(content string) string {
	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	prevBlank := false

	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		blank := strings.TrimSpace(line) == ""
		if blank && prevBlank {
			continue
		}
		kept = append(kept, line)
		prevBlank = blank
	}

	for len(kept) > 0 && strings.TrimSpace(kept[len(kept)-1]) == "" {
		kept = kept[:len(kept)-1]
	}

	return strings.Join(kept, "\n") + "\n"
}
