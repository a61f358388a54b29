package note

import (
	"strings"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
)

// Compose assembles the flat note text from per-style section fields.
// Sections appear in the style's defined order, each under its uppercase
// header, separated by a blank line. Empty sections are skipped so that
// partially filled drafts still render cleanly.
func Compose(style model.NoteStyle, fields map[string]string) string {
	var parts []string
	for _, section := range style.Sections() {
		text := strings.TrimSpace(fields[section.Field])
		if text == "" {
			continue
		}
		parts = append(parts, section.Header+"\n"+text)
	}
	return strings.Join(parts, "\n\n")
}

// MissingSections returns the headers of required sections that are empty.
// Every section of a style must be filled before the note can be signed.
func MissingSections(style model.NoteStyle, fields map[string]string) []string {
	var missing []string
	for _, section := range style.Sections() {
		if strings.TrimSpace(fields[section.Field]) == "" {
			missing = append(missing, section.Header)
		}
	}
	return missing
}
