package rootly

import "strings"

// body assembles the plain-text document body as labeled blocks.
type body struct {
	lines []string
}

// field writes "Label: value", skipping blank values.
func (b *body) field(label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	b.lines = append(b.lines, label+": "+strings.TrimSpace(value))
}

// section writes a labeled multi-line block preceded by a blank line.
func (b *body) section(label, content string) {
	if strings.TrimSpace(content) == "" {
		return
	}
	b.lines = append(b.lines, "", label+":", strings.TrimSpace(content))
}

// banner opens a "--- Heading ---" block.
func (b *body) banner(heading string) {
	b.lines = append(b.lines, "", "--- "+heading+" ---")
}

// bannerSection writes a banner followed by content, skipping blank content.
func (b *body) bannerSection(heading, content string) {
	if strings.TrimSpace(content) == "" {
		return
	}
	b.banner(heading)
	b.lines = append(b.lines, strings.TrimSpace(content))
}

func (b *body) line(s string) {
	b.lines = append(b.lines, s)
}

func (b *body) String() string {
	return strings.TrimSpace(strings.Join(b.lines, "\n"))
}
