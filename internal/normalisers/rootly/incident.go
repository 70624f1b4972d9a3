package rootly

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driven"
)

// maxTimelineEvents caps the timeline written into an incident body.
const maxTimelineEvents = 10

// timelineLayout formats event timestamps to the minute.
const timelineLayout = "2006-01-02T15:04"

// Ensure IncidentMapper implements the interface.
var _ driven.DocumentMapper = (*IncidentMapper)(nil)

// IncidentMapper maps incidents.
type IncidentMapper struct {
	base
}

// DataType returns incidents.
func (m *IncidentMapper) DataType() domain.DataType {
	return domain.DataTypeIncidents
}

// Map converts an incident into a document.
func (m *IncidentMapper) Map(rec domain.Record) (*domain.Document, error) {
	inc, ok := rec.(*domain.Incident)
	if !ok || inc == nil {
		return nil, wrongType(domain.DataTypeIncidents, rec)
	}
	if err := requireID(domain.DataTypeIncidents, inc.RecordMeta); err != nil {
		return nil, err
	}

	title := firstNonBlank(inc.Title, inc.Summary)
	if title == "" {
		return nil, missingTitle(domain.DataTypeIncidents, inc.ID)
	}

	doc := m.newDocument(domain.DataTypeIncidents, inc.RecordMeta)
	doc.Title = fmt.Sprintf("[INC-%s] %s", firstNonBlank(inc.SequentialID, inc.ID), title)
	doc.Summary = strings.TrimSpace(inc.Summary)
	doc.Status = NormaliseToken(inc.Status)
	doc.Author = inc.Author
	doc.Owner = inc.Author.Display()
	if inc.Severity != nil {
		doc.Severity = NormaliseToken(inc.Severity.Label())
	}

	var tags tagSet
	tags.addToken("status", inc.Status)
	if inc.Severity != nil {
		tags.addToken("severity", inc.Severity.Label())
	}
	tags.addToken("kind", inc.Kind)
	doc.Tags = tags.list()
	doc.Properties = properties(doc)
	doc.Body = incidentBody(inc, title)

	return doc, nil
}

func incidentBody(inc *domain.Incident, title string) string {
	var b body
	b.field("Title", title)
	b.field("Status", inc.Status)
	b.field("Kind", inc.Kind)
	if !inc.StartedAt.IsZero() {
		b.field("Started", inc.StartedAt.UTC().Format(timelineLayout))
	}
	if !inc.ResolvedAt.IsZero() {
		b.field("Resolved", inc.ResolvedAt.UTC().Format(timelineLayout))
	}
	b.field("Author", inc.Author.Display())
	b.section("Summary", inc.Summary)

	if len(inc.Events) > 0 {
		b.banner("Incident Events Timeline")
		for _, ev := range inc.Events[:min(len(inc.Events), maxTimelineEvents)] {
			b.line(timelineLine(ev))
		}
		if extra := len(inc.Events) - maxTimelineEvents; extra > 0 {
			b.line(fmt.Sprintf("... and %d more events", extra))
		}
	}

	switch {
	case len(inc.ActionItems) > 0:
		b.banner("Action Items")
		for _, item := range inc.ActionItems {
			writeActionItem(&b, item)
		}
	case len(inc.ActionItemIDs) > 0:
		b.line("")
		b.line("Action Items:")
		for _, id := range inc.ActionItemIDs {
			b.line("- " + id)
		}
	}

	if sev := inc.Severity; sev != nil && sev.Label() != "" {
		b.line("")
		b.line("Severity Details:")
		level := sev.Label()
		if sev.Level != "" && sev.Level != level {
			level = fmt.Sprintf("%s (%s)", level, sev.Level)
		}
		b.field("Level", level)
		if sev.Description != sev.Label() {
			b.field("Description", sev.Description)
		}
	}

	return b.String()
}

func timelineLine(ev domain.TimelineEvent) string {
	text := strings.TrimSpace(ev.Description)
	if strings.EqualFold(ev.Visibility, "internal") {
		text += " (internal)"
	}
	if ev.OccurredAt.IsZero() {
		return text
	}
	return "[" + ev.OccurredAt.UTC().Format(timelineLayout) + "] " + text
}

func writeActionItem(b *body, item domain.ActionItem) {
	b.line("• " + firstNonBlank(item.Description, "Action item "+item.ID))

	var details []string
	if item.Status != "" {
		details = append(details, "Status: "+item.Status)
	}
	if item.Owner != "" {
		details = append(details, "Assignee: "+item.Owner)
	}
	if item.Priority != "" {
		details = append(details, "Priority: "+item.Priority)
	}
	if len(details) > 0 {
		b.line("  " + strings.Join(details, " | "))
	}
	if item.DueDate != "" {
		b.line("  Due: " + item.DueDate)
	}
}

// firstNonBlank returns the first value that is not blank, trimmed.
func firstNonBlank(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
