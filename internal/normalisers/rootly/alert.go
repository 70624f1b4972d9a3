package rootly

import (
	"strings"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driven"
)

// alertTitleDescriptionLength bounds a title derived from the description.
const alertTitleDescriptionLength = 50

// Ensure AlertMapper implements the interface.
var _ driven.DocumentMapper = (*AlertMapper)(nil)

// AlertMapper maps alerts.
type AlertMapper struct {
	base
}

// DataType returns alerts.
func (m *AlertMapper) DataType() domain.DataType {
	return domain.DataTypeAlerts
}

// Map converts an alert into a document.
func (m *AlertMapper) Map(rec domain.Record) (*domain.Document, error) {
	alert, ok := rec.(*domain.Alert)
	if !ok || alert == nil {
		return nil, wrongType(domain.DataTypeAlerts, rec)
	}
	if err := requireID(domain.DataTypeAlerts, alert.RecordMeta); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(alert.Summary)
	if title == "" && strings.TrimSpace(alert.Description) != "" {
		title = truncate(strings.TrimSpace(alert.Description), alertTitleDescriptionLength)
	}
	if title == "" {
		title = "Alert " + alert.ID
	}

	doc := m.newDocument(domain.DataTypeAlerts, alert.RecordMeta)
	doc.Title = "[ALERT] " + title
	doc.Summary = strings.TrimSpace(alert.Description)
	doc.Status = NormaliseToken(alert.Status)
	doc.Severity = NormaliseToken(alert.Priority)
	doc.Properties = properties(doc)

	var tags tagSet
	tags.addToken("alert_status", alert.Status)
	tags.addToken("priority", alert.Priority)
	tags.addToken("source", alert.Source)
	for _, label := range alert.Labels {
		tags.add("label", label)
	}
	doc.Tags = tags.list()

	var b body
	b.field("Title", title)
	b.field("Status", alert.Status)
	b.field("Priority", alert.Priority)
	b.field("Source", alert.Source)
	if len(alert.Labels) > 0 {
		b.field("Labels", strings.Join(alert.Labels, ", "))
	}
	b.section("Description", alert.Description)
	b.section("Details", alert.Details)
	doc.Body = b.String()

	return doc, nil
}
