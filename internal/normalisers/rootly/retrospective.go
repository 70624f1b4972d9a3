package rootly

import (
	"strings"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driven"
)

// Ensure RetrospectiveMapper implements the interface.
var _ driven.DocumentMapper = (*RetrospectiveMapper)(nil)

// RetrospectiveMapper maps retrospectives and links them to their incident.
type RetrospectiveMapper struct {
	base
}

// DataType returns retrospectives.
func (m *RetrospectiveMapper) DataType() domain.DataType {
	return domain.DataTypeRetrospectives
}

// Map converts a retrospective into a document.
func (m *RetrospectiveMapper) Map(rec domain.Record) (*domain.Document, error) {
	r, ok := rec.(*domain.Retrospective)
	if !ok || r == nil {
		return nil, wrongType(domain.DataTypeRetrospectives, rec)
	}
	if err := requireID(domain.DataTypeRetrospectives, r.RecordMeta); err != nil {
		return nil, err
	}

	incidentID := strings.TrimSpace(r.IncidentID)
	title := strings.TrimSpace(r.Title)
	if title == "" && incidentID != "" {
		title = "Incident " + incidentID
	}
	if title == "" {
		return nil, missingTitle(domain.DataTypeRetrospectives, r.ID)
	}

	doc := m.newDocument(domain.DataTypeRetrospectives, r.RecordMeta)
	doc.Title = "Retrospective: " + title
	doc.Summary = strings.TrimSpace(r.Summary)
	doc.Status = NormaliseToken(r.Status)
	doc.Author = r.Author
	doc.Owner = r.Author.Display()
	if incidentID != "" {
		doc.LinkedDocumentID = domain.DocumentID(domain.DataTypeIncidents, incidentID)
	}
	doc.Properties = properties(doc)

	var tags tagSet
	tags.addToken("status", r.Status)
	tags.add("type", "retrospective")
	tags.add("incident", incidentID)
	doc.Tags = tags.list()

	var b body
	b.field("Title", title)
	b.field("Status", r.Status)
	b.field("Incident", incidentID)
	b.field("Author", r.Author.Display())
	b.section("Summary", r.Summary)
	b.bannerSection("What Went Well", r.WhatWentWell)
	b.bannerSection("What Could Be Improved", r.WhatCouldBeImproved)
	b.bannerSection("Action Items", r.ActionItems)
	b.bannerSection("Lessons Learned", r.LessonsLearned)
	b.bannerSection("Additional Notes", r.Notes)
	doc.Body = b.String()

	return doc, nil
}
