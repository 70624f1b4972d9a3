package rootly

import (
	"strings"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driven"
)

// Ensure ScheduleMapper implements the interface.
var _ driven.DocumentMapper = (*ScheduleMapper)(nil)

// ScheduleMapper maps on-call schedules.
type ScheduleMapper struct {
	base
}

// DataType returns schedules.
func (m *ScheduleMapper) DataType() domain.DataType {
	return domain.DataTypeSchedules
}

// Map converts a schedule into a document.
func (m *ScheduleMapper) Map(rec domain.Record) (*domain.Document, error) {
	s, ok := rec.(*domain.Schedule)
	if !ok || s == nil {
		return nil, wrongType(domain.DataTypeSchedules, rec)
	}
	if err := requireID(domain.DataTypeSchedules, s.RecordMeta); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return nil, missingTitle(domain.DataTypeSchedules, s.ID)
	}

	doc := m.newDocument(domain.DataTypeSchedules, s.RecordMeta)
	doc.Title = "[SCHEDULE] " + name
	doc.Summary = strings.TrimSpace(s.Description)
	doc.Status = NormaliseToken(s.Status)
	doc.Owner = s.Owner.Display()
	doc.Author = s.Owner
	doc.Properties = properties(doc)

	var tags tagSet
	tags.addToken("schedule_type", s.ScheduleType)
	tags.addToken("status", s.Status)
	tags.add("team", s.Team)
	tags.add("owner", s.Owner.Display())
	doc.Tags = tags.list()

	var b body
	b.field("Name", name)
	b.field("Description", s.Description)
	b.field("Type", s.ScheduleType)
	b.field("Status", s.Status)
	b.field("Timezone", s.Timezone)
	b.field("Team", s.Team)
	b.field("Owner", s.Owner.Display())
	b.section("Rotation Info", s.RotationInfo)
	doc.Body = b.String()

	return doc, nil
}
