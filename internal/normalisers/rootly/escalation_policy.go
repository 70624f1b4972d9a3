package rootly

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driven"
)

// Ensure EscalationPolicyMapper implements the interface.
var _ driven.DocumentMapper = (*EscalationPolicyMapper)(nil)

// EscalationPolicyMapper maps escalation policies.
type EscalationPolicyMapper struct {
	base
}

// DataType returns escalation policies.
func (m *EscalationPolicyMapper) DataType() domain.DataType {
	return domain.DataTypeEscalationPolicies
}

// Map converts an escalation policy into a document.
func (m *EscalationPolicyMapper) Map(rec domain.Record) (*domain.Document, error) {
	p, ok := rec.(*domain.EscalationPolicy)
	if !ok || p == nil {
		return nil, wrongType(domain.DataTypeEscalationPolicies, rec)
	}
	if err := requireID(domain.DataTypeEscalationPolicies, p.RecordMeta); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, missingTitle(domain.DataTypeEscalationPolicies, p.ID)
	}

	doc := m.newDocument(domain.DataTypeEscalationPolicies, p.RecordMeta)
	doc.Title = "[ESCALATION] " + name
	doc.Summary = strings.TrimSpace(p.Description)
	doc.Status = NormaliseToken(p.Status)
	doc.Owner = strings.TrimSpace(p.Team)
	doc.Properties = properties(doc)

	var tags tagSet
	tags.addToken("status", p.Status)
	tags.add("team", p.Team)
	if len(p.StepIDs) > 0 {
		tags.add("escalation_steps", strconv.Itoa(len(p.StepIDs)))
	}
	doc.Tags = tags.list()

	var b body
	b.field("Name", name)
	b.field("Description", p.Description)
	b.field("Status", p.Status)
	b.field("Team", p.Team)
	if p.RepeatCount > 0 {
		b.field("Repeat Count", strconv.Itoa(p.RepeatCount))
	}
	if p.TimeoutMinutes > 0 {
		b.field("Escalation Timeout", fmt.Sprintf("%d minutes", p.TimeoutMinutes))
	}
	if len(p.StepIDs) > 0 {
		b.field("Escalation Steps", strconv.Itoa(len(p.StepIDs)))
	}
	b.section("Escalation Rules", p.EscalationRules)
	doc.Body = b.String()

	return doc, nil
}
