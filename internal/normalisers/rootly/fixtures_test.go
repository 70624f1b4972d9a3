package rootly

import (
	"time"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
)

const testWebBase = "https://rootly.com/account"

var (
	created = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	updated = time.Date(2024, 1, 15, 12, 30, 0, 0, time.UTC)
)

func fixtureIncident() *domain.Incident {
	return &domain.Incident{
		RecordMeta: domain.RecordMeta{
			ID:        "42",
			URL:       "https://rootly.com/account/incidents/42",
			CreatedAt: created,
			UpdatedAt: updated,
		},
		SequentialID: "7",
		Title:        "Database outage",
		Summary:      "Primary database failed over to replica.",
		Status:       "Resolved",
		Kind:         "normal",
		Severity: &domain.Severity{
			ID:          "sev1",
			Name:        "SEV1",
			Description: "Critical customer impact",
			Level:       "critical",
		},
		Author:     domain.Person{Name: "Ada Lovelace", Email: "ada@example.com"},
		StartedAt:  created,
		ResolvedAt: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
		Events: []domain.TimelineEvent{
			{ID: "e1", OccurredAt: time.Date(2024, 1, 15, 10, 5, 0, 0, time.UTC), Description: "Paged on-call"},
			{ID: "e2", OccurredAt: time.Date(2024, 1, 15, 10, 20, 0, 0, time.UTC), Description: "Failover started", Visibility: "internal"},
			{ID: "e3", Description: "Postmortem scheduled"},
		},
		ActionItems: []domain.ActionItem{
			{ID: "ai1", Description: "Add replication lag alert", Status: "open", Owner: "Grace Hopper", Priority: "high", DueDate: "2024-02-01"},
			{ID: "ai2", Description: "Document failover runbook"},
		},
	}
}

func fixtureAlert() *domain.Alert {
	return &domain.Alert{
		RecordMeta:  domain.RecordMeta{ID: "a1", CreatedAt: created},
		Description: "Replication lag above threshold on db-primary for more than five minutes",
		Status:      "Triggered",
		Priority:    "P1",
		Source:      "Datadog",
		Details:     `{"host":"db-primary","lag_seconds":320}`,
		Labels:      []string{"env:prod", "service:db"},
	}
}

func fixtureSchedule() *domain.Schedule {
	return &domain.Schedule{
		RecordMeta:   domain.RecordMeta{ID: "s1", CreatedAt: created, UpdatedAt: updated},
		Name:         "Primary On-Call",
		Description:  "Database team primary rotation",
		ScheduleType: "Rotation",
		Status:       "Active",
		Timezone:     "Europe/London",
		Team:         "Database",
		Owner:        domain.Person{Name: "Grace Hopper"},
		RotationInfo: "Weekly handoff on Monday 09:00",
	}
}

func fixtureEscalationPolicy() *domain.EscalationPolicy {
	return &domain.EscalationPolicy{
		RecordMeta:      domain.RecordMeta{ID: "p1", CreatedAt: created},
		Name:            "Database Escalation",
		Description:     "Escalate unacknowledged database pages",
		Status:          "Enabled",
		Team:            "Database",
		RepeatCount:     2,
		TimeoutMinutes:  15,
		EscalationRules: `[{"level":1,"target":"primary"},{"level":2,"target":"secondary"}]`,
		StepIDs:         []string{"step1", "step2"},
	}
}

func fixtureRetrospective() *domain.Retrospective {
	return &domain.Retrospective{
		RecordMeta:          domain.RecordMeta{ID: "r1", CreatedAt: created, UpdatedAt: updated},
		Status:              "Published",
		Summary:             "Failover worked but alerting was late.",
		WhatWentWell:        "Automatic failover completed in 90 seconds.",
		WhatCouldBeImproved: "Replication lag was not alerted on.",
		ActionItems:         "Add replication lag alert.",
		Notes:               "Follow-up review in two weeks.",
		IncidentID:          "42",
		Author:              domain.Person{Name: "Ada Lovelace", Email: "ada@example.com"},
	}
}
