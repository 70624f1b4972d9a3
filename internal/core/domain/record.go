package domain

import "time"

// Record is a validated source record produced at the fetch boundary.
type Record interface {
	// DataType reports which family the record belongs to.
	DataType() DataType

	// ExternalID is the Rootly identifier, unique within the data type.
	ExternalID() string

	// LastModified is the update time, falling back to creation time.
	// Zero means unknown.
	LastModified() time.Time
}

// RecordMeta carries the fields shared by every record.
type RecordMeta struct {
	ID        string
	URL       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExternalID returns the Rootly identifier.
func (m RecordMeta) ExternalID() string {
	return m.ID
}

// LastModified returns UpdatedAt, or CreatedAt when UpdatedAt is unknown.
func (m RecordMeta) LastModified() time.Time {
	if !m.UpdatedAt.IsZero() {
		return m.UpdatedAt
	}
	return m.CreatedAt
}

// Person is a user reference.
type Person struct {
	Name  string
	Email string
}

// Display returns the most readable identifier for the person.
func (p Person) Display() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}

// IsZero reports whether the person is unset.
func (p Person) IsZero() bool {
	return p.Name == "" && p.Email == ""
}

// Severity describes an incident severity level.
type Severity struct {
	ID          string
	Name        string
	Slug        string
	Description string
	Level       string
}

// Label returns the best display value for the severity.
func (s Severity) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Slug
}

// TimelineEvent is one entry of an incident timeline.
type TimelineEvent struct {
	ID          string
	OccurredAt  time.Time
	Description string
	Visibility  string
}

// ActionItem is a follow-up task attached to an incident.
type ActionItem struct {
	ID          string
	Description string
	Status      string
	Owner       string
	Priority    string
	DueDate     string
}

// Incident is a Rootly incident with optional nested detail.
type Incident struct {
	RecordMeta
	SequentialID  string
	Title         string
	Summary       string
	Status        string
	Kind          string
	Severity      *Severity
	Author        Person
	StartedAt     time.Time
	ResolvedAt    time.Time
	Events        []TimelineEvent
	ActionItems   []ActionItem
	ActionItemIDs []string

	// Degraded names nested sub-resources that could not be fetched.
	Degraded []string
}

// DataType implements Record.
func (*Incident) DataType() DataType { return DataTypeIncidents }

// Alert is a Rootly alert.
type Alert struct {
	RecordMeta
	Summary     string
	Description string
	Status      string
	Priority    string
	Source      string
	Details     string
	Labels      []string
}

// DataType implements Record.
func (*Alert) DataType() DataType { return DataTypeAlerts }

// Schedule is an on-call schedule.
type Schedule struct {
	RecordMeta
	Name         string
	Description  string
	ScheduleType string
	Status       string
	Timezone     string
	Team         string
	Owner        Person
	RotationInfo string
}

// DataType implements Record.
func (*Schedule) DataType() DataType { return DataTypeSchedules }

// EscalationPolicy is an escalation policy.
type EscalationPolicy struct {
	RecordMeta
	Name            string
	Description     string
	Status          string
	Team            string
	RepeatCount     int
	TimeoutMinutes  int
	EscalationRules string
	StepIDs         []string
}

// DataType implements Record.
func (*EscalationPolicy) DataType() DataType { return DataTypeEscalationPolicies }

// Retrospective is a post-incident review.
type Retrospective struct {
	RecordMeta
	Title               string
	Status              string
	Summary             string
	WhatWentWell        string
	WhatCouldBeImproved string
	ActionItems         string
	LessonsLearned      string
	Notes               string
	IncidentID          string
	Author              Person
}

// DataType implements Record.
func (*Retrospective) DataType() DataType { return DataTypeRetrospectives }

// Compile-time interface checks.
var (
	_ Record = (*Incident)(nil)
	_ Record = (*Alert)(nil)
	_ Record = (*Schedule)(nil)
	_ Record = (*EscalationPolicy)(nil)
	_ Record = (*Retrospective)(nil)
)
