package rootly

import (
	"context"
	"fmt"
	"net/url"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/logger"
)

// Names of nested incident sub-resources, as listed in Incident.Degraded.
const (
	NestedEvents      = "events"
	NestedActionItems = "action_items"
	NestedSeverities  = "severities"
)

// NestedOptions controls per-incident secondary calls.
type NestedOptions struct {
	Enabled            bool
	IncludeEvents      bool
	IncludeActionItems bool
}

type incidentAttributes struct {
	SequentialID flexString   `json:"sequential_id"`
	Title        string       `json:"title"`
	Summary      string       `json:"summary"`
	Status       string       `json:"status"`
	Kind         string       `json:"kind"`
	URL          string       `json:"url"`
	CreatedAt    string       `json:"created_at"`
	UpdatedAt    string       `json:"updated_at"`
	StartedAt    string       `json:"started_at"`
	ResolvedAt   string       `json:"resolved_at"`
	Severity     *severityRef `json:"severity"`
	User         *userRef     `json:"user"`
}

// severityRef is the embedded severity object of an incident.
type severityRef struct {
	Data *struct {
		ID         flexString         `json:"id"`
		Attributes severityAttributes `json:"attributes"`
	} `json:"data"`
}

type severityAttributes struct {
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Severity    flexString `json:"severity"`
	Level       flexString `json:"level"`
}

func (a severityAttributes) severity(id string) *domain.Severity {
	return &domain.Severity{
		ID:          id,
		Name:        a.Name,
		Slug:        a.Slug,
		Description: a.Description,
		Level:       firstNonEmpty(string(a.Level), string(a.Severity)),
	}
}

func decodeIncident(r resource) (domain.Record, error) {
	var attrs incidentAttributes
	if err := decodeAttributes(domain.DataTypeIncidents, r, &attrs); err != nil {
		return nil, err
	}

	inc := &domain.Incident{
		RecordMeta:    meta(r, attrs.URL, attrs.CreatedAt, attrs.UpdatedAt),
		SequentialID:  string(attrs.SequentialID),
		Title:         attrs.Title,
		Summary:       attrs.Summary,
		Status:        attrs.Status,
		Kind:          attrs.Kind,
		Author:        attrs.User.person(),
		StartedAt:     parseTime(attrs.StartedAt),
		ResolvedAt:    parseTime(attrs.ResolvedAt),
		ActionItemIDs: r.relatedIDs("action_items"),
	}
	if attrs.Severity != nil && attrs.Severity.Data != nil {
		inc.Severity = attrs.Severity.Data.Attributes.severity(string(attrs.Severity.Data.ID))
	} else if id := r.relatedID("severity"); id != "" {
		inc.Severity = &domain.Severity{ID: id}
	}
	return inc, nil
}

// NewIncidentFetcher creates the incidents fetcher.
func NewIncidentFetcher(client *Client, nested NestedOptions) *Fetcher {
	f := &Fetcher{
		dataType:    domain.DataTypeIncidents,
		client:      client,
		decode:      decodeIncident,
		serverSince: true,
	}
	if nested.Enabled {
		f.newEnricher = func() func(context.Context, domain.Record) {
			e := &incidentEnricher{client: client, opts: nested}
			return e.enrich
		}
	}
	return f
}

// incidentEnricher adds nested detail to incidents. It lives for one Fetch.
type incidentEnricher struct {
	client *Client
	opts   NestedOptions

	severitiesLoaded bool
	severitiesErr    error
	severities       map[string]*domain.Severity
}

func (e *incidentEnricher) enrich(ctx context.Context, rec domain.Record) {
	inc, ok := rec.(*domain.Incident)
	if !ok {
		return
	}

	if e.opts.IncludeEvents {
		events, err := e.fetchEvents(ctx, inc.ID)
		if err != nil {
			logger.Warn("rootly: incident %s: could not fetch events: %v", inc.ID, err)
			inc.Degraded = append(inc.Degraded, NestedEvents)
		} else {
			inc.Events = events
		}
	}

	if e.opts.IncludeActionItems {
		items, err := e.fetchActionItems(ctx, inc.ID)
		if err != nil {
			logger.Warn("rootly: incident %s: could not fetch action items: %v", inc.ID, err)
			inc.Degraded = append(inc.Degraded, NestedActionItems)
		} else {
			inc.ActionItems = items
		}
	}

	if inc.Severity != nil && inc.Severity.ID != "" {
		e.loadSeverities(ctx)
		if e.severitiesErr != nil {
			inc.Degraded = append(inc.Degraded, NestedSeverities)
		} else if sev, ok := e.severities[inc.Severity.ID]; ok {
			inc.Severity = mergeSeverity(inc.Severity, sev)
		}
	}
}

// loadSeverities fetches the severity definitions once.
func (e *incidentEnricher) loadSeverities(ctx context.Context) {
	if e.severitiesLoaded {
		return
	}
	e.severitiesLoaded = true

	resources, err := e.client.List(ctx, "severities")
	if err != nil {
		logger.Warn("rootly: could not fetch severity definitions: %v", err)
		e.severitiesErr = err
		return
	}

	e.severities = make(map[string]*domain.Severity, len(resources))
	for _, r := range resources {
		var attrs severityAttributes
		if err := decodeAttributes(domain.DataTypeIncidents, r, &attrs); err != nil {
			continue
		}
		e.severities[string(r.ID)] = attrs.severity(string(r.ID))
	}
	logger.Debug("rootly: loaded %d severity definitions", len(e.severities))
}

// mergeSeverity fills blanks in the embedded severity from its definition.
func mergeSeverity(embedded, def *domain.Severity) *domain.Severity {
	out := *embedded
	out.Name = firstNonEmpty(out.Name, def.Name)
	out.Slug = firstNonEmpty(out.Slug, def.Slug)
	out.Description = firstNonEmpty(out.Description, def.Description)
	out.Level = firstNonEmpty(out.Level, def.Level)
	return &out
}

type eventAttributes struct {
	Event      string `json:"event"`
	OccurredAt string `json:"occurred_at"`
	CreatedAt  string `json:"created_at"`
	Visibility string `json:"visibility"`
}

func (e *incidentEnricher) fetchEvents(ctx context.Context, incidentID string) ([]domain.TimelineEvent, error) {
	resources, err := e.client.List(ctx, fmt.Sprintf("incidents/%s/events", url.PathEscape(incidentID)))
	if err != nil {
		return nil, err
	}

	events := make([]domain.TimelineEvent, 0, len(resources))
	for _, r := range resources {
		var attrs eventAttributes
		if err := decodeAttributes(domain.DataTypeIncidents, r, &attrs); err != nil {
			logger.Debug("rootly: incident %s: skipping event: %v", incidentID, err)
			continue
		}
		events = append(events, domain.TimelineEvent{
			ID:          string(r.ID),
			OccurredAt:  parseTime(firstNonEmpty(attrs.OccurredAt, attrs.CreatedAt)),
			Description: attrs.Event,
			Visibility:  attrs.Visibility,
		})
	}
	return events, nil
}

type actionItemAttributes struct {
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	DueDate     string   `json:"due_date"`
	Assignee    *named   `json:"assignee"`
	AssignedTo  *userRef `json:"assigned_to"`
}

type named struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

func (e *incidentEnricher) fetchActionItems(ctx context.Context, incidentID string) ([]domain.ActionItem, error) {
	resources, err := e.client.List(ctx, fmt.Sprintf("incidents/%s/action_items", url.PathEscape(incidentID)))
	if err != nil {
		return nil, err
	}

	items := make([]domain.ActionItem, 0, len(resources))
	for _, r := range resources {
		var attrs actionItemAttributes
		if err := decodeAttributes(domain.DataTypeIncidents, r, &attrs); err != nil {
			logger.Debug("rootly: incident %s: skipping action item: %v", incidentID, err)
			continue
		}
		owner := attrs.AssignedTo.person().Display()
		if attrs.Assignee != nil {
			owner = firstNonEmpty(attrs.Assignee.Name, attrs.Assignee.FullName, owner)
		}
		items = append(items, domain.ActionItem{
			ID:          string(r.ID),
			Description: firstNonEmpty(attrs.Title, attrs.Summary, attrs.Description),
			Status:      attrs.Status,
			Owner:       owner,
			Priority:    attrs.Priority,
			DueDate:     attrs.DueDate,
		})
	}
	return items, nil
}
