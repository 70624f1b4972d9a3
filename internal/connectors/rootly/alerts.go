package rootly

import (
	"encoding/json"
	"sort"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
)

type alertAttributes struct {
	Summary     string          `json:"summary"`
	Title       string          `json:"title"`
	Name        string          `json:"name"`
	Data        json.RawMessage `json:"data"`
	Description string          `json:"description"`
	Message     string          `json:"message"`
	Status      string          `json:"status"`
	Priority    text            `json:"priority"`
	Severity    text            `json:"severity"`
	Source      string          `json:"source"`
	SourceType  string          `json:"source_type"`
	Details     text            `json:"details"`
	Labels      json.RawMessage `json:"labels"`
	URL         string          `json:"url"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

// payloadTitle reads title or summary from the free-form alert payload.
func payloadTitle(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var payload struct {
		Title   string `json:"title"`
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return firstNonEmpty(payload.Title, payload.Summary)
}

// decodeLabels accepts ["a", "b"], [{"key": "k", "value": "v"}] or {"k": "v"}.
func decodeLabels(raw json.RawMessage) []string {
	if isNull(raw) {
		return nil
	}

	var plain []string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}

	var pairs []struct {
		Key   string `json:"key"`
		Value text   `json:"value"`
	}
	if err := json.Unmarshal(raw, &pairs); err == nil {
		labels := make([]string, 0, len(pairs))
		for _, p := range pairs {
			labels = append(labels, labelPair(p.Key, string(p.Value)))
		}
		return labels
	}

	var object map[string]text
	if err := json.Unmarshal(raw, &object); err == nil {
		labels := make([]string, 0, len(object))
		for k, v := range object {
			labels = append(labels, labelPair(k, string(v)))
		}
		sort.Strings(labels)
		return labels
	}
	return nil
}

func labelPair(key, value string) string {
	if value == "" {
		return key
	}
	return key + ":" + value
}

func decodeAlert(r resource) (domain.Record, error) {
	var attrs alertAttributes
	if err := decodeAttributes(domain.DataTypeAlerts, r, &attrs); err != nil {
		return nil, err
	}

	return &domain.Alert{
		RecordMeta:  meta(r, attrs.URL, attrs.CreatedAt, attrs.UpdatedAt),
		Summary:     firstNonEmpty(attrs.Summary, attrs.Title, attrs.Name, payloadTitle(attrs.Data)),
		Description: firstNonEmpty(attrs.Description, attrs.Message),
		Status:      attrs.Status,
		Priority:    firstNonEmpty(string(attrs.Priority), string(attrs.Severity)),
		Source:      firstNonEmpty(attrs.Source, attrs.SourceType),
		Details:     string(attrs.Details),
		Labels:      decodeLabels(attrs.Labels),
	}, nil
}

// NewAlertFetcher creates the alerts fetcher.
func NewAlertFetcher(client *Client) *Fetcher {
	return &Fetcher{
		dataType:    domain.DataTypeAlerts,
		client:      client,
		decode:      decodeAlert,
		serverSince: true,
	}
}
