package rootly

import "github.com/custodia-labs/rootly-sync/internal/core/domain"

type escalationPolicyAttributes struct {
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	Status            string     `json:"status"`
	Team              text       `json:"team"`
	RepeatCount       flexString `json:"repeat_count"`
	EscalationTimeout flexString `json:"escalation_timeout"`
	EscalationRules   text       `json:"escalation_rules"`
	URL               string     `json:"url"`
	CreatedAt         string     `json:"created_at"`
	UpdatedAt         string     `json:"updated_at"`
}

func decodeEscalationPolicy(r resource) (domain.Record, error) {
	var attrs escalationPolicyAttributes
	if err := decodeAttributes(domain.DataTypeEscalationPolicies, r, &attrs); err != nil {
		return nil, err
	}

	return &domain.EscalationPolicy{
		RecordMeta:      meta(r, attrs.URL, attrs.CreatedAt, attrs.UpdatedAt),
		Name:            attrs.Name,
		Description:     attrs.Description,
		Status:          attrs.Status,
		Team:            string(attrs.Team),
		RepeatCount:     attrs.RepeatCount.Int(),
		TimeoutMinutes:  attrs.EscalationTimeout.Int(),
		EscalationRules: string(attrs.EscalationRules),
		StepIDs:         r.relatedIDs("escalation_steps"),
	}, nil
}

// NewEscalationPolicyFetcher creates the escalation policies fetcher.
// Like schedules, since is applied client-side.
func NewEscalationPolicyFetcher(client *Client) *Fetcher {
	return &Fetcher{
		dataType: domain.DataTypeEscalationPolicies,
		client:   client,
		decode:   decodeEscalationPolicy,
	}
}
