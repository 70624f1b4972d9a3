package rootly

import "github.com/custodia-labs/rootly-sync/internal/core/domain"

type retrospectiveAttributes struct {
	Title               string     `json:"title"`
	Status              string     `json:"status"`
	Summary             string     `json:"summary"`
	WhatWentWell        text       `json:"what_went_well"`
	WhatCouldBeImproved text       `json:"what_could_be_improved"`
	ActionItems         text       `json:"action_items"`
	LessonsLearned      text       `json:"lessons_learned"`
	Notes               text       `json:"notes"`
	IncidentID          flexString `json:"incident_id"`
	URL                 string     `json:"url"`
	CreatedAt           string     `json:"created_at"`
	UpdatedAt           string     `json:"updated_at"`
	User                *userRef   `json:"user"`
}

func decodeRetrospective(r resource) (domain.Record, error) {
	var attrs retrospectiveAttributes
	if err := decodeAttributes(domain.DataTypeRetrospectives, r, &attrs); err != nil {
		return nil, err
	}

	return &domain.Retrospective{
		RecordMeta:          meta(r, attrs.URL, attrs.CreatedAt, attrs.UpdatedAt),
		Title:               attrs.Title,
		Status:              attrs.Status,
		Summary:             attrs.Summary,
		WhatWentWell:        string(attrs.WhatWentWell),
		WhatCouldBeImproved: string(attrs.WhatCouldBeImproved),
		ActionItems:         string(attrs.ActionItems),
		LessonsLearned:      string(attrs.LessonsLearned),
		Notes:               string(attrs.Notes),
		IncidentID:          firstNonEmpty(r.relatedID("incident"), string(attrs.IncidentID)),
		Author:              attrs.User.person(),
	}, nil
}

// NewRetrospectiveFetcher creates the retrospectives (post mortems) fetcher.
func NewRetrospectiveFetcher(client *Client) *Fetcher {
	return &Fetcher{
		dataType:    domain.DataTypeRetrospectives,
		client:      client,
		decode:      decodeRetrospective,
		serverSince: true,
	}
}
