package rootly

import "github.com/custodia-labs/rootly-sync/internal/core/domain"

type scheduleAttributes struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	ScheduleType string   `json:"schedule_type"`
	Type         string   `json:"type"`
	Status       string   `json:"status"`
	Timezone     string   `json:"timezone"`
	TimeZone     string   `json:"time_zone"`
	Team         text     `json:"team"`
	Owner        text     `json:"owner"`
	OwnerUser    *userRef `json:"owner_user"`
	RotationInfo text     `json:"rotation_info"`
	URL          string   `json:"url"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

func decodeSchedule(r resource) (domain.Record, error) {
	var attrs scheduleAttributes
	if err := decodeAttributes(domain.DataTypeSchedules, r, &attrs); err != nil {
		return nil, err
	}

	owner := attrs.OwnerUser.person()
	if owner.IsZero() {
		owner.Name = string(attrs.Owner)
	}

	return &domain.Schedule{
		RecordMeta:   meta(r, attrs.URL, attrs.CreatedAt, attrs.UpdatedAt),
		Name:         attrs.Name,
		Description:  attrs.Description,
		ScheduleType: firstNonEmpty(attrs.ScheduleType, attrs.Type),
		Status:       attrs.Status,
		Timezone:     firstNonEmpty(attrs.Timezone, attrs.TimeZone),
		Team:         string(attrs.Team),
		Owner:        owner,
		RotationInfo: string(attrs.RotationInfo),
	}, nil
}

// NewScheduleFetcher creates the schedules fetcher.
// The schedules endpoint has no updated_at filter, so since is applied client-side.
func NewScheduleFetcher(client *Client) *Fetcher {
	return &Fetcher{
		dataType: domain.DataTypeSchedules,
		client:   client,
		decode:   decodeSchedule,
	}
}
