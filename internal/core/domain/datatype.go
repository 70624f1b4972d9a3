package domain

import "fmt"

// DataType identifies one family of Rootly records.
type DataType string

// Supported data types.
const (
	DataTypeIncidents          DataType = "incidents"
	DataTypeAlerts             DataType = "alerts"
	DataTypeSchedules          DataType = "schedules"
	DataTypeEscalationPolicies DataType = "escalation_policies"
	DataTypeRetrospectives     DataType = "retrospectives"
)

// AllDataTypes returns every data type in run order.
// Retrospectives come after incidents so cross-links never point forward.
func AllDataTypes() []DataType {
	return []DataType{
		DataTypeIncidents,
		DataTypeAlerts,
		DataTypeSchedules,
		DataTypeEscalationPolicies,
		DataTypeRetrospectives,
	}
}

// ParseDataType converts a configuration key into a DataType.
func ParseDataType(s string) (DataType, error) {
	dt := DataType(s)
	if !dt.IsValid() {
		return "", fmt.Errorf("%w: unknown data type %q", ErrInvalidInput, s)
	}
	return dt, nil
}

// IsValid returns true if the data type is recognised.
func (d DataType) IsValid() bool {
	switch d {
	case DataTypeIncidents, DataTypeAlerts, DataTypeSchedules,
		DataTypeEscalationPolicies, DataTypeRetrospectives:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (d DataType) String() string {
	return string(d)
}

// Endpoint returns the Rootly API collection path.
func (d DataType) Endpoint() string {
	if d == DataTypeRetrospectives {
		return "post_mortems"
	}
	return string(d)
}

// ObjectType returns the destination object type name.
func (d DataType) ObjectType() string {
	switch d {
	case DataTypeIncidents:
		return "Incident"
	case DataTypeAlerts:
		return "Alert"
	case DataTypeSchedules:
		return "Schedule"
	case DataTypeEscalationPolicies:
		return "EscalationPolicy"
	case DataTypeRetrospectives:
		return "Retrospective"
	default:
		return ""
	}
}

// Slug returns the singular token used inside document IDs.
func (d DataType) Slug() string {
	switch d {
	case DataTypeIncidents:
		return "incident"
	case DataTypeAlerts:
		return "alert"
	case DataTypeSchedules:
		return "schedule"
	case DataTypeEscalationPolicies:
		return "escalation-policy"
	case DataTypeRetrospectives:
		return "retrospective"
	default:
		return ""
	}
}

// WebSegment returns the path segment of the Rootly web UI for this type.
func (d DataType) WebSegment() string {
	return string(d)
}

// Description returns a human-readable name for the data type.
func (d DataType) Description() string {
	switch d {
	case DataTypeIncidents:
		return "Incidents"
	case DataTypeAlerts:
		return "Alerts"
	case DataTypeSchedules:
		return "Schedules"
	case DataTypeEscalationPolicies:
		return "Escalation Policies"
	case DataTypeRetrospectives:
		return "Retrospectives"
	default:
		return unknownDescription
	}
}

const unknownDescription = "Unknown"
