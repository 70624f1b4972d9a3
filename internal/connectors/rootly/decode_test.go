package rootly

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
)

func mustResource(t *testing.T, raw string) resource {
	t.Helper()
	var r resource
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	return r
}

func TestDecodeIncident(t *testing.T) {
	r := mustResource(t, `{
		"id": 42,
		"type": "incidents",
		"attributes": {
			"sequential_id": 7,
			"title": "Database outage",
			"summary": "Primary failed over",
			"status": "resolved",
			"kind": "normal",
			"created_at": "2024-01-15T10:00:00Z",
			"updated_at": "2024-01-15T12:30:00.123Z",
			"severity": {"data": {"id": "sev1", "attributes": {"name": "SEV1", "slug": "sev1", "severity": "critical"}}},
			"user": {"data": {"attributes": {"full_name": "Ada Lovelace", "email": "ada@example.com"}}}
		},
		"relationships": {"action_items": {"data": [{"id": "a1", "type": "incident_action_items"}, {"id": 2}]}}
	}`)

	rec, err := decodeIncident(r)
	require.NoError(t, err)

	inc := rec.(*domain.Incident)
	assert.Equal(t, "42", inc.ID)
	assert.Equal(t, "7", inc.SequentialID)
	assert.Equal(t, "Database outage", inc.Title)
	assert.Equal(t, "resolved", inc.Status)
	require.NotNil(t, inc.Severity)
	assert.Equal(t, "SEV1", inc.Severity.Name)
	assert.Equal(t, "critical", inc.Severity.Level)
	assert.Equal(t, domain.Person{Name: "Ada Lovelace", Email: "ada@example.com"}, inc.Author)
	assert.Equal(t, []string{"a1", "2"}, inc.ActionItemIDs)
	assert.Equal(t, time.Date(2024, 1, 15, 12, 30, 0, 123000000, time.UTC), inc.LastModified())
}

func TestDecodeIncident_SeverityFromRelationship(t *testing.T) {
	r := mustResource(t, `{"id":"1","attributes":{"title":"x"},"relationships":{"severity":{"data":{"id":"sev2","type":"severities"}}}}`)

	rec, err := decodeIncident(r)
	require.NoError(t, err)
	assert.Equal(t, &domain.Severity{ID: "sev2"}, rec.(*domain.Incident).Severity)
}

func TestDecode_MissingIDIsMappingError(t *testing.T) {
	decoders := map[domain.DataType]decodeFunc{
		domain.DataTypeIncidents:          decodeIncident,
		domain.DataTypeAlerts:             decodeAlert,
		domain.DataTypeSchedules:          decodeSchedule,
		domain.DataTypeEscalationPolicies: decodeEscalationPolicy,
		domain.DataTypeRetrospectives:     decodeRetrospective,
	}

	for dt, decode := range decoders {
		t.Run(string(dt), func(t *testing.T) {
			_, err := decode(mustResource(t, `{"attributes":{"title":"no id"}}`))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMissingField)

			var mErr *domain.MappingError
			require.ErrorAs(t, err, &mErr)
			assert.Equal(t, dt, mErr.DataType)
		})
	}
}

func TestDecode_WrongAttributeShape(t *testing.T) {
	_, err := decodeAlert(mustResource(t, `{"id":"a1","attributes":{"status":{"nested":true}}}`))
	require.Error(t, err)

	var mErr *domain.MappingError
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, "a1", mErr.RecordID)
}

func TestDecodeAlert_Fallbacks(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		summary  string
		priority string
		source   string
	}{
		{
			name:     "summary field",
			raw:      `{"id":"1","attributes":{"summary":"CPU high","title":"ignored","priority":"P1","source":"datadog"}}`,
			summary:  "CPU high",
			priority: "P1",
			source:   "datadog",
		},
		{
			name:     "title and severity",
			raw:      `{"id":"1","attributes":{"title":"Disk full","severity":3,"source_type":"nagios"}}`,
			summary:  "Disk full",
			priority: "3",
			source:   "nagios",
		},
		{
			name:    "payload title",
			raw:     `{"id":"1","attributes":{"data":{"title":"From payload"}}}`,
			summary: "From payload",
		},
		{
			name: "nothing",
			raw:  `{"id":"1","attributes":{}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := decodeAlert(mustResource(t, tt.raw))
			require.NoError(t, err)

			alert := rec.(*domain.Alert)
			assert.Equal(t, tt.summary, alert.Summary)
			assert.Equal(t, tt.priority, alert.Priority)
			assert.Equal(t, tt.source, alert.Source)
		})
	}
}

func TestDecodeLabels(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"null", `null`, nil},
		{"strings", `["db","prod"]`, []string{"db", "prod"}},
		{"pairs", `[{"key":"env","value":"prod"},{"key":"team","value":null}]`, []string{"env:prod", "team"}},
		{"object", `{"zone":"eu","env":"prod"}`, []string{"env:prod", "zone:eu"}},
		{"number", `12`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeLabels(json.RawMessage(tt.raw)))
		})
	}
}

func TestDecodeSchedule(t *testing.T) {
	rec, err := decodeSchedule(mustResource(t, `{"id":"s1","attributes":{
		"name":"Primary on-call",
		"type":"rotation",
		"time_zone":"Europe/London",
		"team":{"name":"SRE"},
		"owner":"ops@example.com",
		"rotation_info":"weekly"
	}}`))
	require.NoError(t, err)

	s := rec.(*domain.Schedule)
	assert.Equal(t, "rotation", s.ScheduleType)
	assert.Equal(t, "Europe/London", s.Timezone)
	assert.Equal(t, `{"name":"SRE"}`, s.Team)
	assert.Equal(t, "ops@example.com", s.Owner.Display())
	assert.Equal(t, "weekly", s.RotationInfo)
}

func TestDecodeEscalationPolicy(t *testing.T) {
	rec, err := decodeEscalationPolicy(mustResource(t, `{"id":"p1","attributes":{
		"name":"Default",
		"repeat_count":"2",
		"escalation_timeout":15,
		"escalation_rules":[{"level":1}]
	},"relationships":{"escalation_steps":{"data":[{"id":"s1"},{"id":"s2"},{"id":"s3"}]}}}`))
	require.NoError(t, err)

	p := rec.(*domain.EscalationPolicy)
	assert.Equal(t, 2, p.RepeatCount)
	assert.Equal(t, 15, p.TimeoutMinutes)
	assert.Equal(t, `[{"level":1}]`, p.EscalationRules)
	assert.Equal(t, []string{"s1", "s2", "s3"}, p.StepIDs)
}

func TestDecodeRetrospective_IncidentID(t *testing.T) {
	t.Run("relationship", func(t *testing.T) {
		rec, err := decodeRetrospective(mustResource(t,
			`{"id":"r1","attributes":{"title":"Review","incident_id":"old"},"relationships":{"incident":{"data":{"id":"inc-9"}}}}`))
		require.NoError(t, err)
		assert.Equal(t, "inc-9", rec.(*domain.Retrospective).IncidentID)
	})

	t.Run("attribute fallback", func(t *testing.T) {
		rec, err := decodeRetrospective(mustResource(t, `{"id":"r1","attributes":{"incident_id":123}}`))
		require.NoError(t, err)
		assert.Equal(t, "123", rec.(*domain.Retrospective).IncidentID)
	})
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-15T10:00:00Z", time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)},
		{"2024-01-15T10:00:00+02:00", time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)},
		{"2024-01-15T10:00:00", time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)},
		{"2024-01-15 10:00:00 +0000", time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)},
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"yesterday", time.Time{}},
		{"", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.True(t, tt.want.Equal(parseTime(tt.in)), "got %v", parseTime(tt.in))
		})
	}
}

func TestParseCursor(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{``, "", false},
		{`null`, "", false},
		{`"abc"`, "abc", false},
		{`3`, "3", false},
		{`{"x":1}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseCursor(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCursor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
