package rootly

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
)

// collection is a JSON:API list response.
type collection struct {
	Data  []resource `json:"data"`
	Links struct {
		Next *string `json:"next"`
	} `json:"links"`
	Meta struct {
		NextPage json.RawMessage `json:"next_page"`
	} `json:"meta"`
}

// resource is a single JSON:API resource object.
type resource struct {
	ID            flexString              `json:"id"`
	Type          string                  `json:"type"`
	Attributes    json.RawMessage         `json:"attributes"`
	Relationships map[string]relationship `json:"relationships"`
}

// relationship holds linkage data, which may be an object, an array or null.
type relationship struct {
	Data json.RawMessage `json:"data"`
}

type identifier struct {
	ID   flexString `json:"id"`
	Type string     `json:"type"`
}

// relatedID returns the ID of a to-one relationship.
func (r resource) relatedID(name string) string {
	rel, ok := r.Relationships[name]
	if !ok || isNull(rel.Data) {
		return ""
	}
	var id identifier
	if err := json.Unmarshal(rel.Data, &id); err != nil {
		return ""
	}
	return string(id.ID)
}

// relatedIDs returns the IDs of a to-many relationship.
func (r resource) relatedIDs(name string) []string {
	rel, ok := r.Relationships[name]
	if !ok || isNull(rel.Data) {
		return nil
	}
	var ids []identifier
	if err := json.Unmarshal(rel.Data, &ids); err != nil {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id.ID != "" {
			out = append(out, string(id.ID))
		}
	}
	return out
}

// decodeAttributes validates the resource shape and unmarshals its attributes.
func decodeAttributes(dt domain.DataType, r resource, v any) error {
	if r.ID == "" {
		return &domain.MappingError{DataType: dt, Err: domain.ErrMissingField}
	}
	if isNull(r.Attributes) {
		return &domain.MappingError{DataType: dt, RecordID: string(r.ID), Err: errMissingAttributes}
	}
	if err := json.Unmarshal(r.Attributes, v); err != nil {
		return &domain.MappingError{DataType: dt, RecordID: string(r.ID), Err: err}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// Int returns the numeric value, or zero.
func (f flexString) Int() int {
	n, err := strconv.Atoi(strings.TrimSpace(string(f)))
	if err != nil {
		return 0
	}
	return n
}

// text renders an arbitrary JSON value as plain text: strings verbatim,
// null as empty, anything else as compact JSON.
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = text(s)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*t = text(buf.String())
	return nil
}

// userRef is an embedded user object: {"data": {"attributes": {...}}}.
type userRef struct {
	Data *struct {
		Attributes struct {
			FullName string `json:"full_name"`
			Name     string `json:"name"`
			Email    string `json:"email"`
		} `json:"attributes"`
	} `json:"data"`
}

func (u *userRef) person() domain.Person {
	if u == nil || u.Data == nil {
		return domain.Person{}
	}
	name := u.Data.Attributes.FullName
	if name == "" {
		name = u.Data.Attributes.Name
	}
	return domain.Person{Name: name, Email: u.Data.Attributes.Email}
}

// timestampLayouts are tried in order when parsing API timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02",
}

// parseTime parses an API timestamp. Unparseable values yield zero.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// meta builds the shared record fields.
func meta(r resource, url, createdAt, updatedAt string) domain.RecordMeta {
	return domain.RecordMeta{
		ID:        string(r.ID),
		URL:       strings.TrimSpace(url),
		CreatedAt: parseTime(createdAt),
		UpdatedAt: parseTime(updatedAt),
	}
}

// firstNonEmpty returns the first non-blank value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
