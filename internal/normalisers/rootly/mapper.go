package rootly

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driven"
)

// unknownToken is never emitted as a tag value.
const unknownToken = "unknown"

// NewMappers returns a mapper for every data type.
// webBase is the Rootly web UI root used for records without a URL.
func NewMappers(webBase string) []driven.DocumentMapper {
	b := base{webBase: strings.TrimRight(webBase, "/")}
	return []driven.DocumentMapper{
		&IncidentMapper{base: b},
		&AlertMapper{base: b},
		&ScheduleMapper{base: b},
		&EscalationPolicyMapper{base: b},
		&RetrospectiveMapper{base: b},
	}
}

// base holds what every mapper shares.
type base struct {
	webBase string
}

// newDocument fills the fields common to every data type.
func (b base) newDocument(dt domain.DataType, m domain.RecordMeta) *domain.Document {
	return &domain.Document{
		ID:          domain.DocumentID(dt, m.ID),
		DataType:    dt,
		ObjectType:  dt.ObjectType(),
		ExternalID:  m.ID,
		ViewURL:     b.viewURL(dt, m),
		Permissions: domain.OrgWidePermissions(),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.LastModified(),
	}
}

// viewURL prefers the record's own URL.
func (b base) viewURL(dt domain.DataType, m domain.RecordMeta) string {
	if m.URL != "" {
		return m.URL
	}
	if b.webBase == "" {
		return ""
	}
	return b.webBase + "/" + dt.WebSegment() + "/" + m.ID
}

// requireID rejects records without an identifier.
func requireID(dt domain.DataType, m domain.RecordMeta) error {
	if strings.TrimSpace(m.ID) == "" {
		return &domain.MappingError{DataType: dt, Err: domain.ErrMissingField}
	}
	return nil
}

// missingTitle reports a record whose title cannot be recovered.
func missingTitle(dt domain.DataType, id string) error {
	return &domain.MappingError{DataType: dt, RecordID: id, Err: domain.ErrMissingField}
}

// wrongType reports a record handed to the wrong mapper.
func wrongType(dt domain.DataType, rec domain.Record) error {
	return &domain.MappingError{DataType: dt, Err: fmt.Errorf("%w: %T", domain.ErrUnsupportedType, rec)}
}

// NormaliseToken lowercases an enum-like value and collapses every run of
// non-alphanumeric characters to a single underscore.
// "In Progress" becomes "in_progress" and "SEV-1" becomes "sev_1".
func NormaliseToken(s string) string {
	var sb strings.Builder
	pending := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && sb.Len() > 0 {
				sb.WriteByte('_')
			}
			pending = false
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		pending = true
	}
	return sb.String()
}

// tagSet collects tags in insertion order without duplicates.
type tagSet struct {
	tags []string
	seen map[string]struct{}
}

func (t *tagSet) add(key, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	tag := key + ":" + value
	if t.seen == nil {
		t.seen = make(map[string]struct{})
	}
	if _, dup := t.seen[tag]; dup {
		return
	}
	t.seen[tag] = struct{}{}
	t.tags = append(t.tags, tag)
}

// addToken adds a normalised enum tag, skipping unknown values.
func (t *tagSet) addToken(key, value string) {
	token := NormaliseToken(value)
	if token == unknownToken {
		return
	}
	t.add(key, token)
}

func (t *tagSet) list() []string {
	return t.tags
}

// properties builds the custom property list in a fixed order, omitting blanks.
func properties(doc *domain.Document) []domain.Property {
	var props []domain.Property
	for _, p := range []domain.Property{
		{Name: domain.PropertyStatus, Value: doc.Status},
		{Name: domain.PropertySeverity, Value: doc.Severity},
		{Name: domain.PropertyOwner, Value: doc.Owner},
		{Name: domain.PropertyIncidentDocumentID, Value: doc.LinkedDocumentID},
	} {
		if p.Value != "" {
			props = append(props, p)
		}
	}
	return props
}

// truncate shortens s to at most n runes, appending "..." when cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n])) + "..."
}
