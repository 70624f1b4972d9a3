package domain

import "time"

// Document is a destination search document.
// It is the canonical representation after mapping a Record.
type Document struct {
	// ID is the stable destination identifier (see DocumentID).
	ID string

	// DataType is the record family the document came from.
	DataType DataType

	// ObjectType is the destination object definition name.
	ObjectType string

	// ExternalID is the Rootly identifier of the source record.
	ExternalID string

	// Title is the human-readable title.
	Title string

	// Body is the plain-text searchable content.
	Body string

	// Summary is a short description, if the record has one.
	Summary string

	// ViewURL links back to the record in the Rootly UI.
	ViewURL string

	// Status, Severity and Owner are normalised tokens or names.
	Status   string
	Severity string
	Owner    string

	// LinkedDocumentID references a related document (retrospective to incident).
	LinkedDocumentID string

	// Author is the person who created the record.
	Author Person

	// Tags are searchable keyword labels.
	Tags []string

	// Properties are custom properties in a stable order.
	Properties []Property

	// Permissions controls who can see the document.
	Permissions Permissions

	// CreatedAt is when the source record was created.
	CreatedAt time.Time

	// UpdatedAt is when the source record was last updated.
	UpdatedAt time.Time
}

// Property is one custom property of a document.
type Property struct {
	Name  string
	Value string
}

// Permissions describes document visibility.
type Permissions struct {
	// AllowAllDatasourceUsers grants access to every user of the datasource.
	AllowAllDatasourceUsers bool
}

// OrgWidePermissions returns the default organisation-wide visibility.
func OrgWidePermissions() Permissions {
	return Permissions{AllowAllDatasourceUsers: true}
}

// DocumentIDPrefix is prepended to every document ID.
const DocumentIDPrefix = "rootly-"

// DocumentID builds the stable destination ID for a record.
// The slug set is prefix-free, so IDs never collide across types.
func DocumentID(dt DataType, externalID string) string {
	return DocumentIDPrefix + dt.Slug() + "-" + externalID
}

// Custom property names set on documents and declared on the datasource.
const (
	PropertyStatus             = "status"
	PropertySeverity           = "severity"
	PropertyOwner              = "owner"
	PropertyIncidentDocumentID = "incidentDocumentId"
)
