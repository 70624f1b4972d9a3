package glean

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/logger"
)

// Datasource constants.
const (
	CategoryTickets       = "TICKETS"
	CategoryUncategorized = "UNCATEGORIZED"
	PropertyTypeText      = "TEXT"
)

// objectCategories assigns each object type a document category.
var objectCategories = map[domain.DataType]string{
	domain.DataTypeIncidents:          CategoryTickets,
	domain.DataTypeAlerts:             CategoryTickets,
	domain.DataTypeSchedules:          CategoryUncategorized,
	domain.DataTypeEscalationPolicies: CategoryUncategorized,
	domain.DataTypeRetrospectives:     CategoryTickets,
}

// objectLabels are the display labels of each object type.
var objectLabels = map[domain.DataType]string{
	domain.DataTypeIncidents:          "Incident",
	domain.DataTypeAlerts:             "Alert",
	domain.DataTypeSchedules:          "Schedule",
	domain.DataTypeEscalationPolicies: "Escalation Policy",
	domain.DataTypeRetrospectives:     "Retrospective",
}

// propertyLabels are the custom properties every object type declares.
var propertyLabels = []struct{ name, label string }{
	{domain.PropertyStatus, "Status"},
	{domain.PropertySeverity, "Severity"},
	{domain.PropertyOwner, "Owner"},
	{domain.PropertyIncidentDocumentID, "Incident"},
}

// EnsureDatasource registers the datasource unless it already exists with
// every object definition. Safe to call before each run.
func (c *Client) EnsureDatasource(ctx context.Context) error {
	var existing datasourceConfig
	err := c.post(ctx, "/getdatasourceconfig", getDatasourceConfigRequest{Datasource: c.datasource}, &existing, nil)
	switch {
	case err == nil && hasAllObjects(existing):
		logger.Debug("glean: datasource %q already configured", c.datasource)
		return nil
	case err == nil:
		logger.Info("glean: datasource %q is missing object definitions, updating", c.datasource)
	case domain.ClassifyError(err) == domain.ErrorKindRequest:
		logger.Info("glean: datasource %q not found, creating", c.datasource)
	default:
		return fmt.Errorf("glean: get datasource config: %w", err)
	}

	if err := c.post(ctx, "/adddatasource", c.datasourceConfig(), nil, nil); err != nil {
		return fmt.Errorf("glean: add datasource: %w", err)
	}
	logger.Info("glean: datasource %q registered", c.datasource)
	return nil
}

func hasAllObjects(cfg datasourceConfig) bool {
	have := make(map[string]bool, len(cfg.ObjectDefinitions))
	for _, def := range cfg.ObjectDefinitions {
		have[def.Name] = true
	}
	for _, dt := range domain.AllDataTypes() {
		if !have[dt.ObjectType()] {
			return false
		}
	}
	return true
}

// datasourceConfig builds the full datasource registration.
func (c *Client) datasourceConfig() datasourceConfig {
	return datasourceConfig{
		Name:                    c.datasource,
		DisplayName:             c.displayName,
		DatasourceCategory:      CategoryTickets,
		URLRegex:                c.urlRegex(),
		IsUserReferencedByEmail: true,
		ObjectDefinitions:       objectDefinitions(),
	}
}

// urlRegex matches view URLs of every data type under the web base.
func (c *Client) urlRegex() string {
	if c.webBase == "" {
		return ""
	}
	segments := make([]string, 0, len(domain.AllDataTypes()))
	for _, dt := range domain.AllDataTypes() {
		segments = append(segments, regexp.QuoteMeta(dt.WebSegment()))
	}
	return regexp.QuoteMeta(c.webBase) + "/(" + strings.Join(segments, "|") + ")/.*"
}

func objectDefinitions() []objectDefinition {
	props := make([]propertyDefinition, 0, len(propertyLabels))
	for _, p := range propertyLabels {
		props = append(props, propertyDefinition{
			Name:         p.name,
			DisplayLabel: p.label,
			PropertyType: PropertyTypeText,
			UIOptions:    "SEARCH_RESULT",
		})
	}

	defs := make([]objectDefinition, 0, len(domain.AllDataTypes()))
	for _, dt := range domain.AllDataTypes() {
		defs = append(defs, objectDefinition{
			Name:                dt.ObjectType(),
			DisplayLabel:        objectLabels[dt],
			DocCategory:         objectCategories[dt],
			Summarizable:        true,
			PropertyDefinitions: props,
		})
	}
	return defs
}
