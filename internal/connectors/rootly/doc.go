// Package rootly fetches incident-management records from the Rootly REST API.
//
// Rootly speaks JSON:API: every collection response carries a data array of
// resources with attributes and relationships, plus pagination links. Each
// data type has a fetcher that decodes resources into typed domain records
// at this boundary, so mappers never see raw JSON.
//
// Incidents can optionally be enriched with their timeline events, action
// items and severity definitions. Those secondary calls degrade gracefully:
// on failure the incident is still emitted and the sub-resource is listed in
// Incident.Degraded.
package rootly
