// Package rootly maps Rootly records onto destination search documents.
//
// Mappers are pure: they perform no I/O, read no clocks and generate no
// random identifiers, so the same record always yields the same document.
// Each data type has its own mapper:
//   - incidents: [INC-<seq>] titles with timeline, action items and severity detail
//   - alerts: [ALERT] titles with description and payload details
//   - schedules: [SCHEDULE] titles with rotation info
//   - escalation policies: [ESCALATION] titles with escalation rules
//   - retrospectives: cross-linked to the incident document they review
package rootly
