// Package services implements the driving port interfaces.
//
// The Coordinator runs the fetch, map and upload pipeline for each enabled
// data type and merges the per type reports. The Scheduler repeats it on an
// interval in serve mode and records every run in the task history.
package services
