package actions

import "strings"

// Event is one inbound action invocation.
//
// Fields carries named string parameters (message id, destination folder,
// filename) and Switches carries named booleans (whole thread, notify).
// Optional parameters stay absent from the maps instead of being encoded as
// magic values.
type Event struct {
	Account  string            `json:"account"`
	Fields   map[string]string `json:"fields,omitempty"`
	Switches map[string]bool   `json:"switches,omitempty"`
}

// Field returns the named field value and whether it was present.
func (e *Event) Field(name string) (string, bool) {
	value, ok := e.Fields[name]
	return value, ok
}

// Switch returns the named switch, false when absent.
func (e *Event) Switch(name string) bool {
	return e.Switches[name]
}

// List splits the named field on commas, trimming whitespace and dropping
// empty entries. Returns nil when the field is absent or empty.
func (e *Event) List(name string) []string {
	raw, ok := e.Fields[name]
	if !ok {
		return nil
	}

	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

// SettingsPayload is the settings section of a Response.
type SettingsPayload struct {
	DriveID         string `json:"driveId"`
	SaveWholeThread bool   `json:"saveWholeThread"`
}

// Response is the outcome of a handled action.
type Response struct {
	// Notification is a short user-facing status line.
	Notification string `json:"notification,omitempty"`

	// FileURL links to the archived document when the action produced one.
	FileURL string `json:"fileUrl,omitempty"`

	// Suggestions lists resource display names for selection widgets.
	Suggestions []string `json:"suggestions,omitempty"`

	// Settings carries the stored preferences for settings actions.
	Settings *SettingsPayload `json:"settings,omitempty"`
}
