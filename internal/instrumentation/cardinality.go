package instrumentation

import "strings"

// Cardinality management helpers for metrics. High cardinality causes memory
// pressure in the metrics backend and slower queries, so user identifiers
// must be reduced before being used as label values.

// ExtractUserDomain extracts the domain part from an email address, reducing
// cardinality by using the domain instead of the full address.
//
// Example:
//
//	ExtractUserDomain("jane@example.com")  // "example.com"
//	ExtractUserDomain("invalid")           // "unknown"
func ExtractUserDomain(email string) string {
	if email == "" {
		return "unknown"
	}

	parts := strings.Split(email, "@")
	if len(parts) == 2 && parts[1] != "" {
		return parts[1]
	}

	return "unknown"
}

// Common operation types for Google API metrics.
const (
	OperationList   = "list"
	OperationGet    = "get"
	OperationCreate = "create"
	OperationUpload = "upload"
	OperationImport = "import"
	OperationExport = "export"
	OperationDelete = "delete"
	OperationSend   = "send"
)
