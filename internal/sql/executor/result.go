package executor

import "github.com/tuannm99/flatdb/internal/record"

// Result is what one query hands back to the caller.
type Result struct {
	// Table is the selection of the query, nil when no select ran.
	// It never shares rows with the catalog.
	Table *record.Table `json:"table,omitempty"`

	// For insert/delete:
	Affected int `json:"affected"`

	Warnings []string `json:"warnings,omitempty"`
}
