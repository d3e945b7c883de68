package models

// ScanOutcome is the terminal state of a scan pipeline run. Only errors are
// failures; every outcome below is reported as success to the caller.
type ScanOutcome string

const (
	// ScanAdded means the product was put on the list and the bot notified.
	ScanAdded ScanOutcome = "added"
	// ScanSkipped means the list already contained the product (idempotent no-op).
	ScanSkipped ScanOutcome = "skipped"
	// ScanAwaitingManualEntry means no source knew the EAN and the user was
	// asked to enter the product via the chat channel.
	ScanAwaitingManualEntry ScanOutcome = "awaiting_manual_entry"
)

type ScanResult struct {
	Outcome   ScanOutcome `json:"outcome"`
	Product   *Product    `json:"product,omitempty"`
	FromCache bool        `json:"from_cache"`
}
