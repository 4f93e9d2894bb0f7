package model

// WriteStatus is the write outcome of one plan entry.
type WriteStatus string

const (
	// StatusPending means the entry has not been processed yet.
	StatusPending WriteStatus = "pending"
	// StatusSuccess means the artifact was fetched and written.
	StatusSuccess WriteStatus = "success"
	// StatusFailed means fetch or write raised an error.
	StatusFailed WriteStatus = "failed"
)

// WriteResult records the outcome of one plan entry in one export run.
// Write outcome and verification outcome are deliberately separate axes:
// an unverified write is still a successful write, surfaced distinctly.
type WriteResult struct {
	Key                string      `json:"key"`
	Filename           string      `json:"filename"`
	Status             WriteStatus `json:"status"`
	ErrorMessage       string      `json:"error_message,omitempty"`
	Warning            string      `json:"warning,omitempty"`
	VerificationReason string      `json:"verification_reason,omitempty"`
	Verified           bool        `json:"verified"`
}

// FailedCount returns how many results are in the failed state.
func FailedCount(results []WriteResult) int {
	n := 0
	for _, r := range results {
		if r.Status == StatusFailed {
			n++
		}
	}
	return n
}
