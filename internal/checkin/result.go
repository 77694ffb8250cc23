package checkin

import "time"

// Per-account error tags.
const (
	ErrorInvalidAccountEntry = "invalid_account_entry"
	ErrorNetwork             = "network_error"
	ErrorHTTP                = "http_error"
	ErrorInvalidJSON         = "invalid_json"
	ErrorUnexpectedResponse  = "unexpected_response"
)

// Configuration-level error codes.
const (
	ErrorCodeMissingConfiguration = "missing_configuration"
	ErrorCodeInvalidConfiguration = "invalid_configuration"
)

const (
	MessageCheckedIn        = "Checked in successfully"
	MessageAlreadyCheckedIn = "Already checked in today"
)

// Result is the outcome of one account in one sweep.
type Result struct {
	UID     *string `json:"uid"`
	OK      bool    `json:"ok"`
	Status  *int    `json:"status,omitempty"`
	Code    *int64  `json:"code,omitempty"`
	Body    any     `json:"body,omitempty"`
	Message string  `json:"message,omitempty"`
	Error   string  `json:"error,omitempty"`
	Detail  string  `json:"detail,omitempty"`
}

// Report aggregates every Result of one sweep. OK reports that the sweep ran,
// not that every account succeeded.
type Report struct {
	RunID      string    `json:"run_id"`
	OK         bool      `json:"ok"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	Results    []Result  `json:"results"`
	Error      string    `json:"error,omitempty"`
	ErrorCode  string    `json:"error_code,omitempty"`
	Warning    string    `json:"warning,omitempty"`
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
	if res.OK {
		r.Succeeded++
	} else {
		r.Failed++
	}
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }
