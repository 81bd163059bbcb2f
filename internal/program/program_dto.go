package program

// ProgramDayInput is one date's schedule inside a save batch. Empty rows are
// legal in the payload and skipped server-side.
type ProgramDayInput struct {
	Date        string `json:"date" binding:"required"`
	ProgramName string `json:"program_name"`
	Place       string `json:"place"`
}

type SaveProgramRequest struct {
	Entries []ProgramDayInput `json:"entries" binding:"required,min=1,dive"`
}

type SubmitProgramRequest struct {
	Year  int `json:"year" binding:"required,min=2000,max=2100"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

type DecideProgramRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
}

// Batch outcomes per date. Batches never fail as a whole; the caller
// reconciles from these.
const (
	OutcomeSaved        = "saved"
	OutcomeSubmitted    = "submitted"
	OutcomeSkippedPast  = "skipped_past"
	OutcomeSkippedEmpty = "skipped_empty"
	OutcomeLocked       = "locked"
	OutcomeFailed       = "failed"
)

type ProgramDayResult struct {
	Date    string `json:"date"`
	Outcome string `json:"outcome"`
}

type ProgramBatchResponse struct {
	Results []ProgramDayResult `json:"results"`
}

type ProgramResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	Division    string `json:"division"`
	Date        string `json:"date"`
	ProgramName string `json:"program_name"`
	Place       string `json:"place"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}
