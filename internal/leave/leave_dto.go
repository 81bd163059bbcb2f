package leave

type SubmitLeaveRequest struct {
	LeaveType       string `json:"leave_type" binding:"required,oneof=annual casual sick maternity"`
	StartDate       string `json:"start_date" binding:"required"`
	ResumeDate      string `json:"resume_date" binding:"required"`
	Reason          string `json:"reason" binding:"required"`
	ActingOfficerID string `json:"acting_officer_id" binding:"required,uuid"`
	RecommenderID   string `json:"recommender_id" binding:"required,uuid"`
	ApproverID      string `json:"approver_id" binding:"required,uuid"`
}

type RecommendLeaveRequest struct {
	Decision string `json:"decision" binding:"required,oneof=recommended not_recommended"`
	Remarks  string `json:"remarks"`
}

type ApproveLeaveRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved not_approved"`
	Remarks  string `json:"remarks"`
}

type LeaveResponse struct {
	ID                string `json:"id"`
	ApplicationNumber string `json:"application_number"`
	ApplicantID       string `json:"applicant_id"`
	ApplicantName     string `json:"applicant_name"`
	Designation       string `json:"designation,omitempty"`
	Division          string `json:"division"`

	LeaveType  string `json:"leave_type"`
	LeaveDays  int    `json:"leave_days"`
	StartDate  string `json:"start_date"`
	ResumeDate string `json:"resume_date"`
	Reason     string `json:"reason"`

	ActingOfficerID   string `json:"acting_officer_id"`
	ActingOfficerName string `json:"acting_officer_name,omitempty"`
	RecommenderID     string `json:"recommender_id"`
	ApproverID        string `json:"approver_id"`

	Status string `json:"status"`

	RecommendationBy      *string `json:"recommendation_by,omitempty"`
	RecommendationDate    *string `json:"recommendation_date,omitempty"`
	RecommendationRemarks *string `json:"recommendation_remarks,omitempty"`

	ApprovalBy      *string `json:"approval_by,omitempty"`
	ApprovalDate    *string `json:"approval_date,omitempty"`
	ApprovalRemarks *string `json:"approval_remarks,omitempty"`

	RejectionReason *string `json:"rejection_reason,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
