package review

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusReturned  Status = "returned"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusSubmitted, StatusApproved, StatusReturned:
		return true
	}
	return false
}

// Review is an engineer's sign-off of one attendance cycle.
type Review struct {
	ID           string
	CompanyID    string
	CycleID      string
	EngineerID   string
	Status       Status
	SignedAt     *time.Time
	HRNotes      *string
	SignatureURL *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanSubmit is true for a fresh review and for one HR sent back.
func (r *Review) CanSubmit() bool {
	return r.Status == StatusPending || r.Status == StatusReturned
}

func (r *Review) Submit(signatureURL string, at time.Time) error {
	if !r.CanSubmit() {
		return ErrReviewNotSubmittable
	}
	r.Status = StatusSubmitted
	r.SignatureURL = &signatureURL
	r.SignedAt = &at
	return nil
}

func (r *Review) Approve() error {
	if r.Status != StatusSubmitted {
		return ErrReviewNotSubmitted
	}
	r.Status = StatusApproved
	return nil
}

// Return sends the review back to the engineer with HR's notes.
func (r *Review) Return(notes string) error {
	if r.Status != StatusSubmitted {
		return ErrReviewNotSubmitted
	}
	r.Status = StatusReturned
	r.HRNotes = &notes
	return nil
}
