package review

import (
	"bytes"
	"encoding/base64"
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/validator"
)

type ReviewFilter struct {
	CycleID string
	Status  *Status
}

type ReviewResponse struct {
	ID           string  `json:"id"`
	CycleID      string  `json:"cycle_id"`
	EngineerID   string  `json:"engineer_id"`
	Status       string  `json:"status"`
	SignedAt     *string `json:"signed_at,omitempty"`
	HRNotes      *string `json:"hr_notes,omitempty"`
	SignatureURL *string `json:"signature_url,omitempty"`
	UpdatedAt    string  `json:"updated_at"`
}

func NewReviewResponse(r Review) ReviewResponse {
	resp := ReviewResponse{
		ID:           r.ID,
		CycleID:      r.CycleID,
		EngineerID:   r.EngineerID,
		Status:       string(r.Status),
		HRNotes:      r.HRNotes,
		SignatureURL: r.SignatureURL,
		UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
	}
	if r.SignedAt != nil {
		signedAt := r.SignedAt.Format(time.RFC3339)
		resp.SignedAt = &signedAt
	}
	return resp
}

const (
	signaturePrefix  = "data:image/png;base64,"
	maxSignatureSize = 1 << 20
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

type SubmitReviewRequest struct {
	// Signature is the canvas export, "data:image/png;base64,..."
	Signature string `json:"signature"`
}

func (r *SubmitReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Signature) {
		errs = append(errs, validator.ValidationError{
			Field:   "signature",
			Message: "signature is required",
		})
	} else if _, err := r.DecodeSignature(); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "signature",
			Message: err.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// DecodeSignature returns the PNG bytes carried by the data URL.
func (r *SubmitReviewRequest) DecodeSignature() ([]byte, error) {
	if !strings.HasPrefix(r.Signature, signaturePrefix) {
		return nil, ErrInvalidSignature
	}
	encoded := strings.TrimPrefix(r.Signature, signaturePrefix)
	if base64.StdEncoding.DecodedLen(len(encoded)) > maxSignatureSize {
		return nil, ErrInvalidSignature
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || !bytes.HasPrefix(data, pngMagic) {
		return nil, ErrInvalidSignature
	}
	return data, nil
}

type ReturnReviewRequest struct {
	ID      string `json:"-"`
	HRNotes string `json:"hr_notes"`
}

func (r *ReturnReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if validator.IsEmpty(r.HRNotes) {
		errs = append(errs, validator.ValidationError{
			Field:   "hr_notes",
			Message: "hr_notes is required when returning a review",
		})
	} else if len(r.HRNotes) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "hr_notes",
			Message: "hr_notes must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
