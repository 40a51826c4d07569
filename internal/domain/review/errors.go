package review

import "errors"

var (
	ErrReviewNotFound       = errors.New("review not found")
	ErrReviewNotSubmittable = errors.New("review can only be submitted while pending or returned")
	ErrReviewNotSubmitted   = errors.New("review has not been submitted")
	ErrInvalidSignature     = errors.New("signature must be a PNG data URL")
)
