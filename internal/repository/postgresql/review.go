package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/review"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type reviewRepositoryImpl struct {
	db *database.DB
}

func NewReviewRepository(db *database.DB) review.ReviewRepository {
	return &reviewRepositoryImpl{db: db}
}

const reviewColumns = `id, company_id, cycle_id, engineer_id, status, signed_at, hr_notes, signature_url, created_at, updated_at`

func scanReview(row pgx.Row) (review.Review, error) {
	var r review.Review
	err := row.Scan(
		&r.ID, &r.CompanyID, &r.CycleID, &r.EngineerID, &r.Status,
		&r.SignedAt, &r.HRNotes, &r.SignatureURL,
		&r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func (r *reviewRepositoryImpl) GetByID(ctx context.Context, companyID, id string) (review.Review, error) {
	q := GetQuerier(ctx, r.db)

	rev, err := scanReview(q.QueryRow(ctx, `SELECT `+reviewColumns+` FROM engineer_reviews WHERE company_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return review.Review{}, review.ErrReviewNotFound
		}
		return review.Review{}, fmt.Errorf("failed to get review with id %s: %w", id, err)
	}
	return rev, nil
}

// GetOrCreate implements review.ReviewRepository.
func (r *reviewRepositoryImpl) GetOrCreate(ctx context.Context, companyID, cycleID, engineerID string) (review.Review, error) {
	q := GetQuerier(ctx, r.db)

	// DO UPDATE with a no-op assignment makes RETURNING yield the existing row too
	query := `
		INSERT INTO engineer_reviews (id, company_id, cycle_id, engineer_id, status)
		VALUES ($1, $2, $3, $4, 'pending')
		ON CONFLICT (company_id, cycle_id, engineer_id) DO UPDATE SET cycle_id = EXCLUDED.cycle_id
		RETURNING ` + reviewColumns

	rev, err := scanReview(q.QueryRow(ctx, query, newID(), companyID, cycleID, engineerID))
	if err != nil {
		return review.Review{}, fmt.Errorf("failed to get or create review for cycle %s: %w", cycleID, err)
	}
	return rev, nil
}

func (r *reviewRepositoryImpl) List(ctx context.Context, companyID string, filter review.ReviewFilter) ([]review.Review, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + reviewColumns + ` FROM engineer_reviews WHERE company_id = $1`
	args := []interface{}{companyID}
	if filter.CycleID != "" {
		args = append(args, filter.CycleID)
		query += fmt.Sprintf(" AND cycle_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += ` ORDER BY cycle_id DESC, updated_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []review.Review
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

func (r *reviewRepositoryImpl) Update(ctx context.Context, rev review.Review) (review.Review, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE engineer_reviews
		SET status = $1, signed_at = $2, hr_notes = $3, signature_url = $4, updated_at = NOW()
		WHERE company_id = $5 AND id = $6
		RETURNING ` + reviewColumns

	updated, err := scanReview(q.QueryRow(ctx, query,
		rev.Status, rev.SignedAt, rev.HRNotes, rev.SignatureURL, rev.CompanyID, rev.ID,
	))
	if err != nil {
		if isNoRows(err) {
			return review.Review{}, review.ErrReviewNotFound
		}
		return review.Review{}, fmt.Errorf("failed to update review with id %s: %w", rev.ID, err)
	}
	return updated, nil
}

// EnsureForCycle implements review.ReviewRepository.
func (r *reviewRepositoryImpl) EnsureForCycle(ctx context.Context, cycleID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	// ids come from the database here since one statement covers every engineer
	query := `
		INSERT INTO engineer_reviews (id, company_id, cycle_id, engineer_id, status)
		SELECT gen_random_uuid(), u.company_id, $1, u.id, 'pending'
		FROM users u
		WHERE u.role = 'Engineer'
		ON CONFLICT (company_id, cycle_id, engineer_id) DO NOTHING
	`

	tag, err := q.Exec(ctx, query, cycleID)
	if err != nil {
		return 0, fmt.Errorf("failed to ensure reviews for cycle %s: %w", cycleID, err)
	}
	return tag.RowsAffected(), nil
}
