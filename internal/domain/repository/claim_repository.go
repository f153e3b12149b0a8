package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"food_share/internal/common"
	"food_share/internal/domain/model"
)

type ClaimRepository interface {
	// Create inserts a pending claim. The (food_post_id, recipient_id) unique
	// index makes a second claim for the same pair fail with ErrConflict.
	Create(ctx context.Context, claim *model.Claim) error
	FindByID(ctx context.Context, id string) (*model.Claim, error)
	ListByRecipient(ctx context.Context, recipientID string) ([]model.Claim, error)
	ListAll(ctx context.Context) ([]model.Claim, error)
	// UpdateStatus moves a claim from one status to another only if it is still in from.
	UpdateStatus(ctx context.Context, id string, from, to model.ClaimStatus) (time.Time, error)
	// DeleteForUser removes claims made by the user and claims on the user's food posts.
	DeleteForUser(ctx context.Context, tx *sql.Tx, userID string) (int64, error)
}

const (
	claimColumns = `c.id, c.food_post_id, c.recipient_id, c.status, c.requested_at, c.updated_at, ` + foodPostColumns +
		`, u.username, u.email, u.role`
	claimJoins = `FROM claims c
	          JOIN food_posts fp ON fp.id = c.food_post_id
	          JOIN users d ON d.id = fp.donor_id
	          JOIN users u ON u.id = c.recipient_id`
	claimOrder = `ORDER BY c.requested_at DESC, c.id DESC`
)

const (
	msgDuplicateClaim    = "You have already requested this food post"
	msgFoodPostNotFound  = "Food post not found"
	msgClaimNotFound     = "Claim not found"
	msgClaimStatusRacing = "Claim status was changed by another request"
	msgRecipientGone     = "User no longer exists"
)

// Foreign keys on claims, named in schema.sql.
const (
	fkClaimFoodPost  = "claims_food_post_id_fkey"
	fkClaimRecipient = "claims_recipient_id_fkey"
)

type pgClaimRepository struct {
	db *sql.DB
}

func NewPgClaimRepository(db *sql.DB) ClaimRepository {
	return &pgClaimRepository{db: db}
}

func scanClaim(row rowScanner, withRecipient bool) (*model.Claim, error) {
	c := &model.Claim{FoodPost: &model.FoodPost{}}
	recipient := &model.UserSummary{}
	postDest, finish := foodPostDest(c.FoodPost)

	dest := append([]any{&c.ID, &c.FoodPostID, &c.RecipientID, &c.Status, &c.RequestedAt, &c.UpdatedAt}, postDest...)
	dest = append(dest, &recipient.Username, &recipient.Email, &recipient.Role)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	finish()
	if withRecipient {
		recipient.ID = c.RecipientID
		c.Recipient = recipient
	}
	return c, nil
}

func (r *pgClaimRepository) Create(ctx context.Context, c *model.Claim) error {
	query := `INSERT INTO claims (id, food_post_id, recipient_id, status, requested_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.FoodPostID, c.RecipientID, c.Status, c.RequestedAt, c.UpdatedAt)
	if err != nil {
		switch common.PgErrorCode(err) {
		case common.PgUniqueViolation:
			return common.NewError(common.ErrConflict, msgDuplicateClaim)
		case common.PgForeignKeyViolation:
			switch common.PgConstraintName(err) {
			case fkClaimFoodPost:
				return common.NewError(common.ErrNotFound, msgFoodPostNotFound)
			case fkClaimRecipient:
				return common.NewError(common.ErrUnauthorized, msgRecipientGone)
			}
		}
		return fmt.Errorf("pgClaimRepository.Create: %w", err)
	}
	return nil
}

func (r *pgClaimRepository) FindByID(ctx context.Context, id string) (*model.Claim, error) {
	query := `SELECT ` + claimColumns + ` ` + claimJoins + ` WHERE c.id = $1`
	c, err := scanClaim(r.db.QueryRowContext(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.ErrNotFound, msgClaimNotFound)
		}
		return nil, fmt.Errorf("pgClaimRepository.FindByID: %w", err)
	}
	return c, nil
}

func (r *pgClaimRepository) list(ctx context.Context, op, query string, withRecipient bool, args ...any) ([]model.Claim, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgClaimRepository.%s: %w", op, err)
	}
	defer rows.Close()

	claims := []model.Claim{}
	for rows.Next() {
		c, err := scanClaim(rows, withRecipient)
		if err != nil {
			return nil, fmt.Errorf("pgClaimRepository.%s scan: %w", op, err)
		}
		claims = append(claims, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgClaimRepository.%s rows: %w", op, err)
	}
	return claims, nil
}

func (r *pgClaimRepository) ListByRecipient(ctx context.Context, recipientID string) ([]model.Claim, error) {
	query := `SELECT ` + claimColumns + ` ` + claimJoins + ` WHERE c.recipient_id = $1 ` + claimOrder
	return r.list(ctx, "ListByRecipient", query, false, recipientID)
}

func (r *pgClaimRepository) ListAll(ctx context.Context) ([]model.Claim, error) {
	query := `SELECT ` + claimColumns + ` ` + claimJoins + ` ` + claimOrder
	return r.list(ctx, "ListAll", query, true)
}

func (r *pgClaimRepository) UpdateStatus(ctx context.Context, id string, from, to model.ClaimStatus) (time.Time, error) {
	query := `UPDATE claims SET status = $1, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $2 AND status = $3
	          RETURNING updated_at`
	var updatedAt time.Time
	if err := r.db.QueryRowContext(ctx, query, to, id, from).Scan(&updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, common.NewError(common.ErrConflict, msgClaimStatusRacing)
		}
		return time.Time{}, fmt.Errorf("pgClaimRepository.UpdateStatus: %w", err)
	}
	return updatedAt, nil
}

func (r *pgClaimRepository) DeleteForUser(ctx context.Context, tx *sql.Tx, userID string) (int64, error) {
	query := `DELETE FROM claims
	          WHERE recipient_id = $1
	             OR food_post_id IN (SELECT id FROM food_posts WHERE donor_id = $1)`
	res, err := execerFor(r.db, tx).ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("pgClaimRepository.DeleteForUser: %w", err)
	}
	return res.RowsAffected()
}
