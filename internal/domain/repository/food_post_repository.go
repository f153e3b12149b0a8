package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"food_share/internal/common"
	"food_share/internal/domain/model"
)

type FoodPostRepository interface {
	Create(ctx context.Context, post *model.FoodPost) error
	FindByID(ctx context.Context, id string) (*model.FoodPost, error)
	List(ctx context.Context) ([]model.FoodPost, error)
	DeleteByDonor(ctx context.Context, tx *sql.Tx, donorID string) (int64, error)
}

// foodPostColumns expects food_posts aliased as fp and the donor as d.
const foodPostColumns = `fp.id, fp.food_name, fp.description, fp.quantity, fp.category, fp.expiry_date,
	fp.longitude, fp.latitude, fp.availability_window, fp.donor_id, d.username, fp.created_at, fp.updated_at`

type pgFoodPostRepository struct {
	db *sql.DB
}

func NewPgFoodPostRepository(db *sql.DB) FoodPostRepository {
	return &pgFoodPostRepository{db: db}
}

// foodPostDest returns scan targets for foodPostColumns; call finish after Scan.
func foodPostDest(p *model.FoodPost) (dest []any, finish func()) {
	var lon, lat float64
	donor := &model.UserSummary{}
	dest = []any{
		&p.ID, &p.FoodName, &p.Description, &p.Quantity, &p.Category, &p.ExpiryDate,
		&lon, &lat, &p.AvailabilityWindow, &p.DonorID, &donor.Username, &p.CreatedAt, &p.UpdatedAt,
	}
	return dest, func() {
		p.Location = model.NewPoint(lon, lat)
		donor.ID = p.DonorID
		p.Donor = donor
	}
}

func (r *pgFoodPostRepository) Create(ctx context.Context, p *model.FoodPost) error {
	query := `INSERT INTO food_posts (id, donor_id, food_name, description, quantity, category, expiry_date,
	              longitude, latitude, availability_window)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.DonorID, p.FoodName, p.Description, p.Quantity, p.Category, p.ExpiryDate,
		p.Location.Longitude(), p.Location.Latitude(), p.AvailabilityWindow,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if common.PgErrorCode(err) == common.PgForeignKeyViolation {
			return common.NewError(common.ErrNotFound, "Donor not found")
		}
		return fmt.Errorf("pgFoodPostRepository.Create: %w", err)
	}
	return nil
}

func (r *pgFoodPostRepository) FindByID(ctx context.Context, id string) (*model.FoodPost, error) {
	query := `SELECT ` + foodPostColumns + `
	          FROM food_posts fp
	          JOIN users d ON d.id = fp.donor_id
	          WHERE fp.id = $1`
	post := &model.FoodPost{}
	dest, finish := foodPostDest(post)
	if err := r.db.QueryRowContext(ctx, query, id).Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.ErrNotFound, "Food post not found")
		}
		return nil, fmt.Errorf("pgFoodPostRepository.FindByID: %w", err)
	}
	finish()
	return post, nil
}

func (r *pgFoodPostRepository) List(ctx context.Context) ([]model.FoodPost, error) {
	query := `SELECT ` + foodPostColumns + `
	          FROM food_posts fp
	          JOIN users d ON d.id = fp.donor_id
	          ORDER BY fp.created_at DESC, fp.id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgFoodPostRepository.List: %w", err)
	}
	defer rows.Close()

	posts := []model.FoodPost{}
	for rows.Next() {
		var p model.FoodPost
		dest, finish := foodPostDest(&p)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("pgFoodPostRepository.List scan: %w", err)
		}
		finish()
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgFoodPostRepository.List rows: %w", err)
	}
	return posts, nil
}

func (r *pgFoodPostRepository) DeleteByDonor(ctx context.Context, tx *sql.Tx, donorID string) (int64, error) {
	res, err := execerFor(r.db, tx).ExecContext(ctx, `DELETE FROM food_posts WHERE donor_id = $1`, donorID)
	if err != nil {
		return 0, fmt.Errorf("pgFoodPostRepository.DeleteByDonor: %w", err)
	}
	return res.RowsAffected()
}
