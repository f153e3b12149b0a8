package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"food_share/internal/common"
	"food_share/internal/domain/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var foodPostRowColumns = []string{
	"id", "food_name", "description", "quantity", "category", "expiry_date",
	"longitude", "latitude", "availability_window", "donor_id", "username", "created_at", "updated_at",
}

func TestFoodPostRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgFoodPostRepository(db)
	now := time.Now()
	post := &model.FoodPost{
		ID: "p1", DonorID: "bob-id", FoodName: "Bread", Quantity: 2, Category: model.CategoryPackaged,
		ExpiryDate: now.Add(time.Hour), Location: model.NewPoint(-73.98, 40.75), AvailabilityWindow: "9-5",
	}

	mock.ExpectQuery(`INSERT INTO food_posts`).
		WithArgs("p1", "bob-id", "Bread", "", 2, model.CategoryPackaged, post.ExpiryDate, -73.98, 40.75, "9-5").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.Create(context.Background(), post))
	assert.Equal(t, now, post.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFoodPostRepository_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgFoodPostRepository(db)
	now := time.Now()

	mock.ExpectQuery(`FROM food_posts fp JOIN users d ON d.id = fp.donor_id ORDER BY fp.created_at DESC, fp.id DESC`).
		WillReturnRows(sqlmock.NewRows(foodPostRowColumns).
			AddRow("p2", "Packaged Sandwiches", "", int64(5), "packaged", now.Add(8*time.Hour), -73.985130, 40.758896, "9:00 AM - 12:00 PM", "john-id", "john_doe", now, now).
			AddRow("p1", "Leftover Pasta", "", int64(3), "home-cooked", now.Add(24*time.Hour), -73.935242, 40.730610, "10:00 AM - 5:00 PM", "john-id", "john_doe", now.Add(-time.Minute), now))

	posts, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Packaged Sandwiches", posts[0].FoodName)
	assert.Equal(t, "Point", posts[0].Location.Type)
	assert.Equal(t, 40.758896, posts[0].Location.Latitude())
	assert.Equal(t, &model.UserSummary{ID: "john-id", Username: "john_doe"}, posts[1].Donor)
	assert.Equal(t, model.CategoryHomeCooked, posts[1].Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFoodPostRepository_FindByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgFoodPostRepository(db)

	mock.ExpectQuery(`WHERE fp.id = \$1`).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.Equal(t, "Food post not found", common.UserMessage(err))
}

func TestFoodPostRepository_DeleteByDonor(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgFoodPostRepository(db)

	mock.ExpectExec(`DELETE FROM food_posts WHERE donor_id = \$1`).WithArgs("john-id").WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.DeleteByDonor(context.Background(), nil, "john-id")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
