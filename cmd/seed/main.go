package main

import (
	"context"
	"errors"
	"time"

	"food_share/internal/common"
	"food_share/internal/common/security"
	"food_share/internal/domain/model"
	"food_share/internal/domain/repository"
	"food_share/internal/platform/config"
	"food_share/internal/platform/database"
	"food_share/internal/platform/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type seedUser struct {
	Username string
	Email    string
	Password string
	Role     model.Role
}

type seedPost struct {
	FoodName           string
	Description        string
	Quantity           int
	Category           model.FoodCategory
	Lon, Lat           float64
	AvailabilityWindow string
	ExpiresIn          time.Duration
}

var sampleUsers = []seedUser{
	{Username: "john_doe", Email: "john@example.com", Password: "password123", Role: model.RoleDonor},
	{Username: "emma_smith", Email: "emma@example.com", Password: "mypassword", Role: model.RoleRecipient},
}

// Sample posts belong to the first Donor in sampleUsers.
var samplePosts = []seedPost{
	{
		FoodName:           "Leftover Pasta",
		Description:        "Freshly cooked pasta, enough for three people.",
		Quantity:           3,
		Category:           model.CategoryHomeCooked,
		Lon:                -73.935242,
		Lat:                40.730610,
		AvailabilityWindow: "10:00 AM - 5:00 PM",
		ExpiresIn:          24 * time.Hour,
	},
	{
		FoodName:           "Packaged Sandwiches",
		Description:        "Sealed sandwiches from a catering event.",
		Quantity:           5,
		Category:           model.CategoryPackaged,
		Lon:                -73.985130,
		Lat:                40.758896,
		AvailabilityWindow: "9:00 AM - 12:00 PM",
		ExpiresIn:          8 * time.Hour,
	},
}

func main() {
	config.Load()
	logger.Init(config.AppConfig)
	defer logger.Sync()

	database.Connect()
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := database.EnsureSchema(ctx, database.DB); err != nil {
		logger.Log.Fatal("Schema bootstrap failed", zap.Error(err))
	}

	users := repository.NewPgUserRepository(database.DB)
	posts := repository.NewPgFoodPostRepository(database.DB)

	admin := seedUser{
		Username: config.AppConfig.SeedAdminUsername,
		Email:    config.AppConfig.SeedAdminEmail,
		Password: config.AppConfig.SeedAdminPassword,
		Role:     model.RoleAdmin,
	}
	if err := seed(ctx, users, posts, admin, time.Now().UTC()); err != nil {
		logger.Log.Fatal("Seeding failed", zap.Error(err))
	}
	logger.Log.Info("Seeding complete")
}

// seed creates the admin and the sample data. Users that already exist are left alone,
// and sample posts are only created for a donor that was created in this run.
func seed(ctx context.Context, users repository.UserRepository, posts repository.FoodPostRepository, admin seedUser, now time.Time) error {
	if _, _, err := ensureUser(ctx, users, admin); err != nil {
		return err
	}

	var donor *model.User
	for _, su := range sampleUsers {
		u, created, err := ensureUser(ctx, users, su)
		if err != nil {
			return err
		}
		if created && donor == nil && u.Role == model.RoleDonor {
			donor = u
		}
	}
	if donor == nil {
		logger.Log.Info("Sample donor already present, skipping food posts")
		return nil
	}

	for _, sp := range samplePosts {
		post := &model.FoodPost{
			ID:                 uuid.NewString(),
			FoodName:           sp.FoodName,
			Description:        sp.Description,
			Quantity:           sp.Quantity,
			Category:           sp.Category,
			ExpiryDate:         now.Add(sp.ExpiresIn),
			Location:           model.NewPoint(sp.Lon, sp.Lat),
			AvailabilityWindow: sp.AvailabilityWindow,
			DonorID:            donor.ID,
		}
		if err := posts.Create(ctx, post); err != nil {
			return err
		}
		logger.Log.Info("Seeded food post", zap.String("food_name", post.FoodName), zap.String("id", post.ID))
	}
	return nil
}

func ensureUser(ctx context.Context, users repository.UserRepository, su seedUser) (*model.User, bool, error) {
	existing, err := users.FindByUsername(ctx, su.Username)
	if err == nil {
		logger.Log.Info("User already exists, skipping", zap.String("username", su.Username))
		return existing, false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, false, err
	}

	hashed, err := security.HashPassword(su.Password)
	if err != nil {
		return nil, false, err
	}
	u := &model.User{
		ID:             uuid.NewString(),
		Username:       su.Username,
		Email:          su.Email,
		HashedPassword: hashed,
		Role:           su.Role,
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, false, err
	}
	logger.Log.Info("Seeded user", zap.String("username", u.Username), zap.String("role", string(u.Role)))
	return u, true, nil
}
