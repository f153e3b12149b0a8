package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"food_share/internal/common/security"
	"food_share/internal/domain/model"
	"food_share/internal/domain/repository/repotest"
	"food_share/internal/platform/config"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fixture wires every service over a single in-memory store.
type fixture struct {
	store *repotest.Store
	auth  *AuthService
	posts *FoodPostService
	claim *ClaimService
	admin *AdminService
	cache *mockCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: []byte("test-secret"), JWTExp: time.Hour}
	security.InitJWT()

	store := repotest.NewStore()
	var mu sync.Mutex
	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Second)
		return clock
	}
	store.Now = tick

	cache := &mockCache{}
	claims := NewClaimService(store.Claims(), store.FoodPosts())
	claims.now = tick

	f := &fixture{
		store: store,
		auth:  NewAuthService(store.Users()),
		posts: NewFoodPostService(store.FoodPosts(), cache),
		claim: claims,
		admin: NewAdminService(claims, store.Users(), store.FoodPosts(), store.Claims(), store.Transactor(), cache),
		cache: cache,
	}
	f.posts.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

func (f *fixture) signup(t *testing.T, username string, role model.Role) *model.User {
	t.Helper()
	resp, err := f.auth.Signup(context.Background(), SignupRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "pw-" + username,
		Role:     string(role),
	})
	require.NoError(t, err)
	return resp.User
}

func (f *fixture) post(t *testing.T, donorID, name string) *model.FoodPost {
	t.Helper()
	f.cache.On("Invalidate", mock.Anything).Return().Maybe()
	p, err := f.posts.CreateFoodPost(context.Background(), donorID, validPostRequest(name))
	require.NoError(t, err)
	return p
}

func validPostRequest(name string) CreateFoodPostRequest {
	lon, lat := -73.935242, 40.730610
	return CreateFoodPostRequest{
		FoodName:           name,
		Description:        "Fresh",
		Quantity:           2,
		Category:           "packaged",
		ExpiryDate:         time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC),
		Location:           &LocationInput{Type: "Point", Coordinates: []*float64{&lon, &lat}},
		AvailabilityWindow: "9:00 AM - 12:00 PM",
	}
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetList(ctx context.Context) ([]model.FoodPost, bool) {
	args := m.Called(ctx)
	posts, _ := args.Get(0).([]model.FoodPost)
	return posts, args.Bool(1)
}

func (m *mockCache) SetList(ctx context.Context, posts []model.FoodPost) {
	m.Called(ctx, posts)
}

func (m *mockCache) Invalidate(ctx context.Context) {
	m.Called(ctx)
}
