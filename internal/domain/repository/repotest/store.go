// Package repotest provides an in-memory implementation of the repository
// interfaces for service and handler tests. It enforces the same uniqueness
// and foreign-key rules as the PostgreSQL schema.
package repotest

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"food_share/internal/common"
	"food_share/internal/domain/model"
	"food_share/internal/domain/repository"
)

type Store struct {
	mu     sync.Mutex
	users  map[string]model.User
	posts  map[string]model.FoodPost
	claims map[string]model.Claim
	// Now is the clock used for created/updated timestamps.
	Now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:  map[string]model.User{},
		posts:  map[string]model.FoodPost{},
		claims: map[string]model.Claim{},
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Users() repository.UserRepository         { return userRepo{s} }
func (s *Store) FoodPosts() repository.FoodPostRepository { return postRepo{s} }
func (s *Store) Claims() repository.ClaimRepository       { return claimRepo{s} }
func (s *Store) Transactor() repository.Transactor        { return txRunner{s} }

// ClaimCount returns the number of stored claims.
func (s *Store) ClaimCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.claims)
}

// PostCount returns the number of stored food posts.
func (s *Store) PostCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts)
}

type txRunner struct{ s *Store }

// WithinTx runs fn without isolation; the fake has no rollback.
func (t txRunner) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Username == u.Username || strings.EqualFold(existing.Email, u.Email) {
			return common.NewError(common.ErrConflict, "User already exists")
		}
	}
	now := r.s.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) find(match func(model.User) bool) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if match(u) {
			out := u
			return &out, nil
		}
	}
	return nil, common.NewError(common.ErrNotFound, "User not found")
}

func (r userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Email == email })
}

func (r userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Username == username })
}

func (r userRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.ID == id })
}

func (r userRepo) List(ctx context.Context) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.User{}
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r userRepo) UpdateRole(ctx context.Context, id string, role model.Role) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.NewError(common.ErrNotFound, "User not found")
	}
	u.Role = role
	u.UpdatedAt = r.s.Now()
	r.s.users[id] = u
	return &u, nil
}

func (r userRepo) Delete(ctx context.Context, tx *sql.Tx, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return common.NewError(common.ErrNotFound, "User not found")
	}
	delete(r.s.users, id)
	return nil
}

type postRepo struct{ s *Store }

// resolve fills the donor summary; callers hold the lock.
func (r postRepo) resolve(p model.FoodPost) model.FoodPost {
	if d, ok := r.s.users[p.DonorID]; ok {
		p.Donor = &model.UserSummary{ID: d.ID, Username: d.Username}
	}
	return p
}

func (r postRepo) Create(ctx context.Context, p *model.FoodPost) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[p.DonorID]; !ok {
		return common.NewError(common.ErrNotFound, "Donor not found")
	}
	now := r.s.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.posts[p.ID] = *p
	return nil
}

func (r postRepo) FindByID(ctx context.Context, id string) (*model.FoodPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, common.NewError(common.ErrNotFound, "Food post not found")
	}
	p = r.resolve(p)
	return &p, nil
}

func (r postRepo) List(ctx context.Context) ([]model.FoodPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.FoodPost{}
	for _, p := range r.s.posts {
		out = append(out, r.resolve(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r postRepo) DeleteByDonor(ctx context.Context, tx *sql.Tx, donorID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, p := range r.s.posts {
		if p.DonorID == donorID {
			delete(r.s.posts, id)
			n++
		}
	}
	return n, nil
}

type claimRepo struct{ s *Store }

// resolve fills the food post and, optionally, the recipient; callers hold the lock.
func (r claimRepo) resolve(c model.Claim, withRecipient bool) model.Claim {
	if p, ok := r.s.posts[c.FoodPostID]; ok {
		p = postRepo(r).resolve(p)
		c.FoodPost = &p
	}
	if u, ok := r.s.users[c.RecipientID]; ok && withRecipient {
		c.Recipient = &model.UserSummary{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
	}
	return c
}

func (r claimRepo) Create(ctx context.Context, c *model.Claim) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[c.FoodPostID]; !ok {
		return common.NewError(common.ErrNotFound, "Food post not found")
	}
	if _, ok := r.s.users[c.RecipientID]; !ok {
		return common.NewError(common.ErrUnauthorized, "User no longer exists")
	}
	for _, existing := range r.s.claims {
		if existing.FoodPostID == c.FoodPostID && existing.RecipientID == c.RecipientID {
			return common.NewError(common.ErrConflict, "You have already requested this food post")
		}
	}
	r.s.claims[c.ID] = *c
	return nil
}

func (r claimRepo) FindByID(ctx context.Context, id string) (*model.Claim, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.claims[id]
	if !ok {
		return nil, common.NewError(common.ErrNotFound, "Claim not found")
	}
	c = r.resolve(c, true)
	return &c, nil
}

func (r claimRepo) list(match func(model.Claim) bool, withRecipient bool) []model.Claim {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Claim{}
	for _, c := range r.s.claims {
		if match(c) {
			out = append(out, r.resolve(c, withRecipient))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RequestedAt.Equal(out[j].RequestedAt) {
			return out[i].RequestedAt.After(out[j].RequestedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r claimRepo) ListByRecipient(ctx context.Context, recipientID string) ([]model.Claim, error) {
	return r.list(func(c model.Claim) bool { return c.RecipientID == recipientID }, false), nil
}

func (r claimRepo) ListAll(ctx context.Context) ([]model.Claim, error) {
	return r.list(func(model.Claim) bool { return true }, true), nil
}

func (r claimRepo) UpdateStatus(ctx context.Context, id string, from, to model.ClaimStatus) (time.Time, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.claims[id]
	if !ok || c.Status != from {
		return time.Time{}, common.NewError(common.ErrConflict, "Claim status was changed by another request")
	}
	c.Status = to
	c.UpdatedAt = r.s.Now()
	r.s.claims[id] = c
	return c.UpdatedAt, nil
}

func (r claimRepo) DeleteForUser(ctx context.Context, tx *sql.Tx, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, c := range r.s.claims {
		donated := false
		if p, ok := r.s.posts[c.FoodPostID]; ok && p.DonorID == userID {
			donated = true
		}
		if c.RecipientID == userID || donated {
			delete(r.s.claims, id)
			n++
		}
	}
	return n, nil
}
