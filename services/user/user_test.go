package user

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	userRepo "sailsmart/database/repository/user"
	"sailsmart/models"
	"sailsmart/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUsers struct {
	mu     sync.Mutex
	byID   map[string]models.User
	tokens map[string]string
	reads  int
	down   bool
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]models.User{}, tokens: map[string]string{}}
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.down {
		return nil, errors.New("mongo unreachable")
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	u.PasswordHash = ""
	return &u, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetTokenHash(ctx context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[id], nil
}

func (m *memUsers) Create(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return userRepo.ErrEmailTaken
		}
	}
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) Update(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.byID[u.ID]
	u.PasswordHash = stored.PasswordHash
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) SetTokenHash(ctx context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[id] = hash
	return nil
}

func newTestService(t *testing.T) (*DefaultUserService, *memUsers, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := newMemUsers()
	svc := NewUserService(repo, client, NewMemoryProfileCache(time.Minute), 0)
	return svc, repo, mr
}

func TestSignUpAndSignIn(t *testing.T) {
	svc, repo, mr := newTestService(t)
	ctx := context.Background()

	u, token, err := svc.SignUp(ctx, models.SignUpRequest{Email: "Ana@Example.com", Password: "Passw0rdx", FullName: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Empty(t, u.PasswordHash)

	id, err := utils.ExtractIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
	assert.Equal(t, utils.HashToken(token), repo.tokens[u.ID])
	cached, err := mr.Get(utils.AuthCachePrefix + u.ID)
	require.NoError(t, err)
	assert.Equal(t, utils.HashToken(token), cached)

	_, _, err = svc.SignUp(ctx, models.SignUpRequest{Email: "ana@example.com", Password: "Passw0rdx"})
	assert.Equal(t, utils.KindConflict, utils.KindOf(err))

	signedIn, token2, err := svc.SignIn(ctx, models.SignInRequest{Email: "ANA@example.com", Password: "Passw0rdx"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, signedIn.ID)
	assert.NotEmpty(t, token2)

	_, _, err = svc.SignIn(ctx, models.SignInRequest{Email: "ana@example.com", Password: "wrong"})
	assert.Equal(t, utils.KindUnauthenticated, utils.KindOf(err))
	_, _, err = svc.SignIn(ctx, models.SignInRequest{Email: "nobody@example.com", Password: "Passw0rdx"})
	assert.Equal(t, utils.KindUnauthenticated, utils.KindOf(err))
}

func TestSignUpRejectsWeakPassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	for _, pw := range []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"} {
		_, _, err := svc.SignUp(context.Background(), models.SignUpRequest{Email: "x@example.com", Password: pw})
		assert.Equal(t, utils.KindValidation, utils.KindOf(err), pw)
	}
}

func seedUser(repo *memUsers) models.User {
	u := models.User{ID: "u1", Email: "u1@example.com", FullName: "Sam"}
	repo.byID[u.ID] = u
	return u
}

func TestGetProfileUsesCache(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedUser(repo)
	ctx := context.Background()

	_, err := svc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	_, err = svc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.reads)

	_, err = svc.GetProfile(ctx, "ghost")
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}

func TestGetProfileFallsBackToStaleEntry(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedUser(repo)
	mem := NewMemoryProfileCache(time.Minute)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mem.now = func() time.Time { return clock }
	svc.Profiles = mem
	ctx := context.Background()

	_, err := svc.GetProfile(ctx, "u1")
	require.NoError(t, err)

	clock = clock.Add(2 * time.Minute)
	repo.down = true
	u, err := svc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Sam", u.FullName)
	assert.Equal(t, 2, repo.reads)
}

func TestUpdateProfile(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedUser(repo)
	ctx := context.Background()
	lvl := 3
	roles := []models.UserRole{models.RoleCrew, models.RoleCrew}
	risks := []models.RiskLevel{models.RiskCoastal, models.RiskOffshore}
	skills := []models.Skill{{Name: " Navigation "}}

	_, err := svc.GetProfile(ctx, "u1")
	require.NoError(t, err)

	u, err := svc.UpdateProfile(ctx, "u1", models.ProfileUpdateRequest{
		Roles:           &roles,
		ExperienceLevel: &lvl,
		RiskLevels:      &risks,
		Skills:          &skills,
		Consents:        &models.ConsentFlags{TermsAccepted: true, AIProcessing: true},
	})
	require.NoError(t, err)
	assert.Equal(t, []models.UserRole{models.RoleCrew}, u.Roles)
	assert.Equal(t, "Navigation", u.Skills[0].Name)
	assert.NotNil(t, u.Consents.ConsentRecordedAt)
	assert.True(t, u.ProfileComplete())

	fresh, err := svc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, fresh.ExperienceLevel)
}

func TestUpdateProfileIsReadableImmediately(t *testing.T) {
	svc, repo, _ := newTestService(t)
	u := seedUser(repo)
	u.Consents = models.ConsentFlags{TermsAccepted: true, AIProcessing: true}
	repo.byID[u.ID] = u
	svc.Invalidator = NewInvalidator(svc.Profiles, time.Hour)
	t.Cleanup(svc.Invalidator.Stop)
	ctx := context.Background()

	warm, err := svc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	require.True(t, warm.Consents.AIProcessing)

	skills := []models.Skill{{Name: "Rigging"}}
	_, err = svc.UpdateProfile(ctx, "u1", models.ProfileUpdateRequest{
		Consents: &models.ConsentFlags{TermsAccepted: true, AIProcessing: false},
		Skills:   &skills,
	})
	require.NoError(t, err)

	got, err := svc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, got.Consents.AIProcessing)
	require.Len(t, got.Skills, 1)
	assert.Equal(t, "Rigging", got.Skills[0].Name)
}

func TestUpdateProfileValidation(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedUser(repo)
	tooHigh := 5
	badRisk := []models.RiskLevel{"Pond"}
	noRoles := []models.UserRole{}
	blank := "  "

	cases := []models.ProfileUpdateRequest{
		{ExperienceLevel: &tooHigh},
		{RiskLevels: &badRisk},
		{Roles: &noRoles},
		{FullName: &blank},
		{Skills: &[]models.Skill{{Name: ""}}},
	}
	for _, req := range cases {
		_, err := svc.UpdateProfile(context.Background(), "u1", req)
		assert.Equal(t, utils.KindValidation, utils.KindOf(err))
	}
}

type countingCache struct {
	mu          sync.Mutex
	invalidated map[string]int
}

func (c *countingCache) Get(ctx context.Context, key string) (*models.User, bool) { return nil, false }
func (c *countingCache) Put(ctx context.Context, key string, u *models.User)      {}
func (c *countingCache) Invalidate(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated[key]++
}

func (c *countingCache) count(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidated[key]
}

func TestInvalidatorCoalescesBursts(t *testing.T) {
	cache := &countingCache{invalidated: map[string]int{}}
	inv := NewInvalidator(cache, 20*time.Millisecond)

	for i := 0; i < 10; i++ {
		inv.Schedule("u1")
	}
	inv.Schedule("u2")
	assert.Equal(t, 2, inv.Pending())
	assert.Zero(t, cache.count("u1"))

	assert.Eventually(t, func() bool { return cache.count("u1") == 1 && cache.count("u2") == 1 }, time.Second, 5*time.Millisecond)
	assert.Zero(t, inv.Pending())

	inv.Schedule("u1")
	assert.Eventually(t, func() bool { return cache.count("u1") == 2 }, time.Second, 5*time.Millisecond)
}

func TestInvalidatorFlushAndStop(t *testing.T) {
	cache := &countingCache{invalidated: map[string]int{}}
	inv := NewInvalidator(cache, time.Hour)

	inv.Schedule("u1")
	inv.Flush()
	assert.Equal(t, 1, cache.count("u1"))

	inv.Schedule("u2")
	inv.Stop()
	assert.Equal(t, 1, cache.count("u2"))
	inv.Schedule("u3")
	assert.Zero(t, inv.Pending())
}

func TestRedisProfileCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	cache := NewRedisProfileCache(client, time.Minute)
	ctx := context.Background()

	_, fresh := cache.Get(ctx, "u1")
	assert.False(t, fresh)

	cache.Put(ctx, "u1", &models.User{ID: "u1", FullName: "Sam"})
	u, fresh := cache.Get(ctx, "u1")
	require.True(t, fresh)
	assert.Equal(t, "Sam", u.FullName)

	mr.FastForward(2 * time.Minute)
	u, fresh = cache.Get(ctx, "u1")
	assert.Nil(t, u)
	assert.False(t, fresh)

	cache.Put(ctx, "u1", &models.User{ID: "u1"})
	cache.Invalidate(ctx, "u1")
	_, fresh = cache.Get(ctx, "u1")
	assert.False(t, fresh)
}
