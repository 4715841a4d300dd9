package impl

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"erpcore/internal/domain/authz"
	"erpcore/internal/domain/entity"
	domainerrors "erpcore/internal/domain/errors"
	"erpcore/internal/domain/repository"
	"erpcore/internal/domain/service"
)

// fakeStore is an in-memory stand-in for the persistence layer. It acts as
// both TransactionManager and RepositoryFactory, so the services under test
// run against real interface plumbing with map-backed storage.
type fakeStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*entity.User
	companies map[uuid.UUID]*entity.Company
	tokens    map[string]*entity.RefreshToken

	// staleTokenReads makes FindActiveByTokenID ignore the revoked flag,
	// simulating a second caller whose read happened before the winner's
	// revoke committed.
	staleTokenReads bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[uuid.UUID]*entity.User),
		companies: make(map[uuid.UUID]*entity.Company),
		tokens:    make(map[string]*entity.RefreshToken),
	}
}

func (s *fakeStore) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(s)
}

func (s *fakeStore) NewUserRepository() repository.UserRepository {
	return &fakeUserRepo{store: s}
}

func (s *fakeStore) NewCompanyRepository() repository.CompanyRepository {
	return &fakeCompanyRepo{store: s}
}

func (s *fakeStore) NewRefreshTokenRepository() repository.RefreshTokenRepository {
	return &fakeRefreshTokenRepo{store: s}
}

func (s *fakeStore) addUser(user *entity.User) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.users[user.ID] = user

	return user
}

func (s *fakeStore) addCompany(company *entity.Company) *entity.Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	s.companies[company.ID] = company

	return company
}

func (s *fakeStore) activeTokensFor(userID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, token := range s.tokens {
		if token.UserID == userID && !token.IsRevoked() {
			count++
		}
	}

	return count
}

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (r *fakeUserRepo) FindByPhone(_ context.Context, phoneNumber string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.PhoneNumber == phoneNumber {
			return user, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByPhone(_ context.Context, phoneNumber string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.PhoneNumber == phoneNumber {
			return true, nil
		}
	}

	return false, nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return int64(len(r.store.users)), nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.store.addUser(user)

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	r.store.users[user.ID] = user

	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.LastLoginAt = &at

	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.PasswordHash = passwordHash

	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.store.users, id)

	return nil
}

func (r *fakeUserRepo) List(_ context.Context, scope *authz.CompanyContext, offset, limit int) ([]*entity.User, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var companyID *uuid.UUID
	if scope != nil && scope.ShouldFilter() {
		companyID = scope.CompanyID()
	}
	var matched []*entity.User
	for _, user := range r.store.users {
		if companyID != nil && (user.CompanyID == nil || *user.CompanyID != *companyID) {
			continue
		}
		matched = append(matched, user)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	return matched[offset:end], total, nil
}

func (r *fakeUserRepo) CountByCompany(_ context.Context, companyID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, user := range r.store.users {
		if user.CompanyID != nil && *user.CompanyID == companyID {
			count++
		}
	}

	return count, nil
}

type fakeCompanyRepo struct {
	store *fakeStore
}

func (r *fakeCompanyRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Company, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	company, ok := r.store.companies[id]
	if !ok {
		return nil, repository.ErrCompanyNotFound
	}

	return company, nil
}

func (r *fakeCompanyRepo) FindByName(_ context.Context, name string) (*entity.Company, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, company := range r.store.companies {
		if company.Name == name {
			return company, nil
		}
	}

	return nil, repository.ErrCompanyNotFound
}

func (r *fakeCompanyRepo) Create(_ context.Context, company *entity.Company) error {
	r.store.addCompany(company)

	return nil
}

func (r *fakeCompanyRepo) Update(_ context.Context, company *entity.Company) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.companies[company.ID]; !ok {
		return repository.ErrCompanyNotFound
	}
	r.store.companies[company.ID] = company

	return nil
}

func (r *fakeCompanyRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.companies[id]; !ok {
		return repository.ErrCompanyNotFound
	}
	delete(r.store.companies, id)

	return nil
}

func (r *fakeCompanyRepo) List(_ context.Context, offset, limit int) ([]*entity.Company, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var all []*entity.Company
	for _, company := range r.store.companies {
		all = append(all, company)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	return all[offset:end], total, nil
}

type fakeRefreshTokenRepo struct {
	store *fakeStore
}

func (r *fakeRefreshTokenRepo) Create(_ context.Context, token *entity.RefreshToken) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	r.store.tokens[token.TokenID] = token

	return nil
}

func (r *fakeRefreshTokenRepo) FindActiveByTokenID(_ context.Context, tokenID string) (*entity.RefreshToken, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	token, ok := r.store.tokens[tokenID]
	if !ok {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if !r.store.staleTokenReads && token.IsRevoked() {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if token.IsExpired(time.Now()) {
		return nil, repository.ErrRefreshTokenNotFound
	}

	return token, nil
}

func (r *fakeRefreshTokenRepo) Revoke(_ context.Context, tokenID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	token, ok := r.store.tokens[tokenID]
	if !ok || token.IsRevoked() {
		return repository.ErrRefreshTokenAlreadyRevoked
	}
	now := time.Now()
	token.RevokedAt = &now

	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAllForUser(_ context.Context, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := time.Now()
	for _, token := range r.store.tokens {
		if token.UserID == userID && !token.IsRevoked() {
			token.RevokedAt = &now
		}
	}

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteAllForUser(_ context.Context, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, token := range r.store.tokens {
		if token.UserID == userID {
			delete(r.store.tokens, id)
		}
	}

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := time.Now()
	var deleted int64
	for id, token := range r.store.tokens {
		if token.IsExpired(now) {
			delete(r.store.tokens, id)
			deleted++
		}
	}

	return deleted, nil
}

// fakeHasher trades bcrypt for a transparent prefix scheme so tests can
// assert on stored hashes.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

func (fakeHasher) ValidateStrength(password string) error {
	if len(password) < 8 {
		return domainerrors.NewPasswordTooWeakError("must be at least 8 characters")
	}

	return nil
}

// fakeTokenService issues sequence-numbered opaque tokens and validates only
// what it issued.
type fakeTokenService struct {
	mu         sync.Mutex
	seq        int
	access     map[string]*service.AccessClaims
	refresh    map[string]*service.RefreshClaims
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func newFakeTokenService() *fakeTokenService {
	return &fakeTokenService{
		access:     make(map[string]*service.AccessClaims),
		refresh:    make(map[string]*service.RefreshClaims),
		accessTTL:  15 * time.Minute,
		refreshTTL: 7 * 24 * time.Hour,
	}
}

func (f *fakeTokenService) GenerateAccessToken(user *entity.User) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	token := fmt.Sprintf("access-%d", f.seq)
	f.access[token] = &service.AccessClaims{
		UserID:      user.ID,
		PhoneNumber: user.PhoneNumber,
		IsActive:    user.IsActive,
		CompanyID:   user.CompanyID,
		Role:        user.Role.String(),
		Type:        service.TokenTypeAccess,
	}

	return token, nil
}

func (f *fakeTokenService) GenerateRefreshToken(userID uuid.UUID) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	token := fmt.Sprintf("refresh-%d", f.seq)
	tokenID := fmt.Sprintf("tid-%d", f.seq)
	f.refresh[token] = &service.RefreshClaims{
		UserID:  userID,
		TokenID: tokenID,
		Type:    service.TokenTypeRefresh,
	}

	return token, tokenID, nil
}

func (f *fakeTokenService) ValidateAccessToken(tokenString string) (*service.AccessClaims, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	claims, ok := f.access[tokenString]
	if !ok {
		return nil, domainerrors.NewInvalidTokenError("unknown access token")
	}

	return claims, nil
}

func (f *fakeTokenService) ValidateRefreshToken(tokenString string) (*service.RefreshClaims, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	claims, ok := f.refresh[tokenString]
	if !ok {
		return nil, domainerrors.NewInvalidTokenError("unknown refresh token")
	}

	return claims, nil
}

func (f *fakeTokenService) HashToken(token string) string {
	return "digest:" + token
}

func (f *fakeTokenService) GetAccessTokenDuration() time.Duration {
	return f.accessTTL
}

func (f *fakeTokenService) GetRefreshTokenDuration() time.Duration {
	return f.refreshTTL
}

// fakeRateLimiter records calls and can be forced into rejection.
type fakeRateLimiter struct {
	mu       sync.Mutex
	checks   []string
	resets   []string
	checkErr error
}

func (f *fakeRateLimiter) Check(handle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks = append(f.checks, handle)

	return f.checkErr
}

func (f *fakeRateLimiter) Reset(handle string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, handle)
}
