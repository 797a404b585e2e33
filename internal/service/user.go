package service

import (
	"context"
	"time"

	"rollcall/internal/apperr"
	"rollcall/internal/auth"
	"rollcall/internal/model"
	"rollcall/internal/university"
)

// UserService handles registration, login and university affiliations.
type UserService struct {
	store      UserStore
	signingKey string
	issuer     string
	tokenTTL   time.Duration
	bcryptCost int
}

// NewUserService creates a user service issuing tokens with the given parameters.
func NewUserService(store UserStore, signingKey, issuer string, tokenTTL time.Duration, bcryptCost int) *UserService {
	return &UserService{
		store:      store,
		signingKey: signingKey,
		issuer:     issuer,
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
	}
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	Universities []string
}

// Register creates a user with a hashed password and returns a signed token.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (string, error) {
	var issues []apperr.FieldIssue
	if in.Name == "" {
		issues = append(issues, apperr.FieldIssue{Field: "name", Message: "Name is required"})
	}
	if in.Email == "" {
		issues = append(issues, apperr.FieldIssue{Field: "email", Message: "Email is required"})
	}
	if len(in.Password) < 8 {
		issues = append(issues, apperr.FieldIssue{Field: "password", Message: "Password must be at least 8 characters"})
	}
	if len(in.Universities) == 0 {
		issues = append(issues, apperr.FieldIssue{Field: "university", Message: "At least one university is required"})
	}
	for _, code := range in.Universities {
		if !university.Valid(code) {
			issues = append(issues, apperr.FieldIssue{Field: "university", Message: "Invalid university: " + code})
		}
	}
	if len(issues) > 0 {
		return "", apperr.NewValidation("Invalid registration data", issues...)
	}

	existing, err := s.store.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return "", apperr.NewInternal("Registration failed", err)
	}
	if existing != nil {
		return "", apperr.New(apperr.Validation, "Email is already in use")
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return "", apperr.NewInternal("Registration failed", err)
	}
	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Universities: in.Universities,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return "", apperr.NewInternal("Registration failed", err)
	}

	token, _, err := auth.Issue(user.ID, s.issuer, s.signingKey, s.tokenTTL)
	if err != nil {
		return "", apperr.NewInternal("Registration failed", err)
	}
	return token, nil
}

// Login verifies credentials and returns a signed token. Unknown email and
// wrong password answer identically so neither leaks which one was wrong.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return "", apperr.NewInternal("Login failed", err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		return "", apperr.New(apperr.Unauthenticated, "Authentication failed")
	}
	token, _, err := auth.Issue(user.ID, s.issuer, s.signingKey, s.tokenTTL)
	if err != nil {
		return "", apperr.NewInternal("Login failed", err)
	}
	return token, nil
}

// Profile returns the authenticated user. A token whose user no longer
// exists fails closed as an authentication failure.
func (s *UserService) Profile(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, apperr.New(apperr.Unauthenticated, "Authentication failed")
	}
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apperr.NewInternal("failed to load user", err)
	}
	if user == nil {
		return nil, apperr.New(apperr.Unauthenticated, "Authentication failed")
	}
	return user, nil
}

// AddUniversity appends one catalog code to the user's declared list.
func (s *UserService) AddUniversity(ctx context.Context, userID, code string) ([]string, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !university.Valid(code) {
		return nil, apperr.NewValidation("Invalid university",
			apperr.FieldIssue{Field: "university", Message: "Invalid university: " + code})
	}
	for _, existing := range user.Universities {
		if existing == code {
			return nil, apperr.NewValidation("University already added",
				apperr.FieldIssue{Field: "university", Message: "University already in list: " + code})
		}
	}
	updated := append(append([]string{}, user.Universities...), code)
	if err := s.store.SetUserUniversities(ctx, userID, updated); err != nil {
		return nil, apperr.NewInternal("failed to update universities", err)
	}
	return updated, nil
}

// UpdateUniversities replaces the user's declared list. Every university
// removed from the list takes its courses, their attendances and their
// images with it. Returns the set of removed universities.
func (s *UserService) UpdateUniversities(ctx context.Context, userID string, universities []string) ([]string, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(universities) == 0 {
		return nil, apperr.NewValidation("Invalid university list",
			apperr.FieldIssue{Field: "university", Message: "At least one university is required"})
	}
	for _, code := range universities {
		if !university.Valid(code) {
			return nil, apperr.NewValidation("Invalid university list",
				apperr.FieldIssue{Field: "university", Message: "Invalid university: " + code})
		}
	}

	keep := make(map[string]bool, len(universities))
	for _, code := range universities {
		keep[code] = true
	}
	var removed []string
	for _, code := range user.Universities {
		if !keep[code] {
			removed = append(removed, code)
		}
	}

	if err := s.store.ReplaceUserUniversities(ctx, userID, universities, removed); err != nil {
		return nil, apperr.NewInternal("failed to update universities", err)
	}
	return removed, nil
}
