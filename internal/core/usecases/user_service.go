package usecases

import (
	"context"

	"github.com/samirrijal/weatherpro/internal/core/domain"
	"github.com/samirrijal/weatherpro/internal/core/ports"
)

// ProfileUpdate holds the optional fields of a profile update.
type ProfileUpdate struct {
	Name        string
	Email       string
	Preferences *domain.UserPreferences
}

// SaveLocationInput is a bookmark request.
type SaveLocationInput struct {
	Name string
	Lat  *float64
	Lon  *float64
}

// UserService serves the mock account.
type UserService struct {
	src ports.DataSource
}

// NewUserService creates a new UserService.
func NewUserService(src ports.DataSource) *UserService {
	return &UserService{src: src}
}

// Profile returns the current account.
func (s *UserService) Profile(ctx context.Context) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	return s.src.Profile(), nil
}

// UpdateProfile returns the account with the provided fields applied over
// the defaults. Nothing is stored, so a later Profile call is unaffected.
func (s *UserService) UpdateProfile(ctx context.Context, u ProfileUpdate) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	out := s.src.Profile()
	out.CreatedAt = nil
	if u.Name != "" {
		out.Name = u.Name
	}
	if u.Email != "" {
		out.Email = u.Email
	}
	if u.Preferences != nil {
		p := *u.Preferences
		out.Preferences = &p
	}
	updated := s.src.Now()
	out.UpdatedAt = &updated
	return out, nil
}

// SavedLocations returns the bookmarked locations.
func (s *UserService) SavedLocations(ctx context.Context) ([]domain.SavedLocation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.src.SavedLocations(), nil
}

// SaveLocation returns the bookmark that would be created for in.
func (s *UserService) SaveLocation(ctx context.Context, in SaveLocationInput) (domain.SavedLocation, error) {
	if err := ctx.Err(); err != nil {
		return domain.SavedLocation{}, err
	}
	created := s.src.Now()
	return domain.SavedLocation{
		ID:        s.src.NewID(),
		Name:      in.Name,
		Lat:       in.Lat,
		Lon:       in.Lon,
		IsDefault: false,
		CreatedAt: &created,
	}, nil
}
