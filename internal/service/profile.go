package service

import (
	"context"
	"errors"

	"github.com/digireceipt/digireceipt-go/internal/logging"
	"github.com/digireceipt/digireceipt-go/internal/model"
	"github.com/digireceipt/digireceipt-go/internal/repository"
)

type ProfileStore interface {
	Get(ctx context.Context, userID int64) (*model.Profile, error)
	Save(ctx context.Context, profile *model.Profile) error
}

// ProfileService reads and writes the display profile of a user.
type ProfileService struct {
	profiles ProfileStore
	log      logging.Logger
}

func NewProfileService(profiles ProfileStore, log logging.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, log: log}
}

// Get returns the user's profile, or empty fields if none was saved yet.
func (s *ProfileService) Get(ctx context.Context, userID int64) (model.ProfileResponse, error) {
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return model.ProfileResponse{}, nil
		}
		return model.ProfileResponse{}, err
	}

	return model.ProfileResponse{
		Name:         p.Name,
		Surname:      p.Surname,
		Email:        p.Email,
		Gender:       p.Gender,
		BirthDate:    p.BirthDate,
		ProfileImage: p.ProfileImage,
	}, nil
}

// Update replaces every profile field and mirrors the email onto the user.
func (s *ProfileService) Update(ctx context.Context, userID int64, req model.ProfileRequest) error {
	p := &model.Profile{
		UserID:       userID,
		Name:         req.Name,
		Surname:      req.Surname,
		Email:        req.Email,
		Gender:       req.Gender,
		BirthDate:    req.BirthDate,
		ProfileImage: req.ProfileImage,
	}

	if err := s.profiles.Save(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return ErrEmailTaken
		}
		return err
	}

	s.log.Info(ctx, "profile updated", "user_id", userID)
	return nil
}
