package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digireceipt/digireceipt-go/internal/logging"
	"github.com/digireceipt/digireceipt-go/internal/model"
	"github.com/digireceipt/digireceipt-go/internal/repository"
)

type fakeProfiles struct {
	saved   map[int64]model.Profile
	saveErr error
}

func (f *fakeProfiles) Get(_ context.Context, userID int64) (*model.Profile, error) {
	p, ok := f.saved[userID]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	return &p, nil
}

func (f *fakeProfiles) Save(_ context.Context, p *model.Profile) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved[p.UserID] = *p
	return nil
}

func TestProfileService_GetMissingReturnsEmpty(t *testing.T) {
	svc := NewProfileService(&fakeProfiles{saved: map[int64]model.Profile{}}, logging.Nop())

	resp, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, model.ProfileResponse{}, resp)
}

func TestProfileService_UpdateThenGet(t *testing.T) {
	store := &fakeProfiles{saved: map[int64]model.Profile{}}
	svc := NewProfileService(store, logging.Nop())
	birth := model.NewTimestamp(time.Date(1992, 4, 23, 0, 0, 0, 0, time.UTC))

	err := svc.Update(context.Background(), 3, model.ProfileRequest{
		Name: "Mehmet", Surname: "Demir", Email: "m@example.com", Gender: "male", BirthDate: birth,
	})
	require.NoError(t, err)

	resp, err := svc.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Mehmet", resp.Name)
	assert.Equal(t, "m@example.com", resp.Email)
	assert.True(t, birth.Equal(resp.BirthDate.Time))
}

func TestProfileService_UpdateDuplicateEmail(t *testing.T) {
	store := &fakeProfiles{saved: map[int64]model.Profile{}, saveErr: repository.ErrDuplicateEmail}
	svc := NewProfileService(store, logging.Nop())

	err := svc.Update(context.Background(), 3, model.ProfileRequest{Email: "taken@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}
