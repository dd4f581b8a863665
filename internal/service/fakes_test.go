package service

import (
	"context"
	"sync"

	"github.com/digireceipt/digireceipt-go/internal/model"
	"github.com/digireceipt/digireceipt-go/internal/oauth"
	"github.com/digireceipt/digireceipt-go/internal/repository"
)

type fakeUsers struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]model.User
	profiles map[int64]model.Profile
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[int64]model.User{}, profiles: map[int64]model.Profile{}}
}

func eq(p *string, v string) bool { return p != nil && *p == v }

func (f *fakeUsers) Create(_ context.Context, user *model.User, profile *model.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if user.PhoneNumber != nil && eq(u.PhoneNumber, *user.PhoneNumber) {
			return repository.ErrDuplicatePhone
		}
		if user.Email != nil && eq(u.Email, *user.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	f.nextID++
	user.ID = f.nextID
	profile.UserID = user.ID
	f.users[user.ID] = *user
	f.profiles[user.ID] = *profile
	return nil
}

func (f *fakeUsers) find(match func(model.User) bool) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			c := u
			return &c, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	return f.find(func(u model.User) bool { return u.ID == id })
}

func (f *fakeUsers) GetByPhone(_ context.Context, phone string) (*model.User, error) {
	return f.find(func(u model.User) bool { return eq(u.PhoneNumber, phone) })
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return f.find(func(u model.User) bool { return eq(u.Email, email) })
}

func (f *fakeUsers) update(id int64, fn func(*model.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	fn(&u)
	f.users[id] = u
	return nil
}

func (f *fakeUsers) SetToken(_ context.Context, id int64, token *string) error {
	return f.update(id, func(u *model.User) { u.Token = token })
}

func (f *fakeUsers) SetPassword(_ context.Context, id int64, hash string) error {
	return f.update(id, func(u *model.User) { u.PasswordHash = &hash })
}

func (f *fakeUsers) SetPhone(_ context.Context, id int64, phone string) error {
	if other, err := f.GetByPhone(context.Background(), phone); err == nil && other.ID != id {
		return repository.ErrDuplicatePhone
	}
	return f.update(id, func(u *model.User) { u.PhoneNumber = &phone })
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)
	delete(f.profiles, id)
	return nil
}

// fakeSMS approves the last code "sent" to each phone.
type fakeSMS struct {
	mu       sync.Mutex
	code     string
	sent     map[string]string
	sendErr  error
	checkErr error
}

func newFakeSMS() *fakeSMS {
	return &fakeSMS{code: "654321", sent: map[string]string{}}
}

func (f *fakeSMS) SendCode(_ context.Context, phone string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent[phone] = f.code
	return nil
}

func (f *fakeSMS) CheckCode(_ context.Context, phone, code string) (bool, error) {
	if f.checkErr != nil {
		return false, f.checkErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	sent, ok := f.sent[phone]
	return ok && sent == code, nil
}

type fakeMailer struct {
	last map[string]string
	err  error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{last: map[string]string{}}
}

func (f *fakeMailer) SendOTP(_ context.Context, email, code string) error {
	if f.err != nil {
		return f.err
	}
	f.last[email] = code
	return nil
}

type fakeGoogle struct {
	infos map[string]oauth.UserInfo
	err   error
}

func (f *fakeGoogle) UserInfo(_ context.Context, accessToken string) (oauth.UserInfo, error) {
	if f.err != nil {
		return oauth.UserInfo{}, f.err
	}
	info, ok := f.infos[accessToken]
	if !ok {
		return oauth.UserInfo{}, oauth.ErrInvalidAccessToken
	}
	return info, nil
}
