package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"photogallery/internal/entity"

	"github.com/google/uuid"
)

type fakeOTPRepo struct {
	mu      sync.Mutex
	records map[string]entity.OneTimePassword
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{records: make(map[string]entity.OneTimePassword)}
}

func (r *fakeOTPRepo) FindByEmail(_ context.Context, email string) (*entity.OneTimePassword, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[email]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (r *fakeOTPRepo) GetOrCreate(_ context.Context, email string) (*entity.OneTimePassword, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[email]
	if !ok {
		record = entity.OneTimePassword{ID: uuid.New(), Email: email, CreatedAt: time.Now()}
		r.records[email] = record
	}
	return &record, nil
}

func (r *fakeOTPRepo) Save(_ context.Context, otp *entity.OneTimePassword) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[otp.Email] = *otp
	return nil
}

func (r *fakeOTPRepo) Consume(_ context.Context, otp *entity.OneTimePassword) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.records[otp.Email]
	if !ok || stored.ID != otp.ID || stored.CodeHash == nil || otp.CodeHash == nil || *stored.CodeHash != *otp.CodeHash {
		return false, nil
	}
	delete(r.records, otp.Email)
	return true, nil
}

func (r *fakeOTPRepo) PurgeExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for email, record := range r.records {
		if record.ExpiresAt != nil && record.ExpiresAt.Before(cutoff) {
			delete(r.records, email)
			removed++
		}
	}
	return removed, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) add(email, username string) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	user := &entity.User{
		ID:       uuid.New(),
		Email:    email,
		Username: username,
		Role:     entity.UserRoleUser,
		IsActive: true,
		Profile:  &entity.UserProfile{ID: uuid.New(), Gender: entity.GenderOther},
	}
	user.Profile.UserID = user.ID
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok || !user.IsActive {
		return nil, nil
	}
	return user, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) GetOrCreateByEmail(ctx context.Context, email, username string) (*entity.User, bool, error) {
	if user, _ := r.FindByEmail(ctx, email); user != nil {
		return user, false, nil
	}
	return r.add(email, username), true, nil
}

func (r *fakeUserRepo) List(context.Context, int, int) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]entity.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, *user)
	}
	return users, nil
}

type fakeCredentials struct {
	mu     sync.Mutex
	tokens map[uuid.UUID]string
	issued int
}

func newFakeCredentials() *fakeCredentials {
	return &fakeCredentials{tokens: make(map[uuid.UUID]string)}
}

func (f *fakeCredentials) IssueOrGet(_ context.Context, user *entity.User) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if token, ok := f.tokens[user.ID]; ok {
		return token, nil
	}
	f.issued++
	token := "token-" + uuid.NewString()
	f.tokens[user.ID] = token
	return token, nil
}

func (f *fakeCredentials) Revoke(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, userID)
	return nil
}

type sentMail struct {
	To, Subject, Body string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (s *fakeSender) Send(_ context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

// sequenceGenerator hands out codes in order.
type sequenceGenerator struct {
	codes []string
	clock Clock
	ttl   time.Duration
}

func (g *sequenceGenerator) Generate() (string, time.Time, error) {
	if len(g.codes) == 0 {
		return "", time.Time{}, errors.New("no codes left")
	}
	code := g.codes[0]
	g.codes = g.codes[1:]
	return code, g.clock.Now().Add(g.ttl), nil
}

// plainHasher keeps tests fast; production uses bcrypt.
type plainHasher struct{}

func (plainHasher) Hash(code string) (string, error) { return "plain:" + code, nil }

func (plainHasher) Verify(hash string, code string) bool { return hash == "plain:"+code }

type fakeMedia struct {
	mu      sync.Mutex
	saved   map[string][]byte
	deleted []string
	counter int
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{saved: make(map[string][]byte)}
}

func (m *fakeMedia) Save(_ context.Context, folder string, filename string, content io.Reader) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	path := folder + "/" + uuid.NewString() + "-" + filename
	m.saved[path] = data
	return path, nil
}

func (m *fakeMedia) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saved, path)
	m.deleted = append(m.deleted, path)
	return nil
}
