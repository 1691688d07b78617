package online

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/bcrypt"

	"recipebook/internal/blob"
	"recipebook/pkg/domain"
)

// DefaultCacheSize bounds the number of shared recipe documents kept in memory.
const DefaultCacheSize = 256

// Option configures a Library.
type Option func(*Library)

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Library) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Library) {
		if now != nil {
			l.now = now
		}
	}
}

// WithSessionFile persists the signed-in session at path and restores it
// when the library is created.
func WithSessionFile(path string) Option {
	return func(l *Library) { l.sessionFile = path }
}

// WithCacheSize sets the document cache capacity.
func WithCacheSize(n int) Option {
	return func(l *Library) {
		if n > 0 {
			l.cacheSize = n
		}
	}
}

// WithBcryptCost sets the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(l *Library) { l.bcryptCost = cost }
}

// Library is a client of the shared recipe library.
type Library struct {
	store       blob.Store
	logger      *slog.Logger
	now         func() time.Time
	sessionFile string
	cacheSize   int
	bcryptCost  int
	cache       *lru.Cache[string, SharedDrug]

	mu      sync.Mutex
	session *Session
}

// New returns a library over store. When a session file is configured the
// last session is restored from it.
func New(store blob.Store, opts ...Option) (*Library, error) {
	if store == nil {
		return nil, errors.New("online: nil blob store")
	}
	l := &Library{
		store:      store,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:        func() time.Time { return time.Now().UTC() },
		cacheSize:  DefaultCacheSize,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(l)
	}
	cache, err := lru.New[string, SharedDrug](l.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("online: create cache: %w", err)
	}
	l.cache = cache
	if l.sessionFile != "" {
		sess, ok, err := loadSession(l.sessionFile)
		if err != nil {
			l.logger.Warn("ignoring unreadable session", "path", l.sessionFile, "error", err)
		} else if ok {
			l.session = &sess
		}
	}
	return l, nil
}

// Session returns the signed-in session.
func (l *Library) Session() (Session, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.session == nil {
		return Session{}, false
	}
	return *l.session, true
}

// IsAuthenticated reports whether a user is signed in.
func (l *Library) IsAuthenticated() bool {
	_, ok := l.Session()
	return ok
}

// SignUp creates an account and signs it in.
func (l *Library) SignUp(ctx context.Context, email, password string) (Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return Session{}, err
	}
	if len(password) < MinPasswordLength {
		return Session{}, ErrWeakPassword
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	users, err := l.listUsers(ctx)
	if err != nil {
		return Session{}, err
	}
	for _, u := range users {
		if u.Email == email {
			return Session{}, ErrEmailExists
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), l.bcryptCost)
	if err != nil {
		return Session{}, fmt.Errorf("online: hash password: %w", err)
	}
	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    l.now(),
	}
	if err := l.putJSON(ctx, userKey(user.ID), user, false); err != nil {
		return Session{}, err
	}
	l.logger.Info("account created", "user_id", user.ID, "email", email)
	return l.startSession(user)
}

// SignIn verifies the credentials and starts a session.
func (l *Library) SignIn(ctx context.Context, email, password string) (Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return Session{}, ErrInvalidCredentials
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	users, err := l.listUsers(ctx)
	if err != nil {
		return Session{}, err
	}
	for _, u := range users {
		if u.Email != email {
			continue
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
			l.logger.Warn("sign in rejected", "email", email)
			return Session{}, ErrInvalidCredentials
		}
		return l.startSession(u)
	}
	l.logger.Warn("sign in rejected", "email", email)
	return Session{}, ErrInvalidCredentials
}

// SignOut ends the session and forgets the persisted copy.
func (l *Library) SignOut() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.session = nil
	if l.sessionFile == "" {
		return nil
	}
	return removeSession(l.sessionFile)
}

// SetUsername sets the display name of the signed-in user. Usernames are
// unique across accounts, ignoring case.
func (l *Library) SetUsername(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrInvalidUsername
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.session == nil {
		return ErrNotAuthenticated
	}
	users, err := l.listUsers(ctx)
	if err != nil {
		return err
	}
	var self *User
	for i := range users {
		u := users[i]
		if u.ID == l.session.UserID {
			self = &users[i]
			continue
		}
		if strings.EqualFold(u.Username, username) {
			return ErrUsernameTaken
		}
	}
	if self == nil {
		return fmt.Errorf("online: account %s: %w", l.session.UserID, ErrNotAuthenticated)
	}
	self.Username = username
	if err := l.putJSON(ctx, userKey(self.ID), *self, true); err != nil {
		return err
	}
	sess := *l.session
	sess.Username = username
	l.session = &sess
	l.logger.Info("username set", "user_id", self.ID, "username", username)
	return l.persistSession()
}

// Submit shares drug under the signed-in user. comments are free text shown
// alongside the recipe.
func (l *Library) Submit(ctx context.Context, drug domain.Drug, comments string) (SharedDrug, error) {
	sess, ok := l.Session()
	if !ok {
		return SharedDrug{}, ErrNotAuthenticated
	}
	doc := SharedDrug{
		ID:          uuid.NewString(),
		Name:        drug.Name,
		DrugType:    drug.DrugType.Normalize(),
		BasePrice:   drug.BasePrice,
		Ingredients: append([]domain.Ingredient(nil), drug.Ingredients...),
		Effects:     append([]domain.Effect(nil), drug.Effects...),
		Notes:       drug.Notes,
		Comments:    strings.TrimSpace(comments),
		UserID:      sess.UserID,
		UserEmail:   sess.Email,
		Username:    sess.Username,
		Timestamp:   l.now(),
		Upvotes:     0,
		UpvotedBy:   []string{},
	}
	if err := l.putJSON(ctx, drugKey(doc.ID), doc, false); err != nil {
		return SharedDrug{}, err
	}
	l.cache.Remove(doc.ID)
	l.logger.Info("drug shared", "id", doc.ID, "name", doc.Name, "user_id", sess.UserID)
	return doc.clone(), nil
}

// ListAll returns every shared recipe, newest first.
func (l *Library) ListAll(ctx context.Context) ([]SharedDrug, error) {
	infos, err := l.store.List(ctx, drugsPrefix)
	if err != nil {
		return nil, fmt.Errorf("online: list drugs: %w", err)
	}
	out := make([]SharedDrug, 0, len(infos))
	for _, info := range infos {
		id, ok := idFromKey(drugsPrefix, info.Key)
		if !ok {
			continue
		}
		doc, err := l.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ListMine returns the recipes shared by the signed-in user.
func (l *Library) ListMine(ctx context.Context) ([]SharedDrug, error) {
	sess, ok := l.Session()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	all, err := l.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	mine := make([]SharedDrug, 0)
	for _, d := range all {
		if d.UserID == sess.UserID {
			mine = append(mine, d)
		}
	}
	return mine, nil
}

// Get returns one shared recipe.
func (l *Library) Get(ctx context.Context, id string) (SharedDrug, error) {
	if doc, ok := l.cache.Get(id); ok {
		return doc.clone(), nil
	}
	var doc SharedDrug
	if err := l.getJSON(ctx, drugKey(id), &doc); err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return SharedDrug{}, fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return SharedDrug{}, err
	}
	doc.ID = id
	if doc.UpvotedBy == nil {
		doc.UpvotedBy = []string{}
	}
	l.cache.Add(id, doc)
	return doc.clone(), nil
}

// Delete removes a recipe shared by the signed-in user.
func (l *Library) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.session == nil {
		return ErrNotAuthenticated
	}
	doc, err := l.Get(ctx, id)
	if err != nil {
		return err
	}
	if doc.UserID != l.session.UserID {
		return ErrNotOwner
	}
	l.cache.Remove(id)
	removed, err := l.store.Delete(ctx, drugKey(id))
	if err != nil {
		return fmt.Errorf("online: delete %s: %w", id, err)
	}
	if !removed {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	l.logger.Info("shared drug deleted", "id", id, "user_id", doc.UserID)
	return nil
}

// Upvote adds the signed-in user's vote to a recipe and returns the new
// count. Each user votes at most once.
func (l *Library) Upvote(ctx context.Context, id string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.session == nil {
		return 0, ErrNotAuthenticated
	}
	l.cache.Remove(id)
	doc, err := l.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if doc.UpvotedByUser(l.session.UserID) {
		return doc.Upvotes, ErrAlreadyUpvoted
	}
	doc.Upvotes++
	doc.UpvotedBy = append(doc.UpvotedBy, l.session.UserID)
	if err := l.putJSON(ctx, drugKey(id), doc, true); err != nil {
		return 0, err
	}
	l.cache.Remove(id)
	l.logger.Debug("drug upvoted", "id", id, "upvotes", doc.Upvotes)
	return doc.Upvotes, nil
}

// HasUpvoted reports whether the signed-in user upvoted the recipe. It is
// false when nobody is signed in.
func (l *Library) HasUpvoted(ctx context.Context, id string) (bool, error) {
	sess, ok := l.Session()
	if !ok {
		return false, nil
	}
	doc, err := l.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return doc.UpvotedByUser(sess.UserID), nil
}

// Import returns the shared recipe as a local recipe ready to be created.
func (l *Library) Import(ctx context.Context, id string) (domain.Drug, error) {
	doc, err := l.Get(ctx, id)
	if err != nil {
		return domain.Drug{}, err
	}
	return doc.Drug(), nil
}

// startSession must be called with mu held.
func (l *Library) startSession(u User) (Session, error) {
	sess := Session{UserID: u.ID, Email: u.Email, Username: u.Username, SignedInAt: l.now()}
	l.session = &sess
	if err := l.persistSession(); err != nil {
		return sess, err
	}
	l.logger.Info("signed in", "user_id", u.ID, "email", u.Email)
	return sess, nil
}

// persistSession must be called with mu held.
func (l *Library) persistSession() error {
	if l.sessionFile == "" || l.session == nil {
		return nil
	}
	return saveSession(l.sessionFile, *l.session)
}

func (l *Library) listUsers(ctx context.Context) ([]User, error) {
	infos, err := l.store.List(ctx, usersPrefix)
	if err != nil {
		return nil, fmt.Errorf("online: list users: %w", err)
	}
	users := make([]User, 0, len(infos))
	for _, info := range infos {
		id, ok := idFromKey(usersPrefix, info.Key)
		if !ok {
			continue
		}
		var u User
		if err := l.getJSON(ctx, info.Key, &u); err != nil {
			if errors.Is(err, blob.ErrNotFound) {
				continue
			}
			return nil, err
		}
		u.ID = id
		users = append(users, u)
	}
	return users, nil
}

func (l *Library) putJSON(ctx context.Context, key string, v any, overwrite bool) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("online: encode %s: %w", key, err)
	}
	_, err = l.store.Put(ctx, key, bytes.NewReader(raw), blob.PutOptions{
		ContentType: "application/json",
		Overwrite:   overwrite,
	})
	if err != nil {
		return fmt.Errorf("online: write %s: %w", key, err)
	}
	return nil
}

func (l *Library) getJSON(ctx context.Context, key string, v any) error {
	_, rc, err := l.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("online: read %s: %w", key, err)
	}
	defer func() { _ = rc.Close() }()
	if err := json.NewDecoder(rc).Decode(v); err != nil {
		return fmt.Errorf("online: decode %s: %w", key, err)
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return "", ErrInvalidEmail
	}
	return email, nil
}
