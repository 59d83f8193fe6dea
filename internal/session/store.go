package session

import (
	"context" // Context for backend and cache calls
	"errors"  // Sentinel errors
	"sync"    // Mutex for concurrent access

	"github.com/sirupsen/logrus" // Logging library

	"github.com/igaramadana/DataQu/internal/cache"  // Snapshot storage
	"github.com/igaramadana/DataQu/internal/domain" // Importing domain models
)

// DefaultBalance is the fixed starting balance granted at signup
const DefaultBalance int64 = 100000

// snapshotPrefix keys persisted session snapshots (the local-storage analog)
const snapshotPrefix = "session:user:"

// ErrEmailTaken is returned by Signup when the email is already registered
var ErrEmailTaken = errors.New("email already registered")

// Backend is the slice of the record store API the session store needs
type Backend interface {
	FindUserByCredentials(ctx context.Context, email, password string) (*domain.User, error) // Credential check
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)                 // Signup existence check
	CreateUser(ctx context.Context, user domain.User) (*domain.User, error)                  // Create a user record
}

// Store holds the signed-in user records for active sessions. Each record
// is cached in memory and mirrored to a persistent snapshot so a restarted
// process restores sessions instead of forcing a fresh login.
type Store struct {
	backend   Backend                 // Record store client
	snapshots cache.Cache             // Persistent snapshot storage
	mu        sync.RWMutex            // Guards the users map
	users     map[string]*domain.User // Active session records by user ID
}

// NewStore creates a session store over a record store backend and snapshot storage
func NewStore(backend Backend, snapshots cache.Cache) *Store {
	return &Store{
		backend:   backend,
		snapshots: snapshots,
		users:     make(map[string]*domain.User),
	}
}

// Login looks up exactly one user record matching the credential pair and
// caches it as the active session. It reports success as a boolean only:
// unknown email, wrong password and transport failure all collapse to false.
func (s *Store) Login(ctx context.Context, email, password string) (*domain.User, bool) {
	user, err := s.backend.FindUserByCredentials(ctx, email, password)
	if err != nil {
		// Transport failures are logged, not surfaced with detail
		logrus.WithFields(logrus.Fields{
			"email": email,       // Attempted email
			"error": err.Error(), // Error message
		}).Error("Login lookup failed")
		return nil, false
	}
	if user == nil {
		return nil, false // No matching record
	}
	user.Password = "" // Never keep the credential in the session
	s.cache(ctx, user)
	return user, true
}

// Signup creates a new user with the fixed default balance and caches it as
// the active session. It fails with ErrEmailTaken if the email is registered.
func (s *Store) Signup(ctx context.Context, email, password, name, phone string) (*domain.User, error) {
	existing, err := s.backend.FindUserByEmail(ctx, email) // Existence check first
	if err != nil {
		return nil, err // Transport or backend failure
	}
	if existing != nil {
		return nil, ErrEmailTaken // Duplicate email, session untouched
	}
	created, err := s.backend.CreateUser(ctx, domain.User{
		Email:    email,          // New account email
		Password: password,       // Hashed by the record store
		Name:     name,           // Display name
		Phone:    phone,          // Phone number
		Balance:  DefaultBalance, // Fixed starting balance
	})
	if err != nil {
		return nil, err // Transport or backend failure
	}
	created.Password = "" // Never keep the credential in the session
	s.cache(ctx, created)
	return created, nil
}

// Logout clears the cached session for a user
func (s *Store) Logout(ctx context.Context, userID string) {
	s.mu.Lock()
	delete(s.users, userID) // Drop the in-memory record
	s.mu.Unlock()
	// Remove the persisted snapshot as well
	if err := s.snapshots.Delete(ctx, snapshotPrefix+userID); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,      // User ID
			"error":   err.Error(), // Error message
		}).Error("Failed to delete session snapshot")
	}
}

// UpdateUser replaces the cached session record and persists the snapshot
// (used after checkout to reflect the new balance)
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) {
	s.cache(ctx, user)
}

// CurrentUser returns the session record for a user, restoring it from the
// persisted snapshot on a cold start. The authentication flag is derived
// from presence: absence or a corrupt snapshot means unauthenticated.
func (s *Store) CurrentUser(ctx context.Context, userID string) (*domain.User, bool) {
	s.mu.RLock()
	user, ok := s.users[userID] // In-memory fast path
	s.mu.RUnlock()
	if ok {
		copied := *user
		return &copied, true
	}
	// Cold start: attempt to restore the snapshot
	var restored domain.User
	found, err := s.snapshots.Get(ctx, snapshotPrefix+userID, &restored)
	if err != nil || !found {
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // User ID
				"error":   err.Error(), // Error message
			}).Warn("Failed to restore session snapshot")
		}
		return nil, false // Fall back to unauthenticated
	}
	s.mu.Lock()
	s.users[userID] = &restored // Repopulate the in-memory cache
	s.mu.Unlock()
	copied := restored
	return &copied, true
}

// cache stores the record in memory and mirrors it to the snapshot storage
func (s *Store) cache(ctx context.Context, user *domain.User) {
	copied := *user
	s.mu.Lock()
	s.users[user.ID] = &copied // Replace the in-memory record
	s.mu.Unlock()
	// Persist the snapshot with no expiry (sessions do not time out)
	if err := s.snapshots.Set(ctx, snapshotPrefix+user.ID, copied, 0); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,     // User ID
			"error":   err.Error(), // Error message
		}).Error("Failed to persist session snapshot")
	}
}
