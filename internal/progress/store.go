package progress

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Store is the persistence port for user progress. Implementations hold one
// JSON-encoded Progress per user.
type Store interface {
	Load(userID string) (Progress, error)
	Save(p Progress) error
	Reset(userID string) error
}

// SQLiteStore persists progress in the user_progress table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load returns the stored progress for a user, or the default state for an
// unknown user. A corrupt stored record also falls back to the default.
func (s *SQLiteStore) Load(userID string) (Progress, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM user_progress WHERE user_id = ?`, userID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Default(userID), nil
	}
	if err != nil {
		return Progress{}, fmt.Errorf("loading progress for %s: %w", userID, err)
	}

	var p Progress
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		slog.Warn("corrupt progress record, resetting to default", "user", userID, "error", err)
		return Default(userID), nil
	}
	p.UserID = userID
	return p, nil
}

func (s *SQLiteStore) Save(p Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding progress: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO user_progress (user_id, data)
		VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			data = excluded.data,
			updated_at = datetime('now')`,
		p.UserID, string(data),
	)
	if err != nil {
		return fmt.Errorf("saving progress for %s: %w", p.UserID, err)
	}
	return nil
}

func (s *SQLiteStore) Reset(userID string) error {
	_, err := s.db.Exec(`DELETE FROM user_progress WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("resetting progress for %s: %w", userID, err)
	}
	return nil
}

// MemoryStore is an in-memory Store for tests and guest sessions.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]Progress
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]Progress)}
}

func (s *MemoryStore) Load(userID string) (Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.users[userID]; ok {
		return p, nil
	}
	return Default(userID), nil
}

func (s *MemoryStore) Save(p Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[p.UserID] = p
	return nil
}

func (s *MemoryStore) Reset(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, userID)
	return nil
}
