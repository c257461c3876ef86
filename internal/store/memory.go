package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store with in-memory storage for local
// development and tests. The dataKey index mirrors the unique compound
// index the Firestore store enforces via deterministic document IDs.
type MemoryStore struct {
	mu sync.RWMutex

	parameters map[string]*LabParameter // by ID
	dataIndex  map[string]string        // primary duplicate key -> parameter ID
	users      map[string]*User         // by ID
	emailIndex map[string]string        // lowercase email -> user ID
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		parameters: make(map[string]*LabParameter),
		dataIndex:  make(map[string]string),
		users:      make(map[string]*User),
		emailIndex: make(map[string]string),
	}
}

func dataKey(userID, parameterName, value, testDate, unit string) string {
	return strings.Join([]string{userID, parameterName, value, testDate, unit}, "\x1f")
}

// Lab parameter operations

func (m *MemoryStore) CreateLabParameter(ctx context.Context, param *LabParameter) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := dataKey(param.UserID, param.ParameterName, param.Value, param.TestDate, param.Unit)
	if _, exists := m.dataIndex[key]; exists {
		return ErrDuplicate
	}

	if param.ID == "" {
		param.ID = uuid.New().String()
	}
	if param.CreatedAt.IsZero() {
		param.CreatedAt = time.Now()
	}

	stored := *param
	m.parameters[param.ID] = &stored
	m.dataIndex[key] = param.ID
	return nil
}

func (m *MemoryStore) FindLabParameterByData(ctx context.Context, userID, parameterName, value, testDate, unit string) (*LabParameter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.dataIndex[dataKey(userID, parameterName, value, testDate, unit)]
	if !ok {
		return nil, ErrNotFound
	}
	found := *m.parameters[id]
	return &found, nil
}

func (m *MemoryStore) FindLabParameterBySource(ctx context.Context, userID, parameterName, sourceFile, testDate string) (*LabParameter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.parameters {
		if p.UserID == userID && p.ParameterName == parameterName &&
			p.SourceFile == sourceFile && p.TestDate == testDate {
			found := *p
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) ListLabParameters(ctx context.Context, userID string) ([]*LabParameter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	params := make([]*LabParameter, 0)
	for _, p := range m.parameters {
		if p.UserID == userID {
			found := *p
			params = append(params, &found)
		}
	}
	sortParameters(params)
	return params, nil
}

func (m *MemoryStore) DeleteLabParameter(ctx context.Context, userID, paramID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.parameters[paramID]
	if !ok || p.UserID != userID {
		return ErrNotFound
	}

	delete(m.parameters, paramID)
	delete(m.dataIndex, dataKey(p.UserID, p.ParameterName, p.Value, p.TestDate, p.Unit))
	return nil
}

func (m *MemoryStore) DeleteAllLabParameters(ctx context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for id, p := range m.parameters {
		if p.UserID != userID {
			continue
		}
		delete(m.parameters, id)
		delete(m.dataIndex, dataKey(p.UserID, p.ParameterName, p.Value, p.TestDate, p.Unit))
		deleted++
	}
	return deleted, nil
}

// User operations

func (m *MemoryStore) CreateUser(ctx context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(user.Email))
	if _, exists := m.emailIndex[email]; exists {
		return ErrDuplicate
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	user.Email = email

	stored := *user
	m.users[user.ID] = &stored
	m.emailIndex[email] = user.ID
	return nil
}

func (m *MemoryStore) GetUser(ctx context.Context, userID string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	found := *u
	return &found, nil
}

func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.emailIndex[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, ErrNotFound
	}
	found := *m.users[id]
	return &found, nil
}
