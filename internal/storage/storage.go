package storage

// Keys used by the session layer. The token is an opaque string issued
// by the backend; the user entry is a serialized snapshot for instant
// rehydration before the authoritative profile refetch.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Store is the local key-value persistence the client needs: two entries
// today, read at startup and written or cleared by auth operations.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// Memory is an in-memory Store for tests.
type Memory struct {
	entries map[string]string
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	value, ok := m.entries[key]
	return value, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.entries[key] = value
	return nil
}

func (m *Memory) Delete(key string) error {
	delete(m.entries, key)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
