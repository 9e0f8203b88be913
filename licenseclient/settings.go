package licenseclient

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Settings keys used by the client.
const (
	SettingLicenseToken = "license_token"
	SettingAPIBase      = "api_base"
)

// Store persists client settings between runs. Get returns an empty string
// for missing keys; Set with an empty value removes the key.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// fileStore keeps settings in a single JSON file.
type fileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a Store backed by the JSON file at path. Parent
// directories are created on first write.
func NewFileStore(path string) Store {
	return &fileStore{path: path}
}

func (s *fileStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.load()
	if err != nil {
		return "", err
	}
	return settings[key], nil
}

func (s *fileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.load()
	if err != nil {
		return err
	}

	if value == "" {
		delete(settings, key)
	} else {
		settings[key] = value
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}

	// Write-then-rename keeps the file intact if the process dies mid-write.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *fileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	settings := map[string]string{}
	if err := json.Unmarshal(data, &settings); err != nil {
		// A corrupt settings file should not brick the client
		return map[string]string{}, nil
	}
	return settings, nil
}
