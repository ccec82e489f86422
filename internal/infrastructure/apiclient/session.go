package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jhoicas/ventas-admin/pkg/jwt"
)

// Session guarda el token bearer de la consola. La implementación decide dónde.
type Session interface {
	Token() string
	Save(token string) error
	Clear() error
}

// MemorySession sesión que vive lo que vive el proceso.
type MemorySession struct {
	mu    sync.Mutex
	token string
}

func (s *MemorySession) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *MemorySession) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemorySession) Clear() error { return s.Save("") }

// FileSession persiste el token en un archivo JSON con permisos 0600.
// Un token vencido se trata como ausente.
type FileSession struct {
	path string
	now  func() time.Time

	mu     sync.Mutex
	token  string
	loaded bool
}

type sessionFile struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"saved_at"`
}

// NewFileSession sesión respaldada por path.
func NewFileSession(path string) *FileSession {
	return &FileSession{path: path, now: time.Now}
}

func (s *FileSession) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.token = s.read()
		s.loaded = true
	}
	if s.token == "" {
		return ""
	}
	if exp, err := jwt.ExpiresAt(s.token); err != nil || (!exp.IsZero() && !exp.After(s.now())) {
		return ""
	}
	return s.token
}

func (s *FileSession) read() string {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	var f sessionFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return ""
	}
	return f.Token
}

func (s *FileSession) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("sesión: crear directorio: %w", err)
	}
	raw, err := json.Marshal(sessionFile{Token: token, SavedAt: s.now()})
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("sesión: escribir %s: %w", s.path, err)
	}
	s.token, s.loaded = token, true
	return nil
}

func (s *FileSession) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.loaded = "", true
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("sesión: borrar %s: %w", s.path, err)
	}
	return nil
}
