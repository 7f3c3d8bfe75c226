package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	saltAudit "github.com/goto/salt/audit"
)

type logModel struct {
	Timestamp time.Time   `json:"timestamp"`
	Action    string      `json:"action"`
	Actor     string      `json:"actor,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Metadata  interface{} `json:"metadata,omitempty"`
}

func (m *logModel) fromDomain(l *saltAudit.Log) error {
	if l == nil {
		return errors.New("audit log is nil")
	}

	m.Timestamp = l.Timestamp.UTC()
	m.Action = l.Action
	m.Actor = l.Actor
	m.Data = l.Data
	m.Metadata = l.Metadata
	return nil
}

// FileRepository appends audit logs to a file as JSON lines
type FileRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Init(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return fmt.Errorf("creating audit directory: %w", err)
	}
	return nil
}

func (r *FileRepository) Insert(ctx context.Context, l *saltAudit.Log) error {
	m := new(logModel)
	if err := m.fromDomain(l); err != nil {
		return err
	}
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding audit log: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening audit file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("writing audit log: %w", err)
	}
	return nil
}

// NewFileLogger returns an audit service writing to the file at path. The
// actor is read from the context, see saltAudit.WithActor.
func NewFileLogger(ctx context.Context, path string) (*saltAudit.Service, error) {
	repo := NewFileRepository(path)
	if err := repo.Init(ctx); err != nil {
		return nil, err
	}
	return saltAudit.New(saltAudit.WithRepository(repo)), nil
}
