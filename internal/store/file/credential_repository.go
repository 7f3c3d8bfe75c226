package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goto/truora/domain"
)

type credentialsFile struct {
	Credentials []*domain.Credential `yaml:"credentials"`
}

// CredentialRepository persists credentials in a single YAML file
type CredentialRepository struct {
	path string
	mu   sync.Mutex
}

func NewCredentialRepository(path string) *CredentialRepository {
	return &CredentialRepository{path: path}
}

func (r *CredentialRepository) Create(ctx context.Context, cred *domain.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := r.load()
	if err != nil {
		return err
	}
	for _, c := range f.Credentials {
		if c.Name == cred.Name {
			return fmt.Errorf("%w: %q", domain.ErrDuplicateCredential, cred.Name)
		}
	}

	f.Credentials = append(f.Credentials, cred)
	return r.save(f)
}

func (r *CredentialRepository) Update(ctx context.Context, cred *domain.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := r.load()
	if err != nil {
		return err
	}
	for i, c := range f.Credentials {
		if c.Name == cred.Name {
			f.Credentials[i] = cred
			return r.save(f)
		}
	}
	return fmt.Errorf("%w: %q", domain.ErrCredentialNotFound, cred.Name)
}

func (r *CredentialRepository) Find(ctx context.Context) ([]*domain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := r.load()
	if err != nil {
		return nil, err
	}
	sort.Slice(f.Credentials, func(i, j int) bool { return f.Credentials[i].Name < f.Credentials[j].Name })
	return f.Credentials, nil
}

func (r *CredentialRepository) GetByName(ctx context.Context, name string) (*domain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, c := range f.Credentials {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrCredentialNotFound, name)
}

func (r *CredentialRepository) Delete(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := r.load()
	if err != nil {
		return err
	}
	for i, c := range f.Credentials {
		if c.Name == name {
			f.Credentials = append(f.Credentials[:i], f.Credentials[i+1:]...)
			return r.save(f)
		}
	}
	return fmt.Errorf("%w: %q", domain.ErrCredentialNotFound, name)
}

func (r *CredentialRepository) load() (*credentialsFile, error) {
	b, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &credentialsFile{}, nil
		}
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}

	var f credentialsFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parsing credentials file: %w", err)
	}
	return &f, nil
}

// save writes to a temp file and renames it over the target so a failed
// write never leaves a truncated file
func (r *CredentialRepository) save(f *credentialsFile) error {
	b, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating credentials directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("writing credentials: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("setting credentials file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing credentials file: %w", err)
	}
	return os.Rename(tmp.Name(), r.path)
}
