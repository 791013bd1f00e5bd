package credstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

const (
	tokenFile = "token"
	userFile  = "user"

	fileMode = 0o600
	dirMode  = 0o700
)

// FileStore persists credentials as two files ("token" and "user") under a
// directory, the process-restart analogue of browser local storage. Writes
// are atomic via temp-file rename so a crash never leaves a torn value.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a FileStore
// rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty directory", ErrUnavailable)
	}
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Save replaces both files. An empty User removes the cached profile so a
// stale profile cannot outlive a token change.
func (s *FileStore) Save(_ context.Context, rec Record) error {
	if err := s.writeFile(tokenFile, []byte(rec.Token)); err != nil {
		return err
	}
	if len(rec.User) == 0 {
		return s.removeFile(userFile)
	}
	return s.writeFile(userFile, rec.User)
}

// Load reads whichever of the two files exist.
func (s *FileStore) Load(_ context.Context) (Record, error) {
	var rec Record

	token, err := s.readFile(tokenFile)
	if err != nil {
		return Record{}, err
	}
	rec.Token = string(token)

	user, err := s.readFile(userFile)
	if err != nil {
		return Record{}, err
	}
	rec.User = user

	return rec, nil
}

// Clear removes both files. Missing files are not an error.
func (s *FileStore) Clear(_ context.Context) error {
	if err := s.removeFile(tokenFile); err != nil {
		return err
	}
	return s.removeFile(userFile)
}

func (s *FileStore) writeFile(name string, data []byte) error {
	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *FileStore) readFile(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return data, nil
}

func (s *FileStore) removeFile(name string) error {
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
