package backend

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/matzehuels/svgraster/pkg/errors"
)

// tempScope owns the temporary files of one render call. Every path it hands
// out is removed by release, whether or not the file was ever created.
type tempScope struct {
	dir   string
	paths []string
}

func newTempScope(dir string) *tempScope {
	if dir == "" {
		dir = os.TempDir()
	}
	return &tempScope{dir: dir}
}

// reserve returns a fresh path for a file someone else will create.
func (s *tempScope) reserve(prefix, ext string) string {
	path := filepath.Join(s.dir, prefix+uuid.NewString()+ext)
	s.paths = append(s.paths, path)
	return path
}

// write creates a fresh file holding data and returns its path.
func (s *tempScope) write(prefix, ext string, data []byte) (string, error) {
	path := s.reserve(prefix, ext)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeTempResource, err, "create temp file")
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", errors.Wrap(errors.ErrCodeTempResource, err, "write temp file %s", path)
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeTempResource, err, "close temp file %s", path)
	}
	return path, nil
}

// release removes every path in the scope. Paths that were never created are
// not an error. onErr is called for each path that could not be removed; the
// joined failures are returned.
func (s *tempScope) release(onErr func(path string, err error)) error {
	var errs []error
	for _, path := range s.paths {
		err := os.Remove(path)
		if err == nil || stderrors.Is(err, fs.ErrNotExist) {
			continue
		}
		if onErr != nil {
			onErr(path, err)
		}
		errs = append(errs, err)
	}
	s.paths = nil
	return stderrors.Join(errs...)
}
