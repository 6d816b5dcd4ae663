// Package fileblob keeps one JSON file per blob in a directory.
package fileblob

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/trezcool/tuition/storage/blob"
)

type Store struct {
	dir string
}

var _ blob.Store = (*Store)(nil) // interface compliance check

// Open creates dir if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating data dir")
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *Store) Get(_ context.Context, name string) ([]byte, error) {
	data, err := ioutil.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, blob.ErrNotExist
		}
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	return data, nil
}

// Put writes to a temporary file renamed over the previous one, so a failed write leaves it intact.
func (s *Store) Put(_ context.Context, name string, data []byte) error {
	tmp, err := ioutil.TempFile(s.dir, name+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "writing %s", name)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "writing %s", name)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "writing %s", name)
	}
	if err = os.Rename(tmp.Name(), s.path(name)); err != nil {
		return errors.Wrapf(err, "writing %s", name)
	}
	return nil
}
