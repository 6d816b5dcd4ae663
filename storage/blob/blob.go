// Package blob defines where the serialized collections are kept between runs.
package blob

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotExist is returned by Get when nothing was ever stored under a name.
var ErrNotExist = errors.New("blob does not exist")

// Store reads and writes whole blobs by name.
type Store interface {
	Get(ctx context.Context, name string) ([]byte, error)
	// Put replaces the blob stored under name.
	Put(ctx context.Context, name string, data []byte) error
}

// Closer is implemented by stores holding a connection.
type Closer interface {
	Close() error
}

// Close releases the store's resources, if any.
func Close(s Store) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}

// Mem is a Store kept in memory, for tests and dry runs.
type Mem struct {
	Blobs map[string][]byte
	// Fail makes Put fail for the listed names.
	Fail map[string]error
}

var _ Store = (*Mem)(nil) // interface compliance check

func NewMem() *Mem {
	return &Mem{Blobs: make(map[string][]byte), Fail: make(map[string]error)}
}

func (m *Mem) Get(_ context.Context, name string) ([]byte, error) {
	data, ok := m.Blobs[name]
	if !ok {
		return nil, ErrNotExist
	}
	return data, nil
}

func (m *Mem) Put(_ context.Context, name string, data []byte) error {
	if err := m.Fail[name]; err != nil {
		return err
	}
	m.Blobs[name] = append([]byte(nil), data...)
	return nil
}
