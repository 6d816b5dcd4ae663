package fileblob

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tuition/storage/blob"
)

func TestStore(t *testing.T) {
	root, err := ioutil.TempDir("", "tuition")
	require.NoError(t, err)
	defer func() { _ = os.RemoveAll(root) }()

	ctx := context.Background()
	s, err := Open(filepath.Join(root, "data"))
	require.NoError(t, err)

	_, err = s.Get(ctx, "students")
	assert.Equal(t, blob.ErrNotExist, err)

	require.NoError(t, s.Put(ctx, "students", []byte(`[1]`)))
	require.NoError(t, s.Put(ctx, "students", []byte(`[1, 2]`)))

	data, err := s.Get(ctx, "students")
	require.NoError(t, err)
	assert.Equal(t, `[1, 2]`, string(data))

	// only the final file is left behind
	files, err := ioutil.ReadDir(filepath.Join(root, "data"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "students.json", files[0].Name())
}
