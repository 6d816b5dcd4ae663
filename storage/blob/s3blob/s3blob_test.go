package s3blob

import (
	"bytes"
	"context"
	"io/ioutil"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tuition/storage/blob"
)

type fakeAPI struct {
	objects map[string][]byte
	fail    error
}

func (f *fakeAPI) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: ioutil.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	data, err := ioutil.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{objects: make(map[string][]byte)}
	s := New(api, "tutor", "prod/")

	_, err := s.Get(ctx, "students")
	assert.Equal(t, blob.ErrNotExist, err)

	require.NoError(t, s.Put(ctx, "students", []byte(`[]`)))
	assert.Contains(t, api.objects, "tutor/prod/students.json")

	data, err := s.Get(ctx, "students")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	api.fail = errors.New("access denied")
	_, err = s.Get(ctx, "students")
	assert.EqualError(t, err, "getting students: access denied")
	assert.EqualError(t, s.Put(ctx, "students", nil), "putting students: access denied")
}
