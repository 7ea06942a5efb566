package imagestore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/sighting-registry/internal/domain"
)

// fakeObjects is a hand-written test double for objectAPI.
type fakeObjects struct {
	put    func(in *s3.PutObjectInput) error
	delete func(in *s3.DeleteObjectInput) error
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return &s3.PutObjectOutput{}, f.put(in)
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	return &s3.DeleteObjectOutput{}, f.delete(in)
}

var _ objectAPI = (*fakeObjects)(nil)

var gifBytes = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestS3_Save_PutsObject(t *testing.T) {
	var got *s3.PutObjectInput
	fake := &fakeObjects{put: func(in *s3.PutObjectInput) error { got = in; return nil }}
	store := newS3(fake, S3Config{Bucket: "photos", Endpoint: "http://minio:9000/"}, Policy{}, discardLogger())

	key, err := store.Save(context.Background(), Upload{Filename: "x.gif", Size: int64(len(gifBytes)), Content: bytes.NewReader(gifBytes)}, "sightings")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "photos", aws.ToString(got.Bucket))
	assert.Equal(t, key, aws.ToString(got.Key))
	assert.Equal(t, "image/gif", aws.ToString(got.ContentType))
	assert.True(t, strings.HasPrefix(key, "images/sightings/"))
	assert.Equal(t, "http://minio:9000/photos/"+key, store.URL(key))
}

func TestS3_Save_PolicyRejectsBeforeUpload(t *testing.T) {
	fake := &fakeObjects{put: func(*s3.PutObjectInput) error {
		t.Fatal("PutObject must not be called")
		return nil
	}}
	store := newS3(fake, S3Config{Bucket: "photos"}, Policy{}, discardLogger())

	_, err := store.Save(context.Background(), Upload{Filename: "x.txt", Content: strings.NewReader("hi")}, "sightings")

	assert.ErrorIs(t, err, domain.ErrUnsupportedMedia)
}

func TestS3_Delete_SwallowsErrors(t *testing.T) {
	fake := &fakeObjects{delete: func(*s3.DeleteObjectInput) error { return errors.New("boom") }}
	store := newS3(fake, S3Config{Bucket: "photos"}, Policy{}, discardLogger())

	assert.False(t, store.Delete(context.Background(), "images/sightings/a.gif"))
}

func TestS3_URL_Defaults(t *testing.T) {
	virtualHost := newS3(&fakeObjects{}, S3Config{Bucket: "photos", Region: "eu-west-1"}, Policy{}, discardLogger())
	public := newS3(&fakeObjects{}, S3Config{Bucket: "photos", PublicURL: "https://cdn.example.com/"}, Policy{}, discardLogger())

	assert.Equal(t, "https://photos.s3.eu-west-1.amazonaws.com/images/a.gif", virtualHost.URL("images/a.gif"))
	assert.Equal(t, "https://cdn.example.com/images/a.gif", public.URL("images/a.gif"))
	assert.Equal(t, "", public.URL(""))
}
