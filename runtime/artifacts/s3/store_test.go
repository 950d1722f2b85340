package s3

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AltairaLabs/speechkit/runtime/artifacts"
)

type fakeObjects struct {
	bucket, key string
	body        string
	opts        minio.PutObjectOptions
	putErr      error
}

func (f *fakeObjects) PutObject(_ context.Context, bucket, object string, r io.Reader, _ int64,
	opts minio.PutObjectOptions,
) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	data, _ := io.ReadAll(r)
	f.bucket, f.key, f.body, f.opts = bucket, object, string(data), opts
	return minio.UploadInfo{Bucket: bucket, Key: object, Size: int64(len(data))}, nil
}

func (f *fakeObjects) PresignedGetObject(_ context.Context, bucket, object string, expiry time.Duration,
	_ url.Values,
) (*url.URL, error) {
	return url.Parse("https://signed.example.com/" + bucket + "/" + object + "?X-Amz-Expires=" + expiry.String())
}

func fixedNow() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) }

func TestPut_PublicURL(t *testing.T) {
	fake := &fakeObjects{}
	s := newStore(fake, Config{Endpoint: "s3.example.com", Bucket: "speech", Prefix: "tts", Secure: true})
	s.now = fixedNow

	art, err := s.Put(context.Background(), strings.NewReader("audio"), 5, "output audio.mp3", "Generated file")
	require.NoError(t, err)

	assert.Equal(t, "speech", fake.bucket)
	assert.Equal(t, "tts/2025-03-01/output audio.mp3", fake.key)
	assert.Equal(t, "audio", fake.body)
	assert.Equal(t, "audio/mpeg", fake.opts.ContentType)
	assert.Equal(t, "Generated file", fake.opts.UserMetadata["description"])
	assert.Equal(t, "https://s3.example.com/speech/tts/2025-03-01/output%20audio.mp3", art.Reference)
	assert.Equal(t, int64(5), art.Size)
	assert.Equal(t, "output audio.mp3", art.Name)
}

func TestPut_ContentTypeOption(t *testing.T) {
	fake := &fakeObjects{}
	s := newStore(fake, Config{Endpoint: "s3.example.com", Bucket: "speech"})

	art, err := s.Put(context.Background(), strings.NewReader("x"), 1, "clip", "", artifacts.WithContentType("audio/ogg"))
	require.NoError(t, err)
	assert.Equal(t, "audio/ogg", fake.opts.ContentType)
	assert.Equal(t, "audio/ogg", art.ContentType)
}

func TestPut_Presigned(t *testing.T) {
	s := newStore(&fakeObjects{}, Config{Endpoint: "minio:9000", Bucket: "b", PresignExpiry: time.Hour})
	s.now = fixedNow

	art, err := s.Put(context.Background(), strings.NewReader("x"), 1, "a.mp3", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(art.Reference, "https://signed.example.com/b/2025-03-01/a.mp3"))
}

func TestPut_PublicBaseURLOverride(t *testing.T) {
	s := newStore(&fakeObjects{}, Config{Endpoint: "minio:9000", Bucket: "b", PublicBaseURL: "https://cdn.example.com/"})
	s.now = fixedNow

	art, err := s.Put(context.Background(), strings.NewReader("x"), 1, "../a.mp3", "")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/b/2025-03-01/a.mp3", art.Reference)
}

func TestPut_UploadError(t *testing.T) {
	s := newStore(&fakeObjects{putErr: errors.New("denied")}, Config{Endpoint: "e", Bucket: "b"})

	_, err := s.Put(context.Background(), strings.NewReader("x"), 1, "a.mp3", "")
	assert.ErrorContains(t, err, "denied")
}

func TestNew_RequiresEndpointAndBucket(t *testing.T) {
	_, err := New(context.Background(), Config{Bucket: "b"})
	assert.Error(t, err)
	_, err = New(context.Background(), Config{Endpoint: "e"})
	assert.Error(t, err)
}
