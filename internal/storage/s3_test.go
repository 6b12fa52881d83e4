package storage_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dom/auth-starter/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves the handful of path-style S3 calls the store makes.
type fakeS3 struct {
	mu      sync.Mutex
	bucket  string
	objects map[string][]byte
}

func newFakeS3(t *testing.T, bucket string) (*fakeS3, *httptest.Server) {
	t.Helper()
	f := &fakeS3{bucket: bucket, objects: map[string][]byte{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeS3) get(key string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[key]
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	trimmed := strings.TrimPrefix(r.URL.Path, "/"+f.bucket)
	key := strings.TrimPrefix(trimmed, "/")

	switch {
	case r.Method == http.MethodPut && key != "":
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = body
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodDelete && key != "":
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodGet && key == "" && r.URL.Query().Get("list-type") == "2":
		prefix := r.URL.Query().Get("prefix")
		var contents strings.Builder
		count := 0
		for k, v := range f.objects {
			if !strings.HasPrefix(k, prefix) {
				continue
			}
			count++
			fmt.Fprintf(&contents, "<Contents><Key>%s</Key><Size>%d</Size><LastModified>2024-01-02T03:04:05.000Z</LastModified></Contents>", k, len(v))
		}
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?><ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/"><Name>%s</Name><Prefix>%s</Prefix><KeyCount>%d</KeyCount><MaxKeys>1000</MaxKeys><IsTruncated>false</IsTruncated>%s</ListBucketResult>`,
			f.bucket, prefix, count, contents.String())
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newStore(t *testing.T, endpoint string) *storage.S3Store {
	t.Helper()
	store, err := storage.NewS3Store(context.Background(), storage.Config{
		Region:     "us-east-1",
		Bucket:     "uploads",
		AccessKey:  "minioadmin",
		SecretKey:  "minioadmin",
		Endpoint:   endpoint,
		PresignTTL: 10 * time.Minute,
	})
	require.NoError(t, err)
	return store
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := storage.NewS3Store(context.Background(), storage.Config{Region: "us-east-1"})
	assert.ErrorIs(t, err, storage.ErrNotConfigured)
}

func TestS3Store_UploadListDelete(t *testing.T) {
	fake, srv := newFakeS3(t, "uploads")
	store := newStore(t, srv.URL)
	ctx := context.Background()

	data := []byte("hello world")
	require.NoError(t, store.Upload(ctx, "users/1/a.txt", bytes.NewReader(data), int64(len(data)), "text/plain"))
	require.NoError(t, store.Upload(ctx, "users/2/b.txt", bytes.NewReader(data), int64(len(data)), ""))
	assert.Equal(t, data, fake.get("users/1/a.txt"))

	objects, err := store.List(ctx, "users/1/")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "users/1/a.txt", objects[0].Key)
	assert.Equal(t, int64(len(data)), objects[0].Size)

	require.NoError(t, store.Delete(ctx, "users/1/a.txt"))
	objects, err = store.List(ctx, "users/1/")
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestS3Store_SignedURL(t *testing.T) {
	store := newStore(t, "http://127.0.0.1:9000")

	raw, err := store.SignedURL(context.Background(), "users/1/2024/01/02/report.pdf")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", u.Host)
	assert.Equal(t, "/uploads/users/1/2024/01/02/report.pdf", u.Path)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestKeys(t *testing.T) {
	now := time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC)
	key := storage.NewUserKey(7, `C:\photos\my avatar.png`, now)

	assert.True(t, strings.HasPrefix(key, "users/7/2024/03/07/"), key)
	assert.True(t, strings.HasSuffix(key, "-my_avatar.png"), key)
	assert.True(t, storage.OwnedBy(key, 7))
	assert.False(t, storage.OwnedBy(key, 70))
	assert.False(t, storage.OwnedBy("users/7/../8/secret", 7))
	assert.True(t, strings.HasSuffix(storage.NewUserKey(7, "..", now), "-file"))
}
