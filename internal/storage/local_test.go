package storage

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"docportal/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(t.TempDir(), "http://localhost:8080/", "file-secret", zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestPutGetDelete(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "doc.pdf", []byte("v1")))
	require.NoError(t, s.Put(ctx, "doc.pdf", []byte("v2")))

	data, err := s.Get(ctx, "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))

	require.NoError(t, s.Delete(ctx, "doc.pdf"))
	require.NoError(t, s.Delete(ctx, "doc.pdf"))

	_, err = s.Get(ctx, "doc.pdf")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	entries, err := os.ReadDir(s.dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no temp files left behind")
}

func TestPut_RejectsEscapingRefs(t *testing.T) {
	s := newStore(t)
	for _, ref := range []string{"", "../x", "a/b", ".hidden"} {
		assert.ErrorIs(t, s.Put(context.Background(), ref, nil), ErrInvalidRef, ref)
	}
}

func TestPut_CancelledContext(t *testing.T) {
	s := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Put(ctx, "doc.pdf", []byte("x")), context.Canceled)
	_, err := os.Stat(filepath.Join(s.dir, "doc.pdf"))
	assert.True(t, os.IsNotExist(err))
}

func TestSignedURL(t *testing.T) {
	s := newStore(t)

	link, expiresAt, err := s.SignedURL("doc.pdf", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "http://localhost:8080/files/doc.pdf?token="))
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 5*time.Second)

	u, err := url.Parse(link)
	require.NoError(t, err)
	token := u.Query().Get("token")

	assert.NoError(t, s.VerifyToken("doc.pdf", token))
	assert.ErrorIs(t, s.VerifyToken("other.pdf", token), apperr.ErrForbidden)
	assert.ErrorIs(t, s.VerifyToken("doc.pdf", token+"x"), apperr.ErrForbidden)

	expired, _, err := s.SignedURL("doc.pdf", -time.Minute)
	require.NoError(t, err)
	u, err = url.Parse(expired)
	require.NoError(t, err)
	assert.ErrorIs(t, s.VerifyToken("doc.pdf", u.Query().Get("token")), apperr.ErrForbidden)
}
