package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docportal/internal/apperr"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var ErrInvalidRef = errors.New("invalid file reference")

// LocalStore keeps blobs as plain files under a single directory. Refs are
// flat file names; anything that could escape the directory is rejected.
type LocalStore struct {
	dir        string
	publicURL  string
	signingKey []byte
	logger     *zap.Logger
}

func NewLocalStore(dir, publicURL, signingKey string, logger *zap.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &LocalStore{
		dir:        dir,
		publicURL:  strings.TrimRight(publicURL, "/"),
		signingKey: []byte(signingKey),
		logger:     logger,
	}, nil
}

// Put writes data under ref. Writing the same ref twice replaces the blob,
// so retries are safe.
func (s *LocalStore) Put(ctx context.Context, ref string, data []byte) error {
	path, err := s.path(ref)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", ref, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", ref, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("storing %s: %w", ref, err)
	}

	s.logger.Debug("Blob stored", zap.String("ref", ref), zap.Int("size", len(data)))
	return nil
}

func (s *LocalStore) Get(ctx context.Context, ref string) ([]byte, error) {
	path, err := s.path(ref)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.NotFound("file %s", ref)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ref, err)
	}
	return data, nil
}

// Delete removes the blob. A missing blob is not an error.
func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	path, err := s.path(ref)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting %s: %w", ref, err)
	}
	return nil
}

// Path returns the on-disk location of ref.
func (s *LocalStore) Path(ref string) (string, error) {
	return s.path(ref)
}

func (s *LocalStore) path(ref string) (string, error) {
	if ref == "" || ref != filepath.Base(ref) || strings.HasPrefix(ref, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	return filepath.Join(s.dir, ref), nil
}

type fileClaims struct {
	Ref string `json:"ref"`
	jwt.RegisteredClaims
}

// SignedURL returns a link to ref that stays valid for ttl.
func (s *LocalStore) SignedURL(ref string, ttl time.Duration) (string, time.Time, error) {
	if _, err := s.path(ref); err != nil {
		return "", time.Time{}, err
	}

	expiresAt := time.Now().Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, fileClaims{
		Ref: ref,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing url for %s: %w", ref, err)
	}

	return fmt.Sprintf("%s/files/%s?token=%s", s.publicURL, url.PathEscape(ref), url.QueryEscape(signed)), expiresAt, nil
}

// VerifyToken checks that token was issued by SignedURL for ref and has not
// expired.
func (s *LocalStore) VerifyToken(ref, token string) error {
	claims := &fileClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return apperr.ErrForbidden
	}
	if claims.Ref != ref {
		return apperr.ErrForbidden
	}
	return nil
}
