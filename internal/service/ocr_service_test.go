package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOCRService_PlainText(t *testing.T) {
	s := NewOCRService(zap.NewNop())

	text, err := s.ExtractText(context.Background(), "notes.txt", "text/plain", []byte("  line one\nline two \xff "))
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", text)
}

func TestOCRService_Unsupported(t *testing.T) {
	s := NewOCRService(zap.NewNop())

	_, err := s.ExtractText(context.Background(), "scan.png", "image/png", []byte{0x89, 0x50})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestOCRService_BrokenPDF(t *testing.T) {
	s := NewOCRService(zap.NewNop())

	_, err := s.ExtractText(context.Background(), "broken.pdf", "application/pdf", []byte("not a pdf"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedFormat)
}
