package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// TextExtractor turns an uploaded file into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, fileName, fileType string, data []byte) (string, error)
}

type OCRService struct {
	logger *zap.Logger
}

func NewOCRService(logger *zap.Logger) *OCRService {
	return &OCRService{logger: logger}
}

// ExtractText reads PDFs with go-fitz and passes text files through.
// Other formats return ErrUnsupportedFormat.
func (s *OCRService) ExtractText(ctx context.Context, fileName, fileType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	switch {
	case ext == ".pdf" || fileType == "application/pdf":
		text, err := s.extractTextFromPDF(fileName, data)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from PDF: %w", err)
		}
		return text, nil
	case strings.HasPrefix(fileType, "text/") || ext == ".txt" || ext == ".md" || ext == ".csv":
		return strings.TrimSpace(sanitizeUTF8(string(data))), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, fileName)
	}
}

func (s *OCRService) extractTextFromPDF(fileName string, data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var textBuilder strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			s.logger.Warn("Failed to extract text from page",
				zap.Int("page", i+1),
				zap.String("file", fileName),
				zap.Error(err),
			)
			continue
		}

		if pageText != "" {
			textBuilder.WriteString(pageText)
			textBuilder.WriteString("\n")
		}
	}

	text := strings.TrimSpace(sanitizeUTF8(textBuilder.String()))

	s.logger.Info("PDF text extracted using go-fitz",
		zap.String("file", fileName),
		zap.Int("pages", doc.NumPage()),
		zap.Int("text_length", len(text)),
	)

	return text, nil
}
