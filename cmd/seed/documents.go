package main

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"docportal/internal/models"
	"docportal/internal/service"

	"go.uber.org/zap"
)

type documentCreator interface {
	Create(ctx context.Context, in service.CreateDocumentInput) (*models.Document, error)
}

// ProcessedFile represents an uploaded sample file in cache
type ProcessedFile struct {
	FilePath    string    `json:"file_path"`
	FileHash    string    `json:"file_hash"`
	DocumentID  string    `json:"document_id"`
	ProcessedAt time.Time `json:"processed_at"`
}

// CacheData stores information about uploaded files
type CacheData struct {
	ProcessedFiles map[string]ProcessedFile `json:"processed_files"` // key: file path
}

func loadCache(cacheFile string) (*CacheData, error) {
	cache := &CacheData{
		ProcessedFiles: make(map[string]ProcessedFile),
	}

	data, err := os.ReadFile(cacheFile)
	if errors.Is(err, os.ErrNotExist) {
		return cache, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	if len(data) == 0 {
		return cache, nil
	}

	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}
	if cache.ProcessedFiles == nil {
		cache.ProcessedFiles = make(map[string]ProcessedFile)
	}
	return cache, nil
}

func saveCache(cacheFile string, cache *CacheData) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}
	if err := os.WriteFile(cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

func calculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}
	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

// seedDocuments uploads every file in dir as a pending document. Files whose
// hash matches the cache are skipped so reruns do not duplicate documents.
func seedDocuments(
	ctx context.Context,
	dir string,
	cacheFile string,
	uploadedBy string,
	docs documentCreator,
	logger *zap.Logger,
) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		logger.Info("No sample documents directory, skipping", zap.String("dir", dir))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	cache, err := loadCache(cacheFile)
	if err != nil {
		logger.Warn("Failed to load cache, will upload all files", zap.Error(err))
		cache = &CacheData{ProcessedFiles: make(map[string]ProcessedFile)}
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		fileHash, err := calculateFileHash(path)
		if err != nil {
			logger.Warn("Failed to hash file, skipping", zap.String("path", path), zap.Error(err))
			continue
		}
		if cached, ok := cache.ProcessedFiles[path]; ok && cached.FileHash == fileHash {
			logger.Info("Sample document already uploaded, skipping",
				zap.String("path", path),
				zap.String("document_id", cached.DocumentID),
			)
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Failed to read file, skipping", zap.String("path", path), zap.Error(err))
			continue
		}

		doc, err := docs.Create(ctx, service.CreateDocumentInput{
			Title:      titleFromFilename(entry.Name()),
			Category:   "General",
			UploadedBy: uploadedBy,
			FileName:   entry.Name(),
			FileType:   mime.TypeByExtension(filepath.Ext(entry.Name())),
			Data:       data,
		})
		if err != nil {
			logger.Error("Failed to upload sample document", zap.String("path", path), zap.Error(err))
			continue
		}
		logger.Info("Uploaded sample document", zap.String("title", doc.Title), zap.String("id", doc.ID))

		cache.ProcessedFiles[path] = ProcessedFile{
			FilePath:    path,
			FileHash:    fileHash,
			DocumentID:  doc.ID,
			ProcessedAt: time.Now().UTC(),
		}
	}

	if err := saveCache(cacheFile, cache); err != nil {
		logger.Warn("Failed to save cache", zap.Error(err))
	} else {
		logger.Info("Cache saved", zap.Int("processed_files", len(cache.ProcessedFiles)))
	}
	return nil
}

// titleFromFilename turns "safety_manual-v2.pdf" into "Safety Manual V2".
func titleFromFilename(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)

	words := strings.Fields(name)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
