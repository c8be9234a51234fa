package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type StorageService interface {
	Save(filename string, data []byte) (string, error)
	GetFilePath(filename string) string
	Exists(filename string) bool
	EnsureOutputDir() error
}

type storageService struct {
	outputPath string
}

func NewStorageService(outputPath string) StorageService {
	return &storageService{
		outputPath: outputPath,
	}
}

func (s *storageService) EnsureOutputDir() error {
	if err := os.MkdirAll(s.outputPath, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	return nil
}

// Save writes data under filename, replacing any existing file of that name.
func (s *storageService) Save(filename string, data []byte) (string, error) {
	if !IsPlainFilename(filename) {
		return "", fmt.Errorf("invalid file name: %q", filename)
	}
	if err := s.EnsureOutputDir(); err != nil {
		return "", err
	}

	filePath := s.GetFilePath(filename)
	tmp, err := os.CreateTemp(s.outputPath, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return filePath, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.outputPath, filename)
}

func (s *storageService) Exists(filename string) bool {
	if !IsPlainFilename(filename) {
		return false
	}
	info, err := os.Stat(s.GetFilePath(filename))
	return err == nil && info.Mode().IsRegular()
}

// IsPlainFilename reports whether name is a bare file name with no directory
// components.
func IsPlainFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}

// SanitizeFilenamePart replaces path separators so user supplied names cannot
// escape the output directory.
func SanitizeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("/", "_", `\`, "_", "\x00", "").Replace(s)
	if s == "." || s == ".." {
		return "_"
	}
	return s
}
