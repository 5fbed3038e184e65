package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"loxo-bridge/pkg/models"
)

// FileSource is a ResumeSource backed by a file on disk
type FileSource struct {
	Path string
}

// Ready reports whether the file exists yet
func (s *FileSource) Ready() bool {
	info, err := os.Stat(s.Path)
	return err == nil && !info.IsDir()
}

// Resume reads the file. Returns (nil, nil) while the file is absent, which
// the form reports as ErrNoResume at submit time.
func (s *FileSource) Resume() (*models.ResumeFile, error) {
	content, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}

	return &models.ResumeFile{
		Filename:    filepath.Base(s.Path),
		ContentType: resumeContentType(s.Path),
		Content:     content,
	}, nil
}

func resumeContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return ""
	}
}
