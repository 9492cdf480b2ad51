package collector

import (
	"fmt"

	"StockAnalysis/internal/loader"
	"StockAnalysis/internal/model"
)

// Source produces the daily records for one run.
type Source interface {
	Load() ([]model.Record, error)
	Name() string
}

// FileSource reads a local CSV file.
type FileSource struct {
	Path string
}

// NewFileSource creates a FileSource.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (f *FileSource) Name() string { return "file:" + f.Path }

func (f *FileSource) Load() ([]model.Record, error) {
	records, err := loader.LoadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("file source: %w", err)
	}
	return records, nil
}
