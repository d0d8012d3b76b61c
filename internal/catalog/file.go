package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"destination-recommender/internal/models"

	"gopkg.in/yaml.v3"
)

// FileSource reads a JSON or YAML array of destinations. The format follows
// the file extension; anything other than .yaml/.yml is parsed as JSON.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Load(ctx context.Context) ([]models.Destination, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, loadFailed(s.Name(), fmt.Errorf("read %s: %w", s.path, err))
	}

	var items []models.Destination
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &items)
	default:
		err = json.Unmarshal(data, &items)
	}
	if err != nil {
		return nil, loadFailed(s.Name(), fmt.Errorf("decode %s: %w", s.path, err))
	}
	return items, nil
}
