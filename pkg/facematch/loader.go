package facematch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/aster/pkg/embedding"
	"github.com/Ramsey-B/aster/pkg/models"
)

// Loader bootstraps a Gallery from flat files. The chain is CSV file,
// then a directory of face images embedded deterministically, then an
// empty gallery. Missing sources are never fatal.
type Loader struct {
	logger ectologger.Logger
}

// NewLoader creates a gallery loader
func NewLoader(logger ectologger.Logger) *Loader {
	return &Loader{logger: logger}
}

// Bootstrap fills the gallery from the first available source.
func (l *Loader) Bootstrap(gallery *Gallery, csvPath, imageDir string) {
	if csvPath != "" {
		if err := l.LoadCSV(gallery, csvPath); err != nil {
			l.logger.WithError(err).Warnf("Failed to load face embeddings from %s", csvPath)
		} else {
			l.logger.Infof("Loaded %d face embeddings from %s", gallery.Size(), csvPath)
			return
		}
	}

	if imageDir != "" {
		if err := l.LoadImageDir(gallery, imageDir); err != nil {
			l.logger.WithError(err).Warnf("Failed to build face embeddings from %s", imageDir)
		} else if gallery.Size() > 0 {
			l.logger.Infof("Built %d face embeddings from images in %s", gallery.Size(), imageDir)
			return
		}
	}

	l.logger.Warn("No face embedding source available; gallery is empty")
}

// LoadCSV loads a gallery from a CSV file with a required face_id
// column and optional entity_id/name columns. Embeddings are either a
// single embedding/vector column holding a JSON float list, or every
// remaining numeric column taken as one dimension each.
func (l *Loader) LoadCSV(gallery *Gallery, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(rows) < 2 {
		return fmt.Errorf("csv %s has no data rows", path)
	}

	header := rows[0]
	faceIDCol := -1
	entityIDCol := -1
	nameCol := -1
	embedCol := -1
	var dimCols []int

	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "face_id":
			faceIDCol = i
		case "entity_id":
			entityIDCol = i
		case "name":
			nameCol = i
		case "embedding", "vector":
			embedCol = i
		default:
			dimCols = append(dimCols, i)
		}
	}

	if faceIDCol < 0 {
		return fmt.Errorf("csv %s is missing the face_id column", path)
	}
	if embedCol < 0 && len(dimCols) == 0 {
		return fmt.Errorf("csv %s has no embedding column and no numeric columns", path)
	}

	vectors := make([][]float64, 0, len(rows)-1)
	entries := make([]models.GalleryEntry, 0, len(rows)-1)

	for i, row := range rows[1:] {
		var vec []float64
		if embedCol >= 0 {
			if err := json.Unmarshal([]byte(row[embedCol]), &vec); err != nil {
				return fmt.Errorf("row %d: invalid embedding list: %w", i+1, err)
			}
		} else {
			vec = make([]float64, 0, len(dimCols))
			for _, c := range dimCols {
				v, err := strconv.ParseFloat(strings.TrimSpace(row[c]), 64)
				if err != nil {
					return fmt.Errorf("row %d: column %q is not numeric: %w", i+1, header[c], err)
				}
				vec = append(vec, v)
			}
		}

		entry := models.GalleryEntry{FaceID: row[faceIDCol]}
		if entityIDCol >= 0 {
			entry.EntityID = row[entityIDCol]
		}
		if nameCol >= 0 {
			entry.Name = row[nameCol]
		}

		vectors = append(vectors, vec)
		entries = append(entries, entry)
	}

	return gallery.Load(vectors, entries)
}

// LoadImageDir builds the gallery from face image files, embedding the
// raw bytes deterministically. The face id is the filename stem; face
// ids of the form F... derive an entity id by swapping the prefix to E.
func (l *Loader) LoadImageDir(gallery *Gallery, dir string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var vectors [][]float64
	var entries []models.GalleryEntry

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(file.Name()))
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			l.logger.WithError(err).Warnf("Failed to read image %s", file.Name())
			continue
		}

		faceID := strings.TrimSuffix(file.Name(), filepath.Ext(file.Name()))
		entry := models.GalleryEntry{FaceID: faceID}
		if strings.HasPrefix(faceID, "F") {
			entry.EntityID = strings.ReplaceAll(faceID, "F", "E")
		}

		vectors = append(vectors, embedding.GenerateDim(data, embedding.DefaultDim))
		entries = append(entries, entry)
	}

	return gallery.Load(vectors, entries)
}
