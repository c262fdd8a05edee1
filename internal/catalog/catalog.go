// Package catalog loads the exercise catalog from YAML and seeds it into
// the exercise store.
//
// The default catalog is embedded in the binary. EXERCISE_CATALOG_PATH
// replaces it with a file of the same shape:
//
//	exercises:
//	  - name: Plank
//	    muscle_group: core
//	    equipment: bodyweight
//	    is_isometric: true
//	    movement_type: hold
//
// Seeding upserts by name, so running it on every start is safe.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sgt/fitapi/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed exercises.yaml
var defaultCatalog []byte

// ErrInvalidCatalog is returned when a catalog file fails to parse or
// validate
var ErrInvalidCatalog = errors.New("invalid exercise catalog")

type entry struct {
	Name         string `yaml:"name"`
	MuscleGroup  string `yaml:"muscle_group"`
	Equipment    string `yaml:"equipment"`
	IsIsometric  bool   `yaml:"is_isometric"`
	MovementType string `yaml:"movement_type"`
}

type document struct {
	Exercises []entry `yaml:"exercises"`
}

// Load reads the catalog at path, or the embedded default when path is empty
func Load(path string) ([]*model.Exercise, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading exercise catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog. Unknown keys, invalid entries
// and duplicate names are rejected.
func Parse(data []byte) ([]*model.Exercise, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	exercises := make([]*model.Exercise, 0, len(doc.Exercises))
	seen := make(map[string]int, len(doc.Exercises))
	var errs []error

	for i, e := range doc.Exercises {
		exercise := &model.Exercise{
			Name:         strings.TrimSpace(e.Name),
			MuscleGroup:  strings.TrimSpace(e.MuscleGroup),
			Equipment:    strings.TrimSpace(e.Equipment),
			IsIsometric:  e.IsIsometric,
			MovementType: strings.TrimSpace(e.MovementType),
		}

		if fieldErrs := exercise.Validate(); len(fieldErrs) > 0 {
			for _, fe := range fieldErrs {
				errs = append(errs, fmt.Errorf("exercise %d: %s", i+1, fe.Message))
			}
			continue
		}

		key := strings.ToLower(exercise.Name)
		if first, ok := seen[key]; ok {
			errs = append(errs, fmt.Errorf("exercise %d: duplicate name %q (first at %d)", i+1, exercise.Name, first))
			continue
		}
		seen[key] = i + 1
		exercises = append(exercises, exercise)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
	}
	return exercises, nil
}

// Store persists catalog exercises
type Store interface {
	Upsert(ctx context.Context, exercise *model.Exercise) (created bool, err error)
}

// SeedResult counts what a seed run changed
type SeedResult struct {
	Total   int
	Created int
}

// Seed upserts every exercise into store. It stops at the first failure.
func Seed(ctx context.Context, store Store, exercises []*model.Exercise, logger *slog.Logger) (SeedResult, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var result SeedResult
	for _, e := range exercises {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		created, err := store.Upsert(ctx, e)
		if err != nil {
			return result, fmt.Errorf("seeding %q: %w", e.Name, err)
		}
		result.Total++
		if created {
			result.Created++
		}
	}

	logger.Info("exercise catalog seeded",
		"total", result.Total,
		"created", result.Created,
	)
	return result, nil
}
