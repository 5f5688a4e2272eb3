// Package fixtures loads the reference catalogues (ingredients and tags)
// from data files. Loading is idempotent: existing rows are left untouched.
package fixtures

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/types"
)

// Result counts what a load did.
type Result struct {
	Created  int
	Existing int
}

func (r *Result) record(created bool) {
	if created {
		r.Created++
	} else {
		r.Existing++
	}
}

// LoadIngredients reads "name,unit" rows. Blank rows are skipped.
func LoadIngredients(ctx context.Context, r io.Reader, repo repository.IngredientRepository) (Result, error) {
	var res Result

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			return res, fmt.Errorf("failed to read ingredients: %w", err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		line, _ := reader.FieldPos(0)
		if len(record) != 2 {
			return res, fmt.Errorf("line %d: expected 2 fields (name,unit), got %d", line, len(record))
		}

		name, unit := strings.TrimSpace(record[0]), strings.TrimSpace(record[1])
		if name == "" || unit == "" {
			return res, fmt.Errorf("line %d: name and unit are required", line)
		}

		created, err := repo.GetOrCreate(ctx, name, unit)
		if err != nil {
			return res, fmt.Errorf("line %d: failed to store ingredient %q: %w", line, name, err)
		}
		res.record(created)
	}
}

// LoadTags reads a YAML list of {name, color, slug}. Every entry is
// validated before any is written.
func LoadTags(ctx context.Context, r io.Reader, repo repository.TagRepository, v *validator.Validate) (Result, error) {
	var res Result

	var inputs []types.TagInput
	if err := yaml.NewDecoder(r).Decode(&inputs); err != nil && !errors.Is(err, io.EOF) {
		return res, fmt.Errorf("failed to parse tags: %w", err)
	}

	for i, in := range inputs {
		if err := v.Struct(in); err != nil {
			return res, fmt.Errorf("tag #%d (%s): %w", i+1, in.Slug, err)
		}
	}

	for _, in := range inputs {
		tag := &models.Tag{Name: in.Name, Color: strings.ToUpper(in.Color), Slug: in.Slug}
		created, err := repo.GetOrCreate(ctx, tag)
		if err != nil {
			return res, fmt.Errorf("failed to store tag %q: %w", in.Slug, err)
		}
		res.record(created)
	}
	return res, nil
}
