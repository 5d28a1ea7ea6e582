// Package datastore loads and validates the hot take data file and holds the
// validated data for the generator.
package datastore

import (
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/tailscale/hujson"
	"github.com/xeipuuv/gojsonschema"

	"github.com/bristermitten/hot-takes/internal/common/errors"
	"github.com/bristermitten/hot-takes/internal/models"
)

// Load reads and validates the data file at path. It is the only place the file
// is read; do it once at startup.
func Load(path string) (*models.HotTakeData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewResourceError(path, err)
	}
	return Parse(path, raw)
}

// Parse validates raw data file contents. source names the input in errors.
//
// Comments and trailing commas are accepted; other JSON5 extensions (unquoted
// keys, single-quoted strings, hex literals) are not. Input must be valid UTF-8.
func Parse(source string, raw []byte) (*models.HotTakeData, error) {
	if !utf8.Valid(raw) {
		return nil, errors.NewResourceError(source, fmt.Errorf("data is not valid UTF-8"))
	}

	standard, err := hujson.Standardize(raw)
	if err != nil {
		return nil, errors.NewResourceError(source, err)
	}

	if err := Validate(standard); err != nil {
		return nil, err
	}

	var data models.HotTakeData
	if err := json.Unmarshal(standard, &data); err != nil {
		return nil, errors.NewValidationError([]string{err.Error()})
	}
	return &data, nil
}

// Validate checks strict JSON against Schema(). Every violation is reported in
// a single ValidationError.
func Validate(document []byte) error {
	schema, err := compiled()
	if err != nil {
		return fmt.Errorf("compile hot take schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return errors.NewResourceError("document", err)
	}

	if !result.Valid() {
		problems := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			problems[i] = desc.String()
		}
		return errors.NewValidationError(problems)
	}
	return nil
}
