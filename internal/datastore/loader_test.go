// internal/datastore/loader_test.go
package datastore

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bristermitten/hot-takes/internal/common/errors"
	"github.com/bristermitten/hot-takes/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func baseDocument() map[string]interface{} {
	return map[string]interface{}{
		"people":       []interface{}{"Linus"},
		"companies":    []interface{}{},
		"languages":    []interface{}{"Go"},
		"technologies": []interface{}{},
		"problems":     []interface{}{},
		"tlds":         []interface{}{},
		"takes":        []interface{}{"{language} rocks"},
	}
}

func encode(t *testing.T, doc map[string]interface{}) []byte {
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	return raw
}

// ==========================
// Load Tests
// ==========================

func TestLoad_ValidFile(t *testing.T) {
	data, err := Load(filepath.Join("testdata", "valid.json5"))

	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"people":       2,
		"companies":    1,
		"languages":    2,
		"technologies": 0,
		"problems":     1,
		"tlds":         1,
		"takes":        3,
	}, data.Counts())

	assert.Equal(t, models.Bare("Linus Torvalds"), data.People[0])
	assert.Equal(t, models.WithImage("Ada Lovelace", "people/ada.png"), data.People[1])
	assert.Equal(t, models.Template("{language} is the future"), data.Takes[0])
	assert.Equal(t, models.Template("{person} was right about {problem}", "right.png"), data.Takes[1])
	assert.Equal(t, []string{"a.png", "b.png"}, data.Takes[2].Images)
	assert.NotNil(t, data.Technologies)
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.json5")

	data, err := Load(path)

	require.Error(t, err)
	assert.Nil(t, data)
	assert.ErrorIs(t, err, errors.ErrDataResource)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, path, errors.AsStandardError(err).Metadata["path"])
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json5")
	require.NoError(t, os.WriteFile(path, encode(t, baseDocument()), 0o600))

	store, err := Open(path)

	require.NoError(t, err)
	assert.Len(t, store.Data().Takes, 1)
}

// ==========================
// Parse Tests
// ==========================

func TestParse_Syntax(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "truncated object", input: `{"people": [`},
		{name: "not json at all", input: `people = ["a"]`},
		{name: "unquoted keys are not accepted", input: `{people: []}`},
		{name: "invalid utf-8", input: "{\"people\": [\"\xff\"], \"companies\": [], \"languages\": [], \"technologies\": [], \"problems\": [], \"tlds\": [], \"takes\": []}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Parse("inline", []byte(tt.input))

			require.Error(t, err)
			assert.Nil(t, data)
			assert.ErrorIs(t, err, errors.ErrDataResource)
		})
	}
}

func TestParse_CommentsAndTrailingCommas(t *testing.T) {
	input := `{
		// people
		"people": ["a",],
		"companies": [], "languages": [], "technologies": [],
		"problems": [], "tlds": [],
		"takes": ["t",], /* done */
	}`

	data, err := Parse("inline", []byte(input))

	require.NoError(t, err)
	assert.Equal(t, []models.TakeItem{models.Bare("a")}, data.People)
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc map[string]interface{})
	}{
		{
			name:   "missing collection",
			mutate: func(doc map[string]interface{}) { delete(doc, "takes") },
		},
		{
			name:   "collection is not a list",
			mutate: func(doc map[string]interface{}) { doc["people"] = "Linus" },
		},
		{
			name:   "item is a number",
			mutate: func(doc map[string]interface{}) { doc["languages"] = []interface{}{42} },
		},
		{
			name:   "item value is empty",
			mutate: func(doc map[string]interface{}) { doc["languages"] = []interface{}{""} },
		},
		{
			name: "item object without image",
			mutate: func(doc map[string]interface{}) {
				doc["companies"] = []interface{}{map[string]interface{}{"value": "IBM"}}
			},
		},
		{
			name: "item image is empty",
			mutate: func(doc map[string]interface{}) {
				doc["companies"] = []interface{}{map[string]interface{}{"value": "IBM", "image": ""}}
			},
		},
		{
			name:   "problem is an object",
			mutate: func(doc map[string]interface{}) { doc["problems"] = []interface{}{map[string]interface{}{"value": "x", "image": "y"}} },
		},
		{
			name: "take object without take",
			mutate: func(doc map[string]interface{}) {
				doc["takes"] = []interface{}{map[string]interface{}{"image": "a.png"}}
			},
		},
		{
			name: "take has five images",
			mutate: func(doc map[string]interface{}) {
				doc["takes"] = []interface{}{map[string]interface{}{
					"take":  "x",
					"image": []interface{}{"1.png", "2.png", "3.png", "4.png", "5.png"},
				}}
			},
		},
		{
			name: "take has an empty image list",
			mutate: func(doc map[string]interface{}) {
				doc["takes"] = []interface{}{map[string]interface{}{"take": "x", "image": []interface{}{}}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := baseDocument()
			tt.mutate(doc)

			data, err := Parse("inline", encode(t, doc))

			require.Error(t, err)
			assert.Nil(t, data)
			assert.ErrorIs(t, err, errors.ErrValidation)
		})
	}
}

func TestParse_AcceptedShapes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc map[string]interface{})
		check  func(t *testing.T, data *models.HotTakeData)
	}{
		{
			name: "four template images",
			mutate: func(doc map[string]interface{}) {
				doc["takes"] = []interface{}{map[string]interface{}{
					"take":  "x",
					"image": []interface{}{"1.png", "2.png", "3.png", "4.png"},
				}}
			},
			check: func(t *testing.T, data *models.HotTakeData) {
				assert.Len(t, data.Takes[0].Images, 4)
			},
		},
		{
			name: "take object without image",
			mutate: func(doc map[string]interface{}) {
				doc["takes"] = []interface{}{map[string]interface{}{"take": "plain"}}
			},
			check: func(t *testing.T, data *models.HotTakeData) {
				assert.Equal(t, models.Template("plain"), data.Takes[0])
			},
		},
		{
			name:   "empty takes list",
			mutate: func(doc map[string]interface{}) { doc["takes"] = []interface{}{} },
			check: func(t *testing.T, data *models.HotTakeData) {
				assert.Empty(t, data.Takes)
			},
		},
		{
			name:   "unrecognised top-level keys",
			mutate: func(doc map[string]interface{}) { doc["$schema"] = "./hotTakeData.schema.json" },
			check: func(t *testing.T, data *models.HotTakeData) {
				assert.Len(t, data.People, 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := baseDocument()
			tt.mutate(doc)

			data, err := Parse("inline", encode(t, doc))

			require.NoError(t, err)
			tt.check(t, data)
		})
	}
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	doc := baseDocument()
	delete(doc, "people")
	doc["languages"] = []interface{}{7}

	err := Validate(encode(t, doc))

	require.Error(t, err)
	stdErr := errors.AsStandardError(err)
	assert.Equal(t, errors.ErrCodeDataValidationFailed, stdErr.Code)
	assert.GreaterOrEqual(t, stdErr.Metadata["violations"], 2)
	assert.Contains(t, stdErr.Details, "people")
}
