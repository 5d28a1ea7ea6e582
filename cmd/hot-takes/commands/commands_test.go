package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

const testConfig = `
app:
  name: hot-takes-test
post:
  suffix: "#hottake"
logging:
  level: error
  format: console
  output: stderr
`

const testData = `{
	// one template per shape
	"people": [],
	"companies": [],
	"languages": ["C++"],
	"technologies": [],
	"problems": [],
	"tlds": [],
	"takes": ["{language} is great"],
}`

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

type fixture struct {
	dir    string
	config string
	data   string
}

func newFixture(t *testing.T, data string) fixture {
	dir := t.TempDir()
	return fixture{
		dir:    dir,
		config: writeFile(t, dir, "config.yaml", testConfig),
		data:   writeFile(t, dir, "hotTakeData.json5", data),
	}
}

func (f fixture) run(t *testing.T, args ...string) (string, error) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--config", f.config, "--data", f.data}, args...))
	err := root.Execute()
	return out.String(), err
}

// ==========================
// Generate Tests
// ==========================

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{name: "plain", args: []string{"generate"}, expected: "C++ is great\n"},
		{name: "suffix", args: []string{"generate", "--suffix"}, expected: "C++ is great #hottake\n"},
		{name: "count", args: []string{"generate", "-n", "3", "--seed", "9"}, expected: strings.Repeat("C++ is great\n", 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, testData)

			out, err := f.run(t, tt.args...)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestGenerate_JSON(t *testing.T) {
	f := newFixture(t, testData)

	out, err := f.run(t, "generate", "--json")

	require.NoError(t, err)
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "C++ is great", result["take"])
	assert.NotContains(t, result, "images")
}

func TestGenerate_Extra(t *testing.T) {
	data := strings.Replace(testData, `"{language} is great"`, `"{person} is great"`, 1)
	f := newFixture(t, data)

	out, err := f.run(t, "generate", "--extra", "Ada Lovelace")

	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace is great\n", out)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		args    []string
		wantErr string
	}{
		{name: "bad count", data: testData, args: []string{"generate", "-n", "0"}, wantErr: "--count"},
		{name: "invalid data", data: `{"people": []}`, args: []string{"generate"}, wantErr: "DATA_VALIDATION_FAILED"},
		{name: "broken syntax", data: `{"people": [`, args: []string{"generate"}, wantErr: "DATA_RESOURCE_ERROR"},
		{
			name:    "empty pool",
			data:    strings.Replace(testData, `"{language} is great"`, `"{problem}"`, 1),
			args:    []string{"generate"},
			wantErr: "EMPTY_DATA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.data)

			_, err := f.run(t, tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// ==========================
// Schema & Validate Tests
// ==========================

func TestSchema_Stdout(t *testing.T) {
	f := newFixture(t, testData)

	out, err := f.run(t, "schema", "-o", "-")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{\n    \"$schema\""))
}

func TestSchema_File(t *testing.T) {
	f := newFixture(t, testData)
	target := filepath.Join(f.dir, "out.schema.json")

	_, err := f.run(t, "schema", "--output", target)

	require.NoError(t, err)
	raw, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, json.Valid(raw))
}

func TestValidate(t *testing.T) {
	data := strings.Replace(testData, `"{language} is great"`, `"{language} is great", "{languag} typo"`, 1)
	f := newFixture(t, data)

	out, err := f.run(t, "validate")

	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
	assert.Contains(t, out, "languages     1")
	assert.Contains(t, out, "takes         2")
	assert.Contains(t, out, "warning: take 1 uses unknown placeholder(s) languag")
}

func TestValidate_ExplicitPath(t *testing.T) {
	f := newFixture(t, testData)
	broken := writeFile(t, f.dir, "broken.json5", `{"takes": 3}`)

	_, err := f.run(t, "validate", broken)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.json5 is invalid")
}

func TestApplySuffix(t *testing.T) {
	assert.Equal(t, "take", applySuffix("take", ""))
	assert.Equal(t, "take #tag", applySuffix("take", "#tag"))
}
