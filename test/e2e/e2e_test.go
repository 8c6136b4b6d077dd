package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compact(t testing.TB, s string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.Compact(&buf, []byte(s)))
	return buf.String()
}

// TestEndToEnd_ComplexNestedStructures converts a nested document through a file and back
func TestEndToEnd_ComplexNestedStructures(t *testing.T) {
	tempDir := t.TempDir()

	// Key order is deliberately not alphabetical
	jsonContent := `{
		"id": 12345,
		"uuid": "550e8400-e29b-41d4-a716-446655440000",
		"created_at": "2023-05-20T14:56:23Z",
		"updated_at": null,
		"config": {
			"timeout_seconds": 30,
			"enabled": true,
			"features": ["logging", "metrics", "alerting"],
			"rate_limits": {"per_second": 100, "burst": 150, "per_minute": 1000},
			"environments": {
				"production": {"debug": false, "log_level": "info"},
				"development": {"debug": true, "log_level": "debug"}
			}
		},
		"users": [
			{"name": "Alice", "id": 1, "roles": ["admin", "user"], "metadata": {"login_count": 42}},
			{"name": "Bob", "id": 2, "roles": [], "metadata": {}}
		],
		"stats": {"requests": 1234567, "success_rate": 0.9999, "response_times": [0.045, 1e-3, 32]},
		"active": true
	}`
	jsonFile := filepath.Join(tempDir, "complex.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(jsonContent), 0o644))
	outputFile := filepath.Join(tempDir, "complex.out.json")

	cmd := exec.Command("go", "run", "../../main.go", "convert", "-i", jsonFile, "-o", outputFile, "--indent", "0")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "CLI command failed: %s", string(output))

	converted, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.Equal(t, compact(t, jsonContent)+"\n", string(converted))

	// The same document through YAML and back
	yamlFile := filepath.Join(tempDir, "complex.yaml")
	cmd = exec.Command("go", "run", "../../main.go", "-i", jsonFile, "-o", yamlFile, "-f", "yaml")
	output, err = cmd.CombinedOutput()
	require.NoError(t, err, "CLI command failed: %s", string(output))

	cmd = exec.Command("go", "run", "../../main.go", "-i", yamlFile, "-f", "json", "--indent", "0")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	require.NoError(t, cmd.Run())
	assert.Equal(t, compact(t, jsonContent)+"\n", stdout.String())
}

// TestEndToEnd_HeterogeneousArrays lists a document with mixed arrays
func TestEndToEnd_HeterogeneousArrays(t *testing.T) {
	jsonContent := `{
		"mixed_array": [1, "string", true, null, {"nested": "object"}, [1, 2, 3]],
		"mixed_objects": [
			{"type": "user", "id": 1, "name": "Alice"},
			{"type": "group", "id": 2, "members": 5}
		]
	}`

	cmd := exec.Command("go", "run", "../../main.go", "tree", "--color", "never", "--pointers")
	cmd.Stdin = strings.NewReader(jsonContent)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()
	require.NoError(t, err)

	output := stdout.String()
	assert.Contains(t, output, "  mixed_array []  /mixed_array\n")
	assert.Contains(t, output, "    null  /mixed_array/3\n")
	assert.Contains(t, output, "      nested: \"object\"  /mixed_array/4/nested\n")
	assert.Contains(t, output, "    { \"type\": \"user\"; \"id\": \"1\" }  /mixed_objects/0\n")
	assert.Contains(t, output, "    { \"type\": \"group\"; \"id\": \"2\" }  /mixed_objects/1\n")
}

// generateLargeJSON generates a large JSON file with the specified number of items
func generateLargeJSON(t testing.TB, filePath string, itemCount int) string {
	// Seed random for reproducible results
	rng := rand.New(rand.NewSource(42))

	items := make([]map[string]interface{}, itemCount)
	for i := 0; i < itemCount; i++ {
		items[i] = map[string]interface{}{
			"id":          i + 1,
			"guid":        fmt.Sprintf("%x-%x-%x-%x-%x", rng.Uint32(), rng.Uint32()&0xffff, rng.Uint32()&0xffff, rng.Uint32()&0xffff, rng.Uint32()<<16|rng.Uint32()),
			"name":        fmt.Sprintf("Item %d", i+1),
			"description": fmt.Sprintf("This is item number %d in the test dataset", i+1),
			"created_at":  time.Now().Add(-time.Duration(rng.Intn(10000)) * time.Hour).Format(time.RFC3339),
			"price":       rng.Float64() * 1000,
			"quantity":    rng.Intn(100),
			"active":      rng.Intn(2) == 1,
			"tags":        []string{"tag1", "tag2", "tag3"}[0 : rng.Intn(3)+1],
			"metadata": map[string]interface{}{
				"source":      "test",
				"priority":    rng.Intn(5) + 1,
				"processed":   rng.Intn(2) == 1,
				"score":       rng.Float64(),
				"retry_count": rng.Intn(5),
			},
		}
	}

	jsonData, err := json.MarshalIndent(items, "", "  ")
	require.NoError(t, err)

	err = os.WriteFile(filePath, jsonData, 0o644)
	require.NoError(t, err)
	return string(jsonData)
}

// TestEndToEnd_LargeDocument round-trips a generated document
func TestEndToEnd_LargeDocument(t *testing.T) {
	tempDir := t.TempDir()
	jsonFile := filepath.Join(tempDir, "large.json")
	jsonContent := generateLargeJSON(t, jsonFile, 500)

	cmd := exec.Command("go", "run", "../../main.go", "-i", jsonFile, "--indent", "0")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run(), stderr.String())
	assert.Equal(t, compact(t, jsonContent)+"\n", stdout.String())

	cmd = exec.Command("go", "run", "../../main.go", "stats", "-i", jsonFile)
	stdout.Reset()
	cmd.Stdout = &stdout
	require.NoError(t, cmd.Run())
	assert.Contains(t, stdout.String(), "max depth: 3\n")
	assert.Contains(t, stdout.String(), fmt.Sprintf("  %-15s %d\n", "timestamp", 500))
}

// BenchmarkLargeJSON benchmarks the application with large JSON files
func BenchmarkLargeJSON(b *testing.B) {
	// Skip in short mode
	if testing.Short() {
		b.Skip("skipping benchmark in short mode")
	}

	tempDir := b.TempDir()

	sizes := []struct {
		name      string
		itemCount int
	}{
		{"100Items", 100},
		{"1000Items", 1000},
		{"10000Items", 10000},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			jsonFile := filepath.Join(tempDir, fmt.Sprintf("%s.json", size.name))
			generateLargeJSON(b, jsonFile, size.itemCount)

			outputFile := filepath.Join(tempDir, fmt.Sprintf("%s_output.yaml", size.name))

			// Reset the timer before the actual benchmark
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				cmd := exec.Command("go", "run", "../../main.go", "-i", jsonFile, "-o", outputFile, "-f", "yaml")
				output, err := cmd.CombinedOutput()
				require.NoError(b, err, "CLI command failed: %s", string(output))

				_, err = os.Stat(outputFile)
				require.NoError(b, err, "Output file was not created")

				// Clean up output file for next iteration
				_ = os.Remove(outputFile)
			}
		})
	}
}

// TestEndToEnd_EdgeCases tests various edge cases
func TestEndToEnd_EdgeCases(t *testing.T) {
	testCases := []struct {
		name     string
		json     string
		expected string
		isError  bool
	}{
		{name: "EmptyObject", json: `{}`, expected: "{}\n"},
		{name: "EmptyArray", json: `[]`, expected: "[]\n"},
		{name: "SingleValue", json: `"just a string"`, expected: "\"just a string\"\n"},
		{name: "SingleNumber", json: `42`, expected: "42\n"},
		{name: "SingleBoolean", json: `true`, expected: "true\n"},
		{name: "SingleNull", json: `null`, expected: "null\n"},
		{name: "InvalidJSON", json: `{"name": "Invalid JSON",}`, isError: true},
		{name: "TwoDocuments", json: `{} {}`, isError: true},
		{
			name:     "DeeplyNestedObject",
			json:     `{"level1":{"level2":{"level3":{"level4":{"level5":{"value":42}}}}}}`,
			expected: `{"level1":{"level2":{"level3":{"level4":{"level5":{"value":42}}}}}}` + "\n",
		},
		{name: "DeeplyNestedArray", json: `[[[[[[42]]]]]]`, expected: "[[[[[[42]]]]]]\n"},
		{name: "NumberText", json: `[1.0, 1e2, -0, 12345678901234567890]`, expected: "[1.0,1e2,-0,12345678901234567890]\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := exec.Command("go", "run", "../../main.go", "convert", "--indent", "0")
			cmd.Stdin = strings.NewReader(tc.json)
			var stdout bytes.Buffer
			cmd.Stdout = &stdout
			var stderr bytes.Buffer
			cmd.Stderr = &stderr

			err := cmd.Run()

			if tc.isError {
				assert.Error(t, err, "Expected an error for %s", tc.name)
				assert.Contains(t, stderr.String(), "For help, run: jsontree --help")
			} else {
				assert.NoError(t, err, "Unexpected error for %s: %s", tc.name, stderr.String())
				assert.Equal(t, tc.expected, stdout.String(), "Unexpected output for %s", tc.name)
			}
		})
	}
}
