package main

import (
	"os"
	"testing"

	"github.com/mcncl/jsontidy/internal/config"
	"github.com/mcncl/jsontidy/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_SimpleJSON(t *testing.T) {
	// Save original CLI state
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	// Test data
	jsonData := `{"name": "John", "age": 30, "active": true}`

	// Create temp input file
	tmpInput, err := os.CreateTemp("", "test_input_*.json")
	require.NoError(t, err)
	defer func() { _ = os.Remove(tmpInput.Name()) }()

	_, err = tmpInput.WriteString(jsonData)
	require.NoError(t, err)
	_ = tmpInput.Close()

	// Create temp output file
	tmpOutput, err := os.CreateTemp("", "test_output_*.json")
	require.NoError(t, err)
	defer func() { _ = os.Remove(tmpOutput.Name()) }()
	_ = tmpOutput.Close()

	// Set CLI options
	CLI.Input = tmpInput.Name()
	CLI.Output = tmpOutput.Name()

	ctx := &Context{
		Debug:  false,
		Config: config.NewConfig(),
	}
	err = run(ctx)
	require.NoError(t, err)

	rendered, err := os.ReadFile(tmpOutput.Name())
	require.NoError(t, err)

	expected := "{\n" +
		"  \"active\": true,\n" +
		"  \"age\": 30,\n" +
		"  \"name\": \"John\",\n" +
		"}\n"
	assert.Equal(t, expected, string(rendered))
}

func TestRun_MalformedInput(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	tmpInput, err := os.CreateTemp("", "test_input_*.json")
	require.NoError(t, err)
	defer func() { _ = os.Remove(tmpInput.Name()) }()

	_, err = tmpInput.WriteString(`{"k" 1}`)
	require.NoError(t, err)
	_ = tmpInput.Close()

	CLI.Input = tmpInput.Name()
	CLI.Output = ""

	ctx := &Context{Config: config.NewConfig()}
	err = run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected colon after key")
}

func TestRun_StrictModeFromConfig(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	tmpInput, err := os.CreateTemp("", "test_input_*.json")
	require.NoError(t, err)
	defer func() { _ = os.Remove(tmpInput.Name()) }()

	// Fine leniently, rejected strictly
	_, err = tmpInput.WriteString(`[1, 2, 3,]`)
	require.NoError(t, err)
	_ = tmpInput.Close()

	CLI.Input = tmpInput.Name()
	CLI.Output = ""

	cfg := config.NewConfig()
	cfg.Parsing.Strict = true
	err = run(&Context{Config: cfg})
	require.Error(t, err)
}

func TestRun_CustomIndent(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	tmpInput, err := os.CreateTemp("", "test_input_*.json")
	require.NoError(t, err)
	defer func() { _ = os.Remove(tmpInput.Name()) }()

	_, err = tmpInput.WriteString(`[1]`)
	require.NoError(t, err)
	_ = tmpInput.Close()

	tmpOutput, err := os.CreateTemp("", "test_output_*.json")
	require.NoError(t, err)
	defer func() { _ = os.Remove(tmpOutput.Name()) }()
	_ = tmpOutput.Close()

	CLI.Input = tmpInput.Name()
	CLI.Output = tmpOutput.Name()

	cfg := config.NewConfig()
	cfg.Rendering.Indent = 4
	err = run(&Context{Config: cfg})
	require.NoError(t, err)

	rendered, err := os.ReadFile(tmpOutput.Name())
	require.NoError(t, err)
	assert.Equal(t, "[\n    1,\n]\n", string(rendered))
}

func TestParseMode(t *testing.T) {
	cfg := config.NewConfig()
	assert.Equal(t, parser.ModeLenient, parseMode(cfg))

	cfg.Parsing.Strict = true
	assert.Equal(t, parser.ModeStrict, parseMode(cfg))
}

func TestWatch_RequiresInputFile(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Input = ""
	err := watch(&Context{Config: config.NewConfig()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch mode requires an input file")
}
