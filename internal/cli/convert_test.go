package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertPrintsRules(t *testing.T) {
	stdout, _, err := execute(t, nil, "--no-color", "convert", "go-template", "my-service")
	require.NoError(t, err)

	assert.Contains(t, stdout, "literal  go-template -> my-service")
	assert.Contains(t, stdout, "joined   gotemplate -> myservice")
	assert.Contains(t, stdout, "snake    go_template -> my_service")
	assert.Contains(t, stdout, "camel    goTemplate -> myService")
	assert.Contains(t, stdout, "pascal   GoTemplate -> MyService")
	assert.NotContains(t, stdout, "Converted:")
}

func TestConvertText(t *testing.T) {
	stdout, _, err := execute(t, nil, "--no-color", "convert", "go-template", "my-service",
		"import", "go_template.GoTemplate")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Converted:\nimport my_service.MyService\n")
}

func TestConvertStdin(t *testing.T) {
	cmd := NewRootCmdWithDependencies(newTestDeps().dependencies())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader("package gotemplate\n\nvar x = goTemplate\n"))
	cmd.SetArgs([]string{"--no-color", "convert", "go-template", "my-service", "-"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, stdout.String(), "package myservice\n\nvar x = myService\n")
}

func TestConvertWarnsOnUnstableRules(t *testing.T) {
	_, stderr, err := execute(t, nil, "--no-color", "convert", "foo", "foobar")
	require.NoError(t, err)

	assert.Contains(t, stderr, "Conversions are not stable when applied twice")
}

func TestConvertValidatesNames(t *testing.T) {
	_, _, err := execute(t, nil, "convert", "go template", "x")
	require.Error(t, err)

	_, _, err = execute(t, nil, "convert", "only-one")
	require.Error(t, err)
}

func TestConvertInput(t *testing.T) {
	text, err := convertInput(strings.NewReader("ignored"), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "a b", text)

	text, err = convertInput(strings.NewReader("from stdin\n"), []string{"-"})
	require.NoError(t, err)
	assert.Equal(t, "from stdin", text)

	text, err = convertInput(strings.NewReader(""), nil)
	require.NoError(t, err)
	assert.Empty(t, text)
}
