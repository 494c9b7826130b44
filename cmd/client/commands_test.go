package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/johann/setlab/internal/sets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		powersetLocal, powersetJSON, checkLocal = false, false, false
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestPowerSetLocal(t *testing.T) {
	out, err := execute(t, "powerset", "--local", "a, b")
	require.NoError(t, err)
	assert.Equal(t, "{}\n{a}\n{b}\n{a, b}\n4 subsets\n", out)
}

func TestPowerSetLocalJSON(t *testing.T) {
	out, err := execute(t, "powerset", "--local", "--json", "x")
	require.NoError(t, err)
	assert.JSONEq(t, `{"powerset":[[],["x"]]}`, out)
}

func TestPowerSetLocalRejectsTooManyElements(t *testing.T) {
	elements := strings.Repeat("x,", sets.MaxElements+1)

	out, err := execute(t, "powerset", "--local", elements)
	require.ErrorIs(t, err, sets.ErrTooManyElements)
	assert.NotContains(t, out, "subsets")
}

func TestCheckLocal(t *testing.T) {
	out, err := execute(t, "check", "--local", "a,b,a", "b, a")
	require.NoError(t, err)
	assert.Equal(t, "equal\n", out)

	out, err = execute(t, "check", "--local", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "not equal\n", out)
}

func TestCheckRequiresTwoSets(t *testing.T) {
	_, err := execute(t, "check", "--local", "a")
	assert.Error(t, err)
}
