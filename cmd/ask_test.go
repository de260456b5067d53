package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/opsdash/internal/assistant"
	"github.com/ziadkadry99/opsdash/internal/fixtures"
	"github.com/ziadkadry99/opsdash/internal/progress"
)

func TestAskPrintsTranscript(t *testing.T) {
	t.Setenv("CI", "true")
	var out, errOut bytes.Buffer
	s := assistant.New(fixtures.MustLoad(), assistant.Options{})

	require.NoError(t, ask(&out, progress.NewReporter(&errOut), s, "Show pending orders"))

	assert.True(t, s.Closed())
	text := out.String()
	assert.True(t, strings.HasPrefix(text, "You:\nShow pending orders\n"))
	assert.Contains(t, text, "AI Copilot:\nPending Review (3)")
	assert.NotContains(t, text, assistant.Greeting)
	assert.Contains(t, errOut.String(), "[1/1] Pending Review (3)")
}

func TestAskBlankQuestion(t *testing.T) {
	t.Setenv("CI", "true")
	var out bytes.Buffer
	s := assistant.New(fixtures.MustLoad(), assistant.Options{})

	require.NoError(t, ask(&out, progress.NewReporter(&bytes.Buffer{}), s, "   "))
	assert.Empty(t, out.String())
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "opsdash "+Version+"\n", out.String())
}
