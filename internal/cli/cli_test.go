package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/transfermatch/internal/model"
)

func TestResolveLLM(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OLLAMA_BASE_URL", "http://gpu-box:11434/")

	c := model.LLMConfig{Provider: " OpenAI "}
	require.NoError(t, resolveLLM(&c))
	assert.Equal(t, "openai", c.Provider)
	assert.Equal(t, "sk-test", c.APIKey)

	c = model.LLMConfig{Provider: "ollama", Model: "llama3.1"}
	require.NoError(t, resolveLLM(&c))
	assert.Equal(t, "http://gpu-box:11434/v1", c.BaseURL)

	c = model.LLMConfig{Provider: "ollama"}
	assert.Error(t, resolveLLM(&c), "ollama needs a model")

	c = model.LLMConfig{Provider: "anthropic"}
	assert.Error(t, resolveLLM(&c))

	c = model.LLMConfig{}
	assert.NoError(t, resolveLLM(&c))
}

func TestResolveLLM_MissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	c := model.LLMConfig{Provider: "openai"}
	err := resolveLLM(&c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestApplyRunFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addRunFlags(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"--no-cache", "--no-robots", "--ua", "Bot/1.0", "--http-timeout", "5s"}))

	cfg := model.DefaultConfig()
	require.NoError(t, applyRunFlags(cmd, cfg))
	assert.False(t, cfg.Cache.Enabled)
	assert.False(t, cfg.HTTP.RespectRobots)
	assert.Equal(t, "Bot/1.0", cfg.HTTP.UserAgent)
	assert.Equal(t, "5s", cfg.HTTP.Timeout.String())
	assert.True(t, cfg.Output.IncludeFooter, "unset flags keep config values")
}

func TestReportSlug(t *testing.T) {
	assert.Equal(t, "alex", reportSlug("/profiles/alex.yaml"))
	assert.Equal(t, "jordan-lee", reportSlug("jordan lee.yml"))
	assert.Equal(t, "a_b", reportSlug("a:b.yaml"))
	assert.Equal(t, "profile", reportSlug(".yaml"))
}

func TestWriteDefaultConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".transfermatch")

	path, err := writeDefaultConfig(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, want := range []string{"# TransferMatch Configuration File", "detect_redundant: true", "max_depth: 64", "OPENAI_API_KEY"} {
		assert.Contains(t, string(data), want)
	}

	_, err = writeDefaultConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	fixture, err := os.ReadFile(filepath.Join("..", "parse", "testdata", "agreement.json"))
	require.NoError(t, err)
	agreement := filepath.Join(dir, "agreement.json")
	require.NoError(t, os.WriteFile(agreement, fixture, 0o644))

	profile := filepath.Join(dir, "alex.yaml")
	require.NoError(t, os.WriteFile(profile, []byte("agreement: agreement.json\ncourses: [CIS 22A, MATH 1A, MATH 1B, MATH 1C, PHYS 4A]\n"), 0o644))

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs(args)
		err := Execute(context.Background())
		return out.String(), err
	}

	out, err := run("version")
	require.NoError(t, err)
	assert.Contains(t, out, "transfermatch ")

	jsonPath := filepath.Join(dir, "report.json")
	out, err = run("check", profile, "--json", jsonPath)
	require.NoError(t, err)
	assert.Contains(t, out, "alex: Computer Science B.S.")
	assert.FileExists(t, jsonPath)

	out, err = run("course", agreement, "MATH 1B", "--uc", "MATH 20B")
	require.NoError(t, err)
	assert.Contains(t, out, "only together with MATH 1C")

	out, err = run("lint", agreement)
	require.NoError(t, err)
	assert.Contains(t, out, "3 groups")
}
