package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/transfermatch/internal/model"
)

// addRunFlags registers the flags shared by every command that loads
// agreements. Flags only override the config when set explicitly.
func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()

	// HTTP flags
	f.Duration("http-timeout", 0, "timeout for one agreement fetch (default from config)")
	f.String("ua", "", "HTTP User-Agent (default from config)")
	f.Bool("no-cache", false, "disable cache (force fresh fetch)")
	f.Bool("no-robots", false, "do not consult robots.txt before fetching agreement URLs")
	f.String("http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	f.String("https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	// Output flags
	f.Bool("no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	f.String("llm", "", "enable narration with this provider (openai, ollama)")
	f.String("llm-model", "", "LLM model name")
}

// applyRunFlags overrides cfg with the run flags that were set and fills in
// provider credentials from the environment
func applyRunFlags(cmd *cobra.Command, cfg *model.Config) error {
	f := cmd.Flags()

	if f.Changed("http-timeout") {
		cfg.HTTP.Timeout, _ = f.GetDuration("http-timeout")
	}
	if f.Changed("ua") {
		cfg.HTTP.UserAgent, _ = f.GetString("ua")
	}
	if noCache, _ := f.GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}
	if noRobots, _ := f.GetBool("no-robots"); noRobots {
		cfg.HTTP.RespectRobots = false
	}
	if f.Changed("http-proxy") {
		cfg.HTTP.HTTPProxy, _ = f.GetString("http-proxy")
	}
	if f.Changed("https-proxy") {
		cfg.HTTP.HTTPSProxy, _ = f.GetString("https-proxy")
	}
	if noFooter, _ := f.GetBool("no-footer"); noFooter {
		cfg.Output.IncludeFooter = false
	}
	if f.Changed("llm") {
		cfg.LLM.Provider, _ = f.GetString("llm")
	}
	if f.Changed("llm-model") {
		cfg.LLM.Model, _ = f.GetString("llm-model")
	}
	cfg.Output.Verbose = cfg.Output.Verbose || verbose

	return resolveLLM(&cfg.LLM)
}

// resolveLLM reads provider credentials from the environment
func resolveLLM(c *model.LLMConfig) error {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))

	switch c.Provider {
	case "":
		return nil
	case "openai":
		if c.APIKey == "" {
			c.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if c.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		if c.BaseURL == "" {
			if base := os.Getenv("OLLAMA_BASE_URL"); base != "" {
				// Ollama serves the OpenAI-compatible API under /v1
				c.BaseURL = strings.TrimSuffix(base, "/")
				if !strings.HasSuffix(c.BaseURL, "/v1") {
					c.BaseURL += "/v1"
				}
			}
		}
		if c.Model == "" {
			return fmt.Errorf("--llm-model is required for ollama")
		}
	default:
		return fmt.Errorf("unsupported LLM provider: %s (use openai or ollama)", c.Provider)
	}
	return nil
}
