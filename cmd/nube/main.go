// Package main is the entry point for the Nube Agent CLI, a
// conversational assistant for managing a Tiendanube store.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/vinayprograms/agentkit/credentials"
	"github.com/vinayprograms/agentkit/telemetry"

	"github.com/tadeodonegana/nube-agent/internal/api"
	"github.com/tadeodonegana/nube-agent/internal/config"
	"github.com/tadeodonegana/nube-agent/internal/graph"
	"github.com/tadeodonegana/nube-agent/internal/hitl"
	"github.com/tadeodonegana/nube-agent/internal/llm"
	"github.com/tadeodonegana/nube-agent/internal/stream"
	"github.com/tadeodonegana/nube-agent/internal/tools"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func init() {
	// Load .env before anything reads the environment.
	_ = godotenv.Load()
}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("nube"),
		kong.Description("Conversational assistant for managing a Tiendanube store"),
		kongVars(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}

// Run prints version information.
func (v VersionCmd) Run() error {
	fmt.Printf("nube version %s (commit: %s, built: %s)\n", version, commit, buildTime)
	return nil
}

// Run wires the full assistant and enters the REPL.
func (c ChatCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()
	if c.Model != "" {
		cfg.LLM.Model = c.Model
	}

	creds := config.LoadCredentials()
	if creds.OpenAIKey == "" {
		// credentials.toml is an alternative home for the model key.
		if stored, _, err := credentials.Load(); err == nil && stored != nil {
			creds.OpenAIKey = stored.GetAPIKey("openai")
		}
	}
	if err := creds.Validate(); err != nil {
		return err
	}

	var telem telemetry.Exporter
	if cfg.Telemetry.Enabled {
		telem, err = telemetry.NewExporter(cfg.Telemetry.Protocol, cfg.Telemetry.Endpoint)
		if err != nil {
			return fmt.Errorf("creating telemetry exporter: %w", err)
		}
	} else {
		telem = telemetry.NewNoopExporter()
	}
	defer telem.Close()

	client := api.NewClient(api.Config{
		AccessToken: creds.AccessToken,
		StoreID:     creds.StoreID,
		UserAgent:   cfg.API.UserAgent,
	})
	store := api.NewStoreInfo(client)
	registry := tools.NewRegistry(tools.All(client, store), cfg.Sensitivity)

	provider := llm.NewOpenAIProvider(llm.OpenAIConfig{
		APIKey:    creds.OpenAIKey,
		Model:     cfg.LLM.Model,
		BaseURL:   cfg.LLM.BaseURL,
		MaxTokens: cfg.LLM.MaxTokens,
	})

	var checkpoints graph.Store
	if cfg.Storage.PersistCheckpoints {
		dir := filepath.Join(expandHome(cfg.Storage.Path), "checkpoints")
		checkpoints, err = graph.NewFileStore(dir)
		if err != nil {
			return err
		}
	}

	g, err := graph.New(graph.Options{
		Provider:    provider,
		Registry:    registry,
		Checkpoints: checkpoints,
	})
	if err != nil {
		return err
	}

	stdin := hitl.NewLineReader(os.Stdin)
	r := newREPL(replOptions{
		graph:  g,
		store:  store,
		model:  cfg.LLM.Model,
		debug:  c.Debug,
		in:     stdin,
		out:    os.Stdout,
		spin:   spinnerFor(os.Stdout),
		prompt: hitl.NewLinePrompter(stdin, os.Stdout),
	})
	return r.run(context.Background())
}

// spinnerFor animates on a terminal and stays silent when output is
// piped or redirected.
func spinnerFor(f *os.File) stream.Spinner {
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return stream.NewSpinner()
	}
	return stream.NopSpinner{}
}

// expandHome resolves a leading ~ against the user's home directory.
func expandHome(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
