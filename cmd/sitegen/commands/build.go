package commands

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/sitegen/internal/builder"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Content string `short:"s" name:"content" help:"Content directory (overrides config)"`
	Output  string `short:"o" name:"output" help:"Output directory for the generated site (overrides config)"`
	Drafts  bool   `short:"D" name:"drafts" help:"Include draft documents in the output"`
	BaseURL string `name:"base-url" help:"Base URL used to resolve absolute links (overrides config)"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if b.Content != "" {
		cfg.Content.Dir = b.Content
	}
	if b.Output != "" {
		cfg.Output.Dir = b.Output
	}
	if b.BaseURL != "" {
		cfg.Site.BaseURL = b.BaseURL
	}
	if b.Drafts {
		cfg.Build.IncludeDrafts = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	report, err := builder.NewGenerator(cfg, cfg.Output.Dir).Build(ctx)
	if err != nil {
		return err
	}
	if len(report.Warnings) > 0 {
		slog.Warn("Build completed with warnings", "warnings", len(report.Warnings))
	}
	fmt.Println("Build completed successfully")
	return nil
}
