package commands

import (
	"fmt"

	"git.home.luguber.info/inful/sitegen/internal/preview"
)

// PreviewCmd implements the 'preview' command: build, watch, rebuild, serve.
type PreviewCmd struct {
	Listen string `short:"l" name:"listen" default:":1313" help:"Bind address for the preview server"`
	Drafts bool   `short:"D" name:"drafts" help:"Include draft documents in the preview"`
}

func (p *PreviewCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if p.Drafts {
		cfg.Build.IncludeDrafts = true
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Println("Preview server listening on", p.Listen)
	return preview.Run(ctx, cfg, p.Listen)
}
