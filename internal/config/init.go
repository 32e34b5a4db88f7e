package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const examplePost = `---
title: Hello
date: 2024-01-01T00:00:00Z
tags:
  - meta
---

Welcome to your new site. Edit or delete this post to get started.
`

// Init writes an example configuration file and a minimal content skeleton.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Config{
		Site: SiteConfig{
			Title:         "My Site",
			BaseURL:       "https://example.com",
			DefaultLayout: "single",
		},
		Content: ContentConfig{
			Dir:        "content",
			LayoutsDir: "layouts",
			StaticDir:  "static",
		},
		Output: OutputConfig{Dir: "public"},
		Server: ServerConfig{Listen: ":8080"},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("marshal example config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	// Seed the content tree next to the config file unless one already exists.
	root := filepath.Dir(configPath)
	contentDir := filepath.Join(root, example.Content.Dir)
	if _, err := os.Stat(contentDir); os.IsNotExist(err) {
		if err := os.MkdirAll(contentDir, 0o755); err != nil {
			return fmt.Errorf("create content dir: %w", err)
		}
		if err := os.WriteFile(filepath.Join(contentDir, "hello.md"), []byte(examplePost), 0o644); err != nil {
			return fmt.Errorf("write example post: %w", err)
		}
	}
	return nil
}
