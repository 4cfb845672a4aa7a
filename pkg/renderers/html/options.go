package html

import (
	"io/fs"
	"log/slog"
	"os"

	rendertemplate "github.com/goliatone/go-formstruct/pkg/render/template"
)

// Option customises a Renderer.
type Option func(*config)

type config struct {
	templateFS fs.FS
	templates  rendertemplate.TemplateRenderer
	components map[string]Component
	hosted     bool
	title      string
	logger     *slog.Logger
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path != "" {
			cfg.templateFS = os.DirFS(path)
		}
	}
}

// WithTemplateRenderer injects a template engine. The bundle options are
// ignored when set.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templates = renderer
		}
	}
}

// WithComponent registers or overrides a component.
func WithComponent(name string, component Component) Option {
	return func(cfg *config) {
		if component == nil {
			return
		}
		if cfg.components == nil {
			cfg.components = make(map[string]Component)
		}
		cfg.components[name] = component
	}
}

// WithHostedComponents renders every component without a server side
// implementation as a client side mount point instead of a text input.
func WithHostedComponents() Option {
	return func(cfg *config) {
		cfg.hosted = true
	}
}

// WithTitle labels the rendered document form.
func WithTitle(title string) Option {
	return func(cfg *config) {
		cfg.title = title
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}
