package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-formgen-clinical/internal/logging"
	"github.com/goliatone/go-formgen-clinical/pkg/orchestrator"
	"github.com/goliatone/go-formgen-clinical/pkg/theme"
)

func newRenderCommand() *cli.Command {
	flags := append(formFlags(),
		&cli.StringFlag{
			Name:  "theme-manifest",
			Usage: "YAML theme manifest to select tokens and templates from",
		},
		&cli.StringFlag{
			Name:    "theme",
			Sources: cli.EnvVars("FORMGEN_THEME"),
			Usage:   "theme name, defaults to the manifest name",
		},
		&cli.StringFlag{
			Name:    "variant",
			Sources: cli.EnvVars("FORMGEN_THEME_VARIANT"),
			Usage:   "theme variant",
		},
		&cli.BoolFlag{
			Name:  "validate",
			Usage: "validate --values against the schema and render the messages",
		},
		&cli.BoolFlag{
			Name:  "watch",
			Usage: "re-render whenever an input file changes",
		},
	)

	return &cli.Command{
		Name:      "render",
		Usage:     "Render a schema as an HTML form",
		ArgsUsage: "<schema>",
		Flags:     flags,
		Action:    runRender,
	}
}

type renderJob struct {
	formJob
	manifestPath string
	themeName    string
	variant      string
	validate     bool
}

func runRender(ctx context.Context, cmd *cli.Command) error {
	job, err := jobFromCommand(cmd)
	if err != nil {
		return err
	}
	rj := renderJob{
		formJob:      job,
		manifestPath: strings.TrimSpace(cmd.String("theme-manifest")),
		themeName:    strings.TrimSpace(cmd.String("theme")),
		variant:      strings.TrimSpace(cmd.String("variant")),
		validate:     cmd.Bool("validate"),
	}

	logger := logging.Logger(logging.SourceRender)
	once := func(ctx context.Context) error {
		html, err := rj.render(ctx)
		if err != nil {
			return err
		}
		if err := rj.write(cmd, html); err != nil {
			return err
		}
		logger.Debug("rendered form", "schema", rj.schemaPath, "bytes", len(html))
		return nil
	}

	if err := once(ctx); err != nil {
		return err
	}
	if !cmd.Bool("watch") {
		return nil
	}

	files, dirs := rj.inputs()
	if rj.manifestPath != "" {
		files = append(files, rj.manifestPath)
	}
	return watch(ctx, files, dirs, once)
}

func (rj renderJob) render(ctx context.Context) ([]byte, error) {
	opts := rj.options()
	themeName := rj.themeName
	if rj.manifestPath != "" {
		manifest, err := theme.LoadManifest(rj.manifestPath)
		if err != nil {
			return nil, err
		}
		selector := theme.NewManifestSelector(manifest.Name, rj.variant)
		if err := selector.Add(manifest); err != nil {
			return nil, err
		}
		if themeName == "" {
			themeName = manifest.Name
		}
		opts = append(opts, orchestrator.WithThemeSelector(selector))
	}

	renderOpts, err := rj.renderOptions()
	if err != nil {
		return nil, err
	}

	html, err := orchestrator.New(opts...).Generate(ctx, orchestrator.Request{
		Source:        rj.source(),
		ThemeName:     themeName,
		ThemeVariant:  rj.variant,
		Validate:      rj.validate,
		RenderOptions: renderOpts,
	})
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", rj.schemaPath, err)
	}
	return html, nil
}
