package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-formgen-clinical/internal/logging"
	"github.com/goliatone/go-formgen-clinical/pkg/orchestrator"
	"github.com/goliatone/go-formgen-clinical/pkg/render"
	"github.com/goliatone/go-formgen-clinical/pkg/renderers/tui"
)

// promptDriver replaces the survey prompts; tests script it.
var promptDriver tui.PromptDriver

func newFillCommand() *cli.Command {
	flags := append(formFlags(),
		&cli.StringFlag{
			Name:  "format",
			Value: string(tui.OutputFormatJSON),
			Usage: "output format: json, form or pretty",
		},
	)
	return &cli.Command{
		Name:      "fill",
		Usage:     "Fill a form interactively in the terminal",
		ArgsUsage: "<schema>",
		Flags:     flags,
		Action:    runFill,
	}
}

func runFill(ctx context.Context, cmd *cli.Command) error {
	job, err := jobFromCommand(cmd)
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	driver := promptDriver
	if driver == nil {
		driver = tui.NewSurveyDriver(stderr(cmd))
	}
	renderer := tui.New(tui.WithPromptDriver(driver), tui.WithOutputFormat(format))
	registry, err := render.NewRegistry(renderer)
	if err != nil {
		return err
	}

	renderOpts, err := job.renderOptions()
	if err != nil {
		return err
	}

	opts := append(job.options(),
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(tui.Name),
	)
	payload, err := orchestrator.New(opts...).Generate(ctx, orchestrator.Request{
		Source:        job.source(),
		RenderOptions: renderOpts,
	})
	if err != nil {
		return fmt.Errorf("fill %s: %w", job.schemaPath, err)
	}
	if format != tui.OutputFormatPrettyText {
		payload = append(payload, '\n')
	}

	logging.Logger(logging.SourceTUI).Debug("collected values", "schema", job.schemaPath, "format", format)
	return job.write(cmd, payload)
}

func outputFormat(raw string) (tui.OutputFormat, error) {
	switch format := tui.OutputFormat(strings.ToLower(strings.TrimSpace(raw))); format {
	case "", tui.OutputFormatJSON:
		return tui.OutputFormatJSON, nil
	case tui.OutputFormatFormURLEncoded, tui.OutputFormatPrettyText:
		return format, nil
	default:
		return "", errUnknownOutputFormat
	}
}
