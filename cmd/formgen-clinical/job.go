package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formgen-clinical/pkg/orchestrator"
	"github.com/goliatone/go-formgen-clinical/pkg/render"
	"github.com/goliatone/go-formgen-clinical/pkg/schema"
)

func formFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "ui",
			Usage: "directory of ui schema files, matched to forms by file name",
		},
		&cli.StringFlag{
			Name:  "values",
			Usage: "JSON or YAML file with current form values",
		},
		&cli.StringFlag{
			Name:  "component",
			Usage: "schema name under components.schemas for OpenAPI documents",
		},
		&cli.StringFlag{
			Name:    "locale",
			Sources: cli.EnvVars("FORMGEN_LOCALE"),
			Usage:   "locale used to format numbers",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "write to this file instead of stdout",
		},
	}
}

// formJob holds the inputs shared by commands that build a form.
type formJob struct {
	schemaPath string
	uiDir      string
	valuesPath string
	component  string
	locale     string
	output     string
}

func jobFromCommand(cmd *cli.Command) (formJob, error) {
	job := formJob{
		schemaPath: strings.TrimSpace(cmd.Args().First()),
		uiDir:      strings.TrimSpace(cmd.String("ui")),
		valuesPath: strings.TrimSpace(cmd.String("values")),
		component:  strings.TrimSpace(cmd.String("component")),
		locale:     strings.TrimSpace(cmd.String("locale")),
		output:     strings.TrimSpace(cmd.String("output")),
	}
	if job.schemaPath == "" {
		return formJob{}, errSchemaRequired
	}
	return job, nil
}

func (j formJob) source() schema.Source {
	return schema.SourceFromFile(j.schemaPath)
}

func (j formJob) options() []orchestrator.Option {
	var opts []orchestrator.Option
	if j.component != "" {
		opts = append(opts, orchestrator.WithBuilder(schema.NewBuilder(
			schema.WithParseOptions(schema.WithComponent(j.component)),
		)))
	}
	if j.uiDir != "" {
		opts = append(opts, orchestrator.WithUISchemaFS(os.DirFS(j.uiDir)))
	}
	return opts
}

func (j formJob) renderOptions() (render.RenderOptions, error) {
	values, err := readValues(j.valuesPath)
	if err != nil {
		return render.RenderOptions{}, err
	}
	return render.RenderOptions{Values: values, Locale: j.locale}, nil
}

// inputs lists every file or directory the job reads.
func (j formJob) inputs() (files, dirs []string) {
	files = append(files, j.schemaPath)
	if j.valuesPath != "" {
		files = append(files, j.valuesPath)
	}
	if j.uiDir != "" {
		dirs = append(dirs, j.uiDir)
	}
	return files, dirs
}

func (j formJob) write(cmd *cli.Command, payload []byte) error {
	if j.output == "" {
		_, err := stdout(cmd).Write(payload)
		return err
	}
	if err := os.WriteFile(j.output, payload, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func readValues(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}

	var values map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &values)
	default:
		err = json.Unmarshal(raw, &values)
	}
	if err != nil {
		return nil, fmt.Errorf("decode values %s: %w", path, err)
	}
	return values, nil
}
