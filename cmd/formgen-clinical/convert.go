package main

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-formgen-clinical/pkg/measurement"
	"github.com/goliatone/go-formgen-clinical/pkg/model"
	"github.com/goliatone/go-formgen-clinical/pkg/widgets"
	measurementwidget "github.com/goliatone/go-formgen-clinical/pkg/widgets/measurement"
)

func newConvertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert a reading between units and classify it",
		ArgsUsage: "<value> <from> <to>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Value:   measurement.DefaultType,
				Usage:   "measurement type, see the types command",
			},
			&cli.StringFlag{
				Name:    "locale",
				Sources: cli.EnvVars("FORMGEN_LOCALE"),
				Usage:   "locale used to format numbers",
			},
		},
		Action: runConvert,
	}
}

func runConvert(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 3 {
		return errConvertArgs
	}
	magnitude, err := strconv.ParseFloat(strings.TrimSpace(cmd.Args().Get(0)), 64)
	if err != nil || math.IsNaN(magnitude) || math.IsInf(magnitude, 0) {
		return errInvalidMagnitude
	}
	from, to := cmd.Args().Get(1), cmd.Args().Get(2)

	typ := strings.TrimSpace(cmd.String("type"))
	cfg, ok := measurement.Builtin(typ)
	if !ok {
		return fmt.Errorf("unknown measurement type %q (known: %s)", typ, strings.Join(measurement.Types(), ", "))
	}
	for _, unit := range []string{from, to} {
		if !cfg.HasUnit(unit) {
			return fmt.Errorf("unknown unit %q for %s (known: %s)", unit, typ, strings.Join(cfg.Symbols(), ", "))
		}
	}

	var field model.Field
	field.SetMeta(model.MetaMeasurementType, typ)
	in := measurementwidget.New(widgets.Props{
		Schema: field,
		Value:  measurement.Serialize(measurement.Value{Magnitude: measurement.Float(magnitude), Unit: from}),
		Locale: strings.TrimSpace(cmd.String("locale")),
	})
	in.ChangeUnit(to)

	out := stdout(cmd)
	fmt.Fprintln(out, in.Reading())
	if status := in.Status(); status != measurement.StatusNone {
		fmt.Fprintf(out, "status: %s\n", status)
	}
	if alert := in.Alert(); alert != "" {
		fmt.Fprintln(out, alert)
	}
	return nil
}

func newTypesCommand() *cli.Command {
	return &cli.Command{
		Name:   "types",
		Usage:  "List the built-in measurement types",
		Action: runTypes,
	}
}

func runTypes(_ context.Context, cmd *cli.Command) error {
	w := tabwriter.NewWriter(stdout(cmd), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tBASE\tUNITS\tNORMAL\tCRITICAL")
	for _, typ := range measurement.Types() {
		cfg := measurement.Lookup(typ)
		var normal, critical *measurement.Range
		if cfg.Ranges != nil {
			normal, critical = cfg.Ranges.Normal, cfg.Ranges.Critical
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			typ, cfg.DefaultUnit, strings.Join(cfg.Symbols(), ", "),
			formatRange(normal, cfg), formatRange(critical, cfg))
	}
	return w.Flush()
}

func formatRange(r *measurement.Range, cfg measurement.Config) string {
	if r == nil {
		return "-"
	}
	return fmt.Sprintf("%s-%s",
		strconv.FormatFloat(cfg.Round(r.Min), 'f', -1, 64),
		strconv.FormatFloat(cfg.Round(r.Max), 'f', -1, 64))
}
