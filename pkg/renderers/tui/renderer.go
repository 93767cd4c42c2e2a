// Package tui fills form models interactively in a terminal. Each field is
// driven through the same widget state machines the HTML renderer uses, so a
// measurement answered in pounds is stored exactly as the web widget would
// store it.
package tui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formgen-clinical/pkg/form"
	"github.com/goliatone/go-formgen-clinical/pkg/model"
	"github.com/goliatone/go-formgen-clinical/pkg/render"
	"github.com/goliatone/go-formgen-clinical/pkg/uischema"
	"github.com/goliatone/go-formgen-clinical/pkg/widgets"
	measurementwidget "github.com/goliatone/go-formgen-clinical/pkg/widgets/measurement"
	"github.com/goliatone/go-formgen-clinical/pkg/widgets/slider"
)

// Name identifies the renderer in a render.Registry.
const Name = "tui"

// Renderer implements render.Renderer for terminal-driven sessions.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	widgets           *widgets.Registry
	theme             Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme:        DefaultTheme,
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	if r.widgets == nil {
		r.widgets = widgets.NewRegistry()
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every interactive field and returns the collected
// values. Prefilled values and errors come from opts; opts.OnChange observes
// every committed value.
func (r *Renderer) Render(ctx context.Context, fm model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, ErrNoDriver
	}

	s := &session{
		ctx:      ctx,
		renderer: r,
		state:    form.NewState(opts.Values, opts.Errors),
		options:  opts,
	}
	if fm.Title != "" {
		s.info(r.theme.SectionPrefix, fm.Title)
	}
	for _, message := range render.MergeFormErrors(nil, opts.FormErrors...) {
		s.info(r.theme.ErrorPrefix, message)
	}
	if err := s.fields(fm.Fields, ""); err != nil {
		return nil, err
	}

	values := s.state.Values()
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(values)
}

type session struct {
	ctx      context.Context
	renderer *Renderer
	state    *form.State
	options  render.RenderOptions
}

func (s *session) fields(fields []model.Field, parent string) error {
	for _, field := range fields {
		path := field.Name
		if parent != "" {
			path = parent + "." + path
		}
		if field.Type == model.FieldTypeObject && len(field.Nested) > 0 {
			s.info(s.renderer.theme.SectionPrefix, displayLabel(field))
			if err := s.fields(field.Nested, path); err != nil {
				return err
			}
			continue
		}
		if err := s.field(field, path); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) field(field model.Field, path string) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	props := widgets.FromField(path, field)
	current, hasValue := s.state.Get(path)
	if hasValue {
		props.Value = current
	} else if field.Default != nil {
		props.Value = field.Default
	}
	props.Locale = s.options.Locale
	props.RawErrors = s.state.ErrorsFor(path)
	props.OnChange = s.commit(path)

	for _, message := range props.RawErrors {
		s.info(s.renderer.theme.ErrorPrefix, displayLabel(field)+": "+message)
	}

	if !props.Interactive() {
		if !hasValue && field.Default != nil {
			props.Emit(field.Default)
		}
		return nil
	}

	name, _ := s.renderer.widgets.Resolve(field)
	switch name {
	case widgets.WidgetMeasurement:
		return s.measurement(props)
	case widgets.WidgetSlider:
		return s.slider(props)
	case widgets.WidgetToggle:
		return s.toggle(props)
	case widgets.WidgetSelect:
		return s.choice(props)
	case widgets.WidgetTextarea:
		return s.textarea(props)
	case widgets.WidgetNumber:
		return s.number(props)
	default:
		if field.Type == model.FieldTypeArray {
			return s.list(props)
		}
		return s.text(props)
	}
}

func (s *session) commit(path string) func(any) {
	return func(value any) {
		_ = s.state.Set(path, value)
		if s.options.OnChange != nil {
			s.options.OnChange(path, value)
		}
	}
}

func (s *session) measurement(props widgets.Props) error {
	in := measurementwidget.New(props)
	cfg := in.Config()
	label := displayLabel(props.Schema)
	help := displayHelp(props.Schema)

	if len(cfg.Units) > 1 {
		options := make([]string, len(cfg.Units))
		for i, unit := range cfg.Units {
			options[i] = unitOption(unit.Symbol, unit.Label)
		}
		idx, err := s.renderer.driver.Select(s.ctx, SelectConfig{
			Message:      label + " unit",
			Options:      options,
			DefaultIndex: indexOf(cfg.Symbols(), in.Value().Unit),
			Help:         help,
		})
		if err != nil {
			return err
		}
		if idx >= 0 && idx < len(cfg.Units) {
			in.ChangeUnit(cfg.Units[idx].Symbol)
		}
	}

	for {
		text, err := s.renderer.driver.Input(s.ctx, InputConfig{
			Message:  fmt.Sprintf("%s (%s)", label, in.Value().Unit),
			Default:  in.Text(),
			Help:     help,
			Validate: numericAnswer,
		})
		if err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" && props.Required {
			s.info(s.renderer.theme.ErrorPrefix, label+": required")
			continue
		}
		if _, ok := parseFinite(text); text != "" && !ok {
			s.info(s.renderer.theme.ErrorPrefix, label+": enter a number")
			continue
		}
		in.EditMagnitude(text)
		break
	}

	if alert := in.Alert(); alert != "" {
		s.info(s.renderer.theme.AlertPrefix, fmt.Sprintf("%s %s: %s", label, in.Reading(), alert))
	}
	return nil
}

func (s *session) slider(props widgets.Props) error {
	input := slider.New(props)
	label := displayLabel(props.Schema)
	message := fmt.Sprintf("%s [%s to %s, step %s]", label,
		formatNumber(input.Min()), formatNumber(input.Max()), formatNumber(input.Step()))

	for {
		text, err := s.renderer.driver.Input(s.ctx, InputConfig{
			Message: message,
			Default: input.Format(),
			Help:    displayHelp(props.Schema),
		})
		if err != nil {
			return err
		}
		requested, ok := parseFinite(strings.TrimSpace(text))
		if !ok {
			s.info(s.renderer.theme.ErrorPrefix, label+": enter a number")
			continue
		}
		input.Input(text)
		if input.Value() != requested {
			s.info(s.renderer.theme.InfoPrefix, fmt.Sprintf("%s: using %s", label, input.Format()))
		}
		return nil
	}
}

func (s *session) toggle(props widgets.Props) error {
	current, _ := props.Value.(bool)
	answer, err := s.renderer.driver.Confirm(s.ctx, ConfirmConfig{
		Message: displayLabel(props.Schema),
		Default: current,
		Help:    displayHelp(props.Schema),
	})
	if err != nil {
		return err
	}
	props.Emit(answer)
	return nil
}

func (s *session) choice(props widgets.Props) error {
	enum := props.Schema.Enum
	options := make([]string, len(enum))
	for i, option := range enum {
		options[i] = widgets.FormatValue(option)
	}
	label := displayLabel(props.Schema)

	for {
		idx, err := s.renderer.driver.Select(s.ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: indexOf(options, widgets.FormatValue(props.Value)),
			Help:         displayHelp(props.Schema),
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(enum) {
			s.info(s.renderer.theme.ErrorPrefix, label+": invalid selection")
			continue
		}
		props.Emit(enum[idx])
		return nil
	}
}

func (s *session) textarea(props widgets.Props) error {
	rules := collectValidationRules(props.Schema)
	label := displayLabel(props.Schema)
	for {
		text, err := s.renderer.driver.TextArea(s.ctx, TextAreaConfig{
			Message: label,
			Default: widgets.FormatValue(props.Value),
			Help:    displayHelp(props.Schema),
		})
		if err != nil {
			return err
		}
		if err := rules.validateString(text); err != nil {
			s.info(s.renderer.theme.ErrorPrefix, fmt.Sprintf("%s: %v", label, err))
			continue
		}
		props.Emit(text)
		return nil
	}
}

func (s *session) text(props widgets.Props) error {
	rules := collectValidationRules(props.Schema)
	label := displayLabel(props.Schema)
	for {
		text, err := s.renderer.driver.Input(s.ctx, InputConfig{
			Message: label,
			Default: widgets.FormatValue(props.Value),
			Help:    displayHelp(props.Schema),
		})
		if err != nil {
			return err
		}
		if err := rules.validateString(text); err != nil {
			s.info(s.renderer.theme.ErrorPrefix, fmt.Sprintf("%s: %v", label, err))
			continue
		}
		props.Emit(text)
		return nil
	}
}

func (s *session) number(props widgets.Props) error {
	rules := collectValidationRules(props.Schema)
	label := displayLabel(props.Schema)
	integer := props.Schema.Type == model.FieldTypeInteger

	for {
		text, err := s.renderer.driver.Input(s.ctx, InputConfig{
			Message: label,
			Default: widgets.FormatValue(props.Value),
			Help:    displayHelp(props.Schema),
		})
		if err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			if rules.required {
				s.info(s.renderer.theme.ErrorPrefix, label+": required")
				continue
			}
			props.Emit(nil)
			return nil
		}

		var parsed any
		if integer {
			i, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				s.info(s.renderer.theme.ErrorPrefix, label+": enter a whole number")
				continue
			}
			parsed = i
		} else {
			f, ok := parseFinite(text)
			if !ok {
				s.info(s.renderer.theme.ErrorPrefix, label+": enter a number")
				continue
			}
			parsed = f
		}
		if err := rules.validateNumber(parsed); err != nil {
			s.info(s.renderer.theme.ErrorPrefix, fmt.Sprintf("%s: %v", label, err))
			continue
		}
		props.Emit(parsed)
		return nil
	}
}

func (s *session) list(props widgets.Props) error {
	field := props.Schema
	label := displayLabel(field)
	rules := collectValidationRules(field)

	if field.Items != nil && len(field.Items.Enum) > 0 {
		options := make([]string, len(field.Items.Enum))
		for i, option := range field.Items.Enum {
			options[i] = widgets.FormatValue(option)
		}
		for {
			indices, err := s.renderer.driver.MultiSelect(s.ctx, SelectConfig{
				Message:  label,
				Options:  options,
				Defaults: indicesOf(options, stringifySlice(props.Value)),
				Help:     displayHelp(field),
			})
			if err != nil {
				return err
			}
			picked := make([]any, 0, len(indices))
			for _, idx := range indices {
				if idx >= 0 && idx < len(field.Items.Enum) {
					picked = append(picked, field.Items.Enum[idx])
				}
			}
			if err := rules.validateArray(picked); err != nil {
				s.info(s.renderer.theme.ErrorPrefix, fmt.Sprintf("%s: %v", label, err))
				continue
			}
			props.Emit(picked)
			return nil
		}
	}

	for {
		text, err := s.renderer.driver.Input(s.ctx, InputConfig{
			Message: label + " (comma separated)",
			Default: strings.Join(stringifySlice(props.Value), ", "),
			Help:    displayHelp(field),
		})
		if err != nil {
			return err
		}
		items := make([]any, 0)
		for _, part := range strings.Split(text, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		if err := rules.validateArray(items); err != nil {
			s.info(s.renderer.theme.ErrorPrefix, fmt.Sprintf("%s: %v", label, err))
			continue
		}
		props.Emit(items)
		return nil
	}
}

func (s *session) info(prefix, message string) {
	if prefix != "" {
		message = prefix + " " + message
	}
	_ = s.renderer.driver.Info(s.ctx, message)
}

func displayLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

func displayHelp(field model.Field) string {
	if help := uischema.PlainText(field.Hint(model.HintHelpText)); help != "" {
		return help
	}
	return field.Description
}

func unitOption(symbol, label string) string {
	if label == "" || label == symbol {
		return symbol
	}
	return fmt.Sprintf("%s (%s)", symbol, label)
}

func stringifySlice(value any) []string {
	list, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		out = append(out, widgets.FormatValue(item))
	}
	return out
}

func numericAnswer(answer string) error {
	if text := strings.TrimSpace(answer); text != "" {
		if _, ok := parseFinite(text); !ok {
			return errors.New("enter a number")
		}
	}
	return nil
}

func parseFinite(text string) (float64, bool) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
