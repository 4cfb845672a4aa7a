package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goliatone/go-formstruct"
	"github.com/goliatone/go-formstruct/internal/config"
	"github.com/goliatone/go-formstruct/internal/devserver"
	"github.com/goliatone/go-formstruct/internal/logging"
	"github.com/goliatone/go-formstruct/pkg/apidoc"
	"github.com/goliatone/go-formstruct/pkg/builder"
	"github.com/goliatone/go-formstruct/pkg/fieldtypes"
	"github.com/goliatone/go-formstruct/pkg/renderers/html"
	"github.com/goliatone/go-formstruct/pkg/renderers/tui"
	"github.com/goliatone/go-formstruct/pkg/structure"
)

const usage = `Usage: formstruct <command> [flags]

Commands:
  serve    run the in-memory structure API
  map      print the structure map of a scope
  types    list the field type catalogue
  edit     edit steps and fields interactively
  fill     prompt for the values of a step
  render   render a scope as HTML
  openapi  print the API contract document
`

var errUsage = errors.New("formstruct: unknown command")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "formstruct: %v\n", err)
		}
		os.Exit(1)
	}
}

type command func(ctx context.Context, env *environment, args []string) error

type environment struct {
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	commands := map[string]command{
		"serve":   serveCommand,
		"map":     mapCommand,
		"types":   typesCommand,
		"edit":    editCommand,
		"fill":    fillCommand,
		"render":  renderCommand,
		"openapi": openapiCommand,
	}
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("%w: %q", errUsage, args[0])
	}
	return cmd(ctx, &environment{stdout: stdout, stderr: stderr}, args[1:])
}

// setup parses the shared configuration plus any command flags registered by
// extra, and builds the logger.
func (e *environment) setup(name string, args []string, extra func(*flag.FlagSet)) (*config.Config, *slog.Logger, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	if extra != nil {
		extra(fs)
	}
	cfg, err := config.Load(fs, args)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, e.stderr)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*formstruct.Session, error) {
	return formstruct.Open(ctx, cfg.APIURL, cfg.Scope(),
		formstruct.WithPrefix(cfg.APIPrefix),
		formstruct.WithTimeout(cfg.Timeout),
		formstruct.WithLogger(logger),
	)
}

func serveCommand(ctx context.Context, env *environment, args []string) error {
	cfg, logger, err := env.setup("serve", args, nil)
	if err != nil {
		return err
	}
	seed, err := devserver.LoadSeed(cfg.SeedPath)
	if err != nil {
		return err
	}
	memory, err := devserver.NewMemory(seed)
	if err != nil {
		return err
	}
	srv, err := devserver.New(memory,
		devserver.WithLogger(logger),
		devserver.WithPrefix(cfg.APIPrefix),
	)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx, cfg.Addr)
}

func mapCommand(ctx context.Context, env *environment, args []string) error {
	var showHidden bool
	cfg, logger, err := env.setup("map", args, func(fs *flag.FlagSet) {
		fs.BoolVar(&showHidden, "hidden", false, "include hidden steps")
	})
	if err != nil {
		return err
	}
	session, err := open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	session.Builder.SetShowHidden(showHidden)
	writeMap(env.stdout, session.Builder.StructureMap())
	return nil
}

func writeMap(w io.Writer, groups []builder.MapGroup) {
	for _, group := range groups {
		fmt.Fprintf(w, "%s\n", group.Category)
		for _, step := range group.Steps {
			marker := ""
			if step.VisibleIndex < 0 {
				marker = " (hidden)"
			}
			fmt.Fprintf(w, "  %s. %s%s\n", step.Step.StepNumber, step.Step.Title, marker)
			for _, numbered := range step.Fields {
				fmt.Fprintf(w, "    %s %s [%s]\n", numbered.Number, numbered.Field.Label, numbered.Field.Type)
			}
			if step.HiddenFields > 0 {
				fmt.Fprintf(w, "    +%d hidden\n", step.HiddenFields)
			}
		}
	}
}

func typesCommand(_ context.Context, env *environment, args []string) error {
	if _, _, err := env.setup("types", args, nil); err != nil {
		return err
	}
	for _, group := range fieldtypes.ByCategory() {
		fmt.Fprintf(env.stdout, "%s: %s\n", group.Category.Name, group.Category.Description)
		for _, descriptor := range group.Types {
			fmt.Fprintf(env.stdout, "  %-20s %s\n", descriptor.Type, descriptor.Label)
		}
	}
	return nil
}

func openapiCommand(_ context.Context, env *environment, args []string) error {
	cfg, _, err := env.setup("openapi", args, nil)
	if err != nil {
		return err
	}
	raw, err := apidoc.JSON(cfg.APIPrefix)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(env.stdout, string(raw))
	return err
}

func fillCommand(ctx context.Context, env *environment, args []string) error {
	var stepRef, valuesPath, format, output string
	cfg, logger, err := env.setup("fill", args, func(fs *flag.FlagSet) {
		fs.StringVar(&stepRef, "step", "", "step number or id (all visible steps when empty)")
		fs.StringVar(&valuesPath, "values", "", "JSON file with existing values")
		fs.StringVar(&format, "format", string(tui.OutputFormatJSON), "output format: json, form or pretty")
		fs.StringVar(&output, "output", "", "output file (stdout if empty)")
	})
	if err != nil {
		return err
	}
	values, err := readValues(valuesPath)
	if err != nil {
		return err
	}
	session, err := open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	renderer, err := tui.New(
		tui.WithPromptDriver(tui.NewSurveyDriver(env.stderr)),
		tui.WithOutputFormat(tui.OutputFormat(format)),
		tui.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	b := session.Builder
	if stepRef == "" {
		values, err = renderer.Fill(ctx, b.State().Snapshot(), values)
	} else {
		step, ok := findStep(b, stepRef)
		if !ok {
			return fmt.Errorf("step %q not found", stepRef)
		}
		values, err = renderer.FillStep(ctx, step, b.FieldsForStep(step.ID), values)
	}
	if err != nil {
		return err
	}

	progress := b.Progress(values)
	fmt.Fprintf(env.stderr, "%d of %d steps complete (%d%%)\n", progress.Completed, progress.Total, progress.Percent())

	encoded, err := renderer.Encode(values)
	if err != nil {
		return err
	}
	return writeOutput(env.stdout, output, encoded)
}

func renderCommand(ctx context.Context, env *environment, args []string) error {
	var stepRef, valuesPath, output, title string
	var hosted bool
	cfg, logger, err := env.setup("render", args, func(fs *flag.FlagSet) {
		fs.StringVar(&stepRef, "step", "", "step number or id (whole document when empty)")
		fs.StringVar(&valuesPath, "values", "", "JSON file with values to prefill")
		fs.StringVar(&output, "output", "", "output file (stdout if empty)")
		fs.StringVar(&title, "title", "", "document title")
		fs.BoolVar(&hosted, "hosted", false, "emit mount points for external components")
	})
	if err != nil {
		return err
	}
	values, err := readValues(valuesPath)
	if err != nil {
		return err
	}
	session, err := open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	opts := []html.Option{html.WithLogger(logger)}
	if hosted {
		opts = append(opts, html.WithHostedComponents())
	}
	if title != "" {
		opts = append(opts, html.WithTitle(title))
	}
	renderer, err := html.New(opts...)
	if err != nil {
		return err
	}

	b := session.Builder
	in := html.Input{Values: values}
	var out []byte
	if stepRef == "" {
		out, err = renderer.RenderDocument(ctx, b.State().Snapshot(), in)
	} else {
		step, ok := findStep(b, stepRef)
		if !ok {
			return fmt.Errorf("step %q not found", stepRef)
		}
		out, err = renderer.RenderStep(ctx, step, b.FieldsForStep(step.ID), in)
	}
	if err != nil {
		return err
	}
	return writeOutput(env.stdout, output, out)
}

// findStep matches ref against step ids first, then step numbers.
func findStep(b *builder.Context, ref string) (structure.Step, bool) {
	if step, ok := b.Step(ref); ok {
		return step, true
	}
	for _, step := range b.Steps() {
		if step.StepNumber.String() == strings.TrimSpace(ref) {
			return step, true
		}
	}
	return structure.Step{}, false
}

func readValues(path string) (map[string]any, error) {
	values := map[string]any{}
	if path == "" {
		return values, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("values %s: %w", path, err)
	}
	return values, nil
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := fmt.Fprintln(stdout, string(data))
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Written to %s\n", path)
	return nil
}
