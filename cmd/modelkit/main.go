package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	modelkit "github.com/reoring/modelkit"
	"github.com/reoring/modelkit/config"
	"github.com/reoring/modelkit/definition"
	"github.com/reoring/modelkit/flatten"
	"github.com/reoring/modelkit/model"
	"github.com/reoring/modelkit/openapi"
)

// errInvalid marks a validation failure; the report is already printed.
var errInvalid = errors.New("input is invalid")

func main() {
	modelkit.SetLogger(zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger())
	cfg, err := config.Load()
	if err != nil {
		fatalf("%v", err)
	}
	if err := config.Apply(cfg); err != nil {
		fatalf("%v", err)
	}
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	var err error
	switch args[0] {
	case "flatten":
		err = flattenCmd(args[1:], stdin, stdout)
	case "expand":
		err = expandCmd(args[1:], stdin, stdout)
	case "validate":
		err = validateCmd(ctx, args[1:], stdin, stdout)
	case "schema":
		err = schemaCmd(args[1:], stdout)
	default:
		usage(stderr)
		return 2
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errInvalid):
		return 1
	case errors.Is(err, flag.ErrHelp):
		return 2
	default:
		fmt.Fprintf(stderr, "modelkit: %v\n", err)
		return 1
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `modelkit CLI

Usage:
  modelkit flatten  [-in file] [-prefix p] [-keep-none]
  modelkit expand   [-in file]
  modelkit validate -defs models.yaml -model Name [-in file] [-partial] [-strict] [-role r]
  modelkit schema   -defs models.yaml [-model Name] [-format jsonschema|openapi]

Input is JSON or YAML, read from stdin when -in is empty or "-".`)
}

func flattenCmd(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("flatten", flag.ContinueOnError)
	in := fs.String("in", "", "input file")
	prefix := fs.String("prefix", "", "key prefix")
	keepNone := fs.Bool("keep-none", false, "emit null leaves")
	if err := fs.Parse(args); err != nil {
		return err
	}
	data, err := readInput(*in, stdin, false)
	if err != nil {
		return err
	}
	return writeJSON(stdout, flatten.Flatten(data, flatten.Options{Prefix: *prefix, KeepNone: *keepNone}))
}

func expandCmd(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("expand", flag.ContinueOnError)
	in := fs.String("in", "", "input file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	data, err := readInput(*in, stdin, false)
	if err != nil {
		return err
	}
	return writeJSON(stdout, flatten.Expand(data))
}

func validateCmd(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	in := fs.String("in", "", "input file")
	defs := fs.String("defs", "", "model definition file")
	name := fs.String("model", "", "model name")
	partial := fs.Bool("partial", false, "waive required fields")
	strict := fs.Bool("strict", false, "reject unknown keys")
	role := fs.String("role", "", "serialize under role")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *defs == "" || *name == "" {
		fs.Usage()
		return flag.ErrHelp
	}
	s, err := lookupSchema(*defs, *name)
	if err != nil {
		return err
	}
	data, err := readInput(*in, stdin, *strict)
	var dup *modelkit.DuplicateKeyError
	if errors.As(err, &dup) {
		return report(stdout, dup.Flat())
	}
	if err != nil {
		return err
	}
	inst, err := s.Load(ctx, data, model.ValidateOpt{Partial: *partial, Strict: *strict})
	if mve, ok := modelkit.AsModelError(err); ok {
		return report(stdout, mve.Flat())
	}
	if err != nil {
		return err
	}
	out, err := inst.Serialize(*role)
	if err != nil {
		return err
	}
	return writeJSON(stdout, out)
}

func report(w io.Writer, errs map[string][]string) error {
	if err := writeJSON(w, map[string]any{"errors": errs}); err != nil {
		return err
	}
	return errInvalid
}

func schemaCmd(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	defs := fs.String("defs", "", "model definition file")
	name := fs.String("model", "", "model name; all models when empty")
	format := fs.String("format", "jsonschema", "jsonschema or openapi")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *defs == "" {
		fs.Usage()
		return flag.ErrHelp
	}
	reg, err := definition.LoadFile(*defs)
	if err != nil {
		return err
	}
	schemas := reg.Schemas()
	if *name != "" {
		s, ok := reg.Schema(*name)
		if !ok {
			return fmt.Errorf("%w: %q", definition.ErrUnknownModel, *name)
		}
		schemas = []*model.Schema{s}
	}
	switch *format {
	case "jsonschema":
		if len(schemas) == 1 {
			return writeJSON(stdout, schemas[0].JSONSchema())
		}
		docs := make(map[string]any, len(schemas))
		for _, s := range schemas {
			docs[s.Name()] = s.JSONSchema()
		}
		return writeJSON(stdout, docs)
	case "openapi":
		title := strings.TrimSuffix(filepath.Base(*defs), filepath.Ext(*defs))
		return writeJSON(stdout, openapi.Document(openapi.Info{Title: title}, schemas...))
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
}

func lookupSchema(defs, name string) (*model.Schema, error) {
	reg, err := definition.LoadFile(defs)
	if err != nil {
		return nil, err
	}
	s, ok := reg.Schema(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", definition.ErrUnknownModel, name)
	}
	return s, nil
}

// readInput picks the decoder by extension, or by the first byte for stdin.
// Strict JSON input rejects repeated keys.
func readInput(path string, stdin io.Reader, strict bool) (map[string]any, error) {
	var (
		b   []byte
		err error
	)
	if path == "" || path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".yaml" || ext == ".yml":
		return modelkit.YAMLBytes(b).Decode()
	case ext != ".json" && !bytes.HasPrefix(bytes.TrimSpace(b), []byte("{")):
		return modelkit.YAMLBytes(b).Decode()
	case strict:
		return modelkit.StrictJSONBytes(b).Decode()
	default:
		return modelkit.JSONBytes(b).Decode()
	}
}

func writeJSON(w io.Writer, v any) error {
	b, err := modelkit.EncodeJSONIndent(v)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "modelkit: "+format+"\n", args...)
	os.Exit(1)
}
