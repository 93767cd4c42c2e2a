package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	formgen "github.com/goliatone/go-formgen-clinical"
	"github.com/goliatone/go-formgen-clinical/pkg/orchestrator"
	"github.com/goliatone/go-formgen-clinical/pkg/schema"
)

// Writes the decorated form model for a schema as indented JSON, for
// inspecting what the builder and ui schema produce.
func main() {
	var (
		schemaPath = flag.String("schema", "examples/fixtures/vitals.json", "JSON Schema or OpenAPI path")
		uiDir      = flag.String("ui", "examples/fixtures/ui", "directory of ui schema files")
		component  = flag.String("component", "", "schema under components.schemas for OpenAPI documents")
		outputPath = flag.String("output", "", "output path for the serialized form model (stdout if empty)")
	)
	flag.Parse()

	options := []orchestrator.Option{}
	if *uiDir != "" {
		options = append(options, formgen.WithUISchemaFS(os.DirFS(*uiDir)))
	}
	if *component != "" {
		options = append(options, orchestrator.WithBuilder(formgen.NewBuilder(
			schema.WithParseOptions(schema.WithComponent(*component)),
		)))
	}

	form, _, err := formgen.NewOrchestrator(options...).Form(context.Background(), orchestrator.Request{
		Source: schema.SourceFromFile(*schemaPath),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build form model: %v\n", err)
		os.Exit(1)
	}

	payload, err := json.MarshalIndent(form, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode form model: %v\n", err)
		os.Exit(1)
	}
	payload = append(payload, '\n')

	if *outputPath == "" {
		os.Stdout.Write(payload)
		return
	}
	if err := os.WriteFile(*outputPath, payload, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write snapshot: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Wrote form model snapshot to %s\n", *outputPath)
}
