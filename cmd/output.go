package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/goccy/go-yaml"
	"github.com/sahilm/fuzzy"
	"github.com/smarthome-go/defscript/defscript"
	"github.com/smarthome-go/defscript/defscript/diagnostic"
	"github.com/smarthome-go/defscript/defscript/errors"
	"github.com/smarthome-go/defscript/defscript/value"
	"golang.org/x/term"
)

func colorEnabled(mode string, output *os.File) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		return term.IsTerminal(int(output.Fd())), nil
	default:
		return false, fmt.Errorf("Invalid color mode `%s`: valid modes are auto, always and never", mode)
	}
}

func printDiagnostics(writer io.Writer, filename string, program string, errs []errors.Error, color bool) {
	for _, err := range errs {
		fmt.Fprintln(writer, diagnostic.FromError(err).Display(filename, program, color))
	}
}

// selectNames keeps the names which fuzzy-match `pattern`, in the order of `names`.
func selectNames(names []string, pattern string) []string {
	if pattern == "" {
		return names
	}

	indices := make([]int, 0)
	for _, match := range fuzzy.Find(pattern, names) {
		indices = append(indices, match.Index)
	}
	slices.Sort(indices)

	selected := make([]string, 0, len(indices))
	for _, idx := range indices {
		selected = append(selected, names[idx])
	}
	return selected
}

//
// Result formatting
//

type nativeResult struct {
	Values      map[string]any `json:"values"`
	Order       []string       `json:"order"`
	Expressions []any          `json:"expressions"`
}

func writeResult(writer io.Writer, result defscript.Result, names []string, format string) error {
	switch format {
	case "text":
		for _, name := range names {
			fmt.Fprintf(writer, "%s = %s\n", name, result.Values[name].Value.Display())
		}
		for _, expr := range result.Expressions {
			fmt.Fprintln(writer, expr.Value.Display())
		}
		return nil
	case "json":
		output := nativeResult{
			Values:      make(map[string]any),
			Order:       names,
			Expressions: make([]any, 0, len(result.Expressions)),
		}
		for _, name := range names {
			output.Values[name] = value.ToNative(result.Values[name].Value)
		}
		for _, expr := range result.Expressions {
			output.Expressions = append(output.Expressions, value.ToNative(expr.Value))
		}

		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "    ")
		return encoder.Encode(output)
	case "yaml":
		// A map slice keeps the evaluation order
		values := make(yaml.MapSlice, 0, len(names))
		for _, name := range names {
			values = append(values, yaml.MapItem{Key: name, Value: value.ToNative(result.Values[name].Value)})
		}

		document := yaml.MapSlice{{Key: "values", Value: values}}
		if len(result.Expressions) > 0 {
			expressions := make([]any, 0, len(result.Expressions))
			for _, expr := range result.Expressions {
				expressions = append(expressions, value.ToNative(expr.Value))
			}
			document = append(document, yaml.MapItem{Key: "expressions", Value: expressions})
		}

		encoded, err := yaml.Marshal(document)
		if err != nil {
			return fmt.Errorf("Could not encode result as YAML: %w", err)
		}
		_, err = writer.Write(encoded)
		return err
	default:
		return fmt.Errorf("Invalid output format `%s`: valid formats are text, json and yaml", format)
	}
}
