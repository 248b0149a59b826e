package main

import (
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/smarthome-go/defscript/defscript"
	"github.com/smarthome-go/defscript/defscript/errors"
	"github.com/smarthome-go/defscript/defscript/lexer"
	"github.com/smarthome-go/defscript/defscript/parser/ast"
	"github.com/smarthome-go/defscript/defscript/resolver"
	"github.com/urfave/cli/v2"
)

var validFormats = map[string]struct{}{
	"text": {},
	"json": {},
	"yaml": {},
}

func readProgram(ctx *cli.Context) (filename string, program string, err error) {
	filename = ctx.Args().First()

	file, err := os.ReadFile(filename)
	if err != nil {
		return "", "", fmt.Errorf("Could not read file `%s`: %w", filename, err)
	}

	return filename, string(file), nil
}

// reportErrors prints a diagnostic for every error and returns an error which causes exit code 1.
func reportErrors(ctx *cli.Context, state *appState, filename string, program string, errs []errors.Error) error {
	printDiagnostics(ctx.App.ErrWriter, filename, program, errs, state.color)
	return cli.Exit(fmt.Sprintf("Encountered %d error(s)", len(errs)), 1)
}

func parseFile(ctx *cli.Context, state *appState) (filename string, program string, statements []ast.Expression, err error) {
	filename, program, err = readProgram(ctx)
	if err != nil {
		return "", "", nil, err
	}

	tokens, errs := defscript.Lex(program)
	if len(errs) > 0 {
		return "", "", nil, reportErrors(ctx, state, filename, program, errs)
	}

	statements, errs = defscript.Parse(tokens)
	if len(errs) > 0 {
		return "", "", nil, reportErrors(ctx, state, filename, program, errs)
	}

	state.logger.Debug("Parsed file", "file", filename, "statements", len(statements))
	return filename, program, statements, nil
}

//
// Commands
//

func evalCommand(ctx *cli.Context, state *appState) error {
	format := ctx.String("format")
	if _, valid := validFormats[format]; !valid {
		return fmt.Errorf("Invalid output format `%s`: valid formats are text, json and yaml", format)
	}

	filename, program, err := readProgram(ctx)
	if err != nil {
		return err
	}

	result, errs := defscript.Run(program, defscript.WithLogger(state.logger.With("file", filename)))
	if len(errs) > 0 {
		return reportErrors(ctx, state, filename, program, errs)
	}

	names := selectNames(result.Order, ctx.String("select"))
	state.logger.Debug("Selected names", "pattern", ctx.String("select"), "selected", len(names), "total", len(result.Order))

	return writeResult(ctx.App.Writer, result, names, format)
}

func checkCommand(ctx *cli.Context, state *appState) error {
	filename, program, statements, err := parseFile(ctx, state)
	if err != nil {
		return err
	}

	resolution, errs := resolver.Resolve(statements)
	if len(errs) > 0 {
		return reportErrors(ctx, state, filename, program, errs)
	}

	writeResolution(ctx.App.Writer, statements, resolution)
	return nil
}

func writeResolution(writer io.Writer, statements []ast.Expression, resolution resolver.Resolution) {
	fmt.Fprintf(writer, "Evaluation order (%d rounds):\n", resolution.Rounds)
	for idx, name := range resolution.Order {
		fmt.Fprintf(writer, "%3d. %s\n", idx+1, name)
	}

	fmt.Fprintln(writer)

	// statements with multiple targets are printed once
	printed := make(map[int]struct{})
	for _, name := range resolution.Order {
		statementIdx := resolution.Statements[name]
		if _, found := printed[statementIdx]; found {
			continue
		}
		printed[statementIdx] = struct{}{}

		fmt.Fprintf(writer, "%s;\n", statements[statementIdx])
	}
}

func astCommand(ctx *cli.Context, state *appState) error {
	_, _, statements, err := parseFile(ctx, state)
	if err != nil {
		return err
	}

	config := spew.ConfigState{
		Indent:                  "    ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
	}
	config.Fdump(ctx.App.Writer, statements)

	return nil
}

func tokensCommand(ctx *cli.Context, state *appState) error {
	filename, program, err := readProgram(ctx)
	if err != nil {
		return err
	}

	tokens, errs := defscript.Lex(program)
	writeTokens(ctx.App.Writer, program, tokens)

	if len(errs) > 0 {
		return reportErrors(ctx, state, filename, program, errs)
	}
	return nil
}

func writeTokens(writer io.Writer, program string, tokens []lexer.Token) {
	for _, token := range tokens {
		start := errors.LocationOf(program, token.Span.Start)
		end := errors.LocationOf(program, token.Span.End)

		fmt.Fprintf(
			writer,
			"%-12s %-12s %s\n",
			fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Column, end.Line, end.Column),
			token.Kind,
			token.Value,
		)
	}
}
