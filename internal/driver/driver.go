// Package driver orchestrates one compilation end to end: read source,
// run the pipeline (parse → elaborate → semantic → IR → codegen), then
// hand the emitted assembly to the system toolchain (spec.md §4.7).
package driver

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"

	cerrors "c0c/internal/errors"
	"c0c/internal/codegen"
	"c0c/internal/elaborate"
	"c0c/internal/ir"
	"c0c/internal/parser"
	"c0c/internal/semantic"
)

// Exit codes spec.md §6/§7 assigns: 0 success, 7 any semantic rejection,
// 42 lexical/parse/file-read failure. Toolchain (assembler/linker)
// failure is outside that contract; the driver reports it as 1 so it is
// never confused with a language-level rejection.
const (
	ExitOK         = 0
	ExitSemantic   = 7
	ExitLexOrParse = 42
	ExitToolchain  = 1
)

var logger = log.New(os.Stderr, "c0c: ", log.LstdFlags)

// Result is what one Compile call produced, for the CLI entry point and
// for tests that want to assert on more than just the exit code.
type Result struct {
	BuildID  string
	ExitCode int
}

// Compile reads sourcePath, runs the full pipeline, and on success writes
// a linked executable to outPath.
func Compile(sourcePath, outPath string) Result {
	start := time.Now()
	buildID := ksuid.New().String()

	exitCode := compile(sourcePath, outPath, buildID)

	logger.Printf("build=%s source=%s out=%s exit=%d elapsed=%s",
		buildID, sourcePath, outPath, exitCode, time.Since(start))

	return Result{BuildID: buildID, ExitCode: exitCode}
}

func compile(sourcePath, outPath, buildID string) int {
	source, err := readSource(sourcePath)
	if err != nil {
		reportFailure(buildID, err)
		return ExitLexOrParse
	}

	reporter := cerrors.NewReporter(sourcePath, source)

	prog, parseErrs := parser.ParseSource(source)
	if len(parseErrs) > 0 {
		var diags []cerrors.RawDiagnostic
		for _, e := range parseErrs {
			diags = append(diags, cerrors.RawDiagnostic{Message: e.Message, Pos: e.Pos})
		}
		fmt.Fprintln(os.Stderr, reporter.FormatAllRaw(diags))
		return ExitLexOrParse
	}

	elaborated, err := elaborate.Elaborate(prog)
	if err != nil {
		fatal, ok := err.(*elaborate.FatalError)
		if !ok {
			fmt.Fprintln(os.Stderr, reporter.FormatRaw(cerrors.RawDiagnostic{Message: err.Error()}))
			return ExitSemantic
		}
		fmt.Fprintln(os.Stderr, reporter.Format(cerrors.CompilerError{Code: fatal.Code, Message: fatal.Message, Pos: fatal.Pos}))
		return ExitSemantic
	}

	if diags := semantic.Analyze(prog, elaborated); len(diags) > 0 {
		fmt.Fprintln(os.Stderr, reporter.FormatAll(diags))
		return ExitSemantic
	}

	lowered := ir.Lower(elaborated)
	asm := codegen.Generate(lowered)

	if err := assemble(asm, outPath); err != nil {
		reportFailure(buildID, err)
		if isToolchainError(err) {
			return ExitToolchain
		}
		return ExitLexOrParse
	}

	return ExitOK
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	return string(data), nil
}

// assemble pipes asm into `gcc -xassembler -o outPath -`, the system
// toolchain invocation spec.md §4.7 names, closing stdin before waiting
// so the assembler sees EOF (spec.md §5's resource-discipline note).
func assemble(asm, outPath string) error {
	cmd := exec.Command("gcc", "-xassembler", "-o", outPath, "-")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return errors.Wrap(err, "opening assembler stdin")
	}
	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "starting assembler")
	}
	if _, err := io.WriteString(stdin, asm); err != nil {
		stdin.Close()
		return errors.Wrap(err, "writing assembly to assembler")
	}
	if err := stdin.Close(); err != nil {
		return errors.Wrap(err, "closing assembler stdin")
	}
	if err := cmd.Wait(); err != nil {
		return errors.Wrap(err, "assembler/linker failed")
	}
	return nil
}

// isToolchainError reports whether err's root cause is the child process
// itself failing, as opposed to a failure to even start it (which the
// driver treats as the same I/O-adjacent bucket as a missing source file).
func isToolchainError(err error) bool {
	_, ok := errors.Cause(err).(*exec.ExitError)
	return ok
}

func reportFailure(buildID string, err error) {
	logger.Printf("build=%s failed: %v", buildID, err)
}
