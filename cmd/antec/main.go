// Command antec is the compiler driver. Lexing, concrete-syntax parsing,
// SSA emission, and linking are all collaborators that live outside this
// module (see the top-level design notes); what lives here is flag
// handling and the small amount of glue needed to exercise the type-
// system core directly — useful for -check and for feeding it the one
// syntactic shape simple enough to hand-parse here: a bare type name,
// optionally wrapped in pointer or array prefixes.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/antecc/antec/internal/config"
	"github.com/antecc/antec/internal/diagnostics"
	"github.com/antecc/antec/internal/syntax"
	"github.com/antecc/antec/internal/types"
)

// fileConfig is the optional on-disk default set, loaded from .antec.yml
// in the current directory when present (§-ambient config, see
// DESIGN.md: this module's config layer).
type fileConfig struct {
	OptLevel int      `yaml:"opt_level"`
	LibPaths []string `yaml:"lib_paths"`
	NoColor  bool     `yaml:"no_color"`
}

func loadFileConfig() fileConfig {
	var fc fileConfig
	data, err := os.ReadFile(".antec.yml")
	if err != nil {
		return fc
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		fmt.Fprintf(os.Stderr, "warning: malformed .antec.yml: %s\n", err)
	}
	return fc
}

type cliFlags struct {
	compile   bool
	output    string
	printIR   bool
	optLevel  int
	run       bool
	help      bool
	libPaths  []string
	emitLLVM  bool
	check     bool
	noColor   bool
	eval      string
	showTime  bool
	sourceArg string
}

func parseFlags(args []string) (*cliFlags, error) {
	f := &cliFlags{optLevel: -1}
	i := 0
	for i < len(args) {
		arg := args[i]
		switch arg {
		case "-c":
			f.compile = true
		case "-o":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("-o requires a name")
			}
			i++
			f.output = args[i]
		case "-p":
			f.printIR = true
		case "-O":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("-O requires a level 0..3")
			}
			i++
			lvl, err := strconv.Atoi(args[i])
			if err != nil || lvl < 0 || lvl > 3 {
				return nil, fmt.Errorf("-O level must be 0..3, got %q", args[i])
			}
			f.optLevel = lvl
		case "-r":
			f.run = true
		case "-help", "--help":
			f.help = true
		case "-lib":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("-lib requires a path or glob")
			}
			i++
			matches, err := doublestar.FilepathGlob(args[i])
			if err != nil {
				return nil, fmt.Errorf("-lib: bad glob %q: %w", args[i], err)
			}
			if matches == nil {
				matches = []string{args[i]}
			}
			f.libPaths = append(f.libPaths, matches...)
		case "-emit-llvm":
			f.emitLLVM = true
		case "-check":
			f.check = true
		case "-no-color":
			f.noColor = true
		case "-e":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("-e requires an expression")
			}
			i++
			f.eval = args[i]
		case "-time":
			f.showTime = true
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, fmt.Errorf("unknown flag: %s", arg)
			}
			f.sourceArg = arg
		}
		i++
	}
	return f, nil
}

func useColor(f *cliFlags) bool {
	if f.noColor {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

func main() {
	fc := loadFileConfig()
	f, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "antec: %s\n", err)
		os.Exit(1)
	}
	if f.optLevel < 0 {
		f.optLevel = fc.OptLevel
	}
	if len(f.libPaths) == 0 {
		f.libPaths = fc.LibPaths
	}
	if !f.noColor {
		f.noColor = fc.NoColor
	}

	if f.help {
		printHelp()
		return
	}

	start := time.Now()
	defer func() {
		if f.showTime {
			fmt.Fprintf(os.Stderr, "antec: %s\n", time.Since(start))
		}
	}()

	if f.check {
		runSelfCheck(useColor(f))
		return
	}

	if f.eval != "" {
		runEvalType(f.eval, useColor(f), f.emitLLVM)
		return
	}

	if f.sourceArg == "" {
		fmt.Fprintln(os.Stderr, "antec: no input; the lexer/parser collaborator that turns source into syntax.TypeNode is not part of this module")
		os.Exit(1)
	}

	if _, err := os.Stat(f.sourceArg); err != nil {
		fmt.Fprintf(os.Stderr, "antec: %s: %s\n", f.sourceArg, err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "antec: %s read (%d bytes); compiling it requires the parser/SSA collaborators, not present in this module\n",
		f.sourceArg, fileSize(f.sourceArg))
	if f.output != "" {
		fmt.Fprintf(os.Stderr, "antec: would have written %s\n", outputName(f))
	}
}

func outputName(f *cliFlags) string {
	if f.output != "" {
		return f.output
	}
	base := strings.TrimSuffix(filepath.Base(f.sourceArg), filepath.Ext(f.sourceArg))
	if f.emitLLVM {
		return base + ".ll"
	}
	return base
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// runEvalType exercises FromSyntactic/Lower end to end on the one
// syntactic shape this driver can build without a real parser: a bare
// primitive or declared type name, optionally pointer/array-wrapped with
// a leading sigil ("*i32", "[4]i32").
func runEvalType(expr string, color bool, emitLLVM bool) {
	a := types.NewArena()
	var diags diagnostics.Bag
	node := parseMiniTypeExpr(expr)
	t := a.FromSyntactic(node, nil, &diags)

	if !diags.Empty() {
		for _, d := range diags.All() {
			printDiag(d, color)
		}
		os.Exit(1)
	}

	fmt.Println(t.String())
	if bits, fatal := a.BitWidth(t); fatal != nil {
		fmt.Fprintf(os.Stderr, "antec: %s\n", fatal.Error())
	} else {
		fmt.Printf("size: %d bits\n", bits)
	}
	if emitLLVM {
		ir, fatal := a.Lower(t)
		if fatal != nil {
			fmt.Fprintf(os.Stderr, "antec: %s\n", fatal.Error())
			return
		}
		fmt.Println("ir:", ir.String())
	}
}

// parseMiniTypeExpr handles "name", "*name", "[N]name" — just enough to
// drive -e without reimplementing the real grammar.
func parseMiniTypeExpr(expr string) *syntax.TypeNode {
	expr = strings.TrimSpace(expr)
	at := syntax.Pos{File: "<eval>", Line: 1, Column: 1}
	if strings.HasPrefix(expr, "*") {
		return &syntax.TypeNode{Kind: syntax.KindPointer, At: at, Children: []*syntax.TypeNode{parseMiniTypeExpr(expr[1:])}}
	}
	if strings.HasPrefix(expr, "[") {
		if idx := strings.Index(expr, "]"); idx > 0 {
			length, _ := strconv.Atoi(expr[1:idx])
			return &syntax.TypeNode{Kind: syntax.KindArray, At: at, Length: length,
				Children: []*syntax.TypeNode{parseMiniTypeExpr(expr[idx+1:])}}
		}
	}
	return &syntax.TypeNode{Kind: syntax.KindNamed, Ident: expr, At: at}
}

func printDiag(d diagnostics.Diagnostic, color bool) {
	if color {
		fmt.Fprintf(os.Stderr, "\033[31merror\033[0m[%s]: %s\n", d.Code, d.Message)
		return
	}
	fmt.Fprintf(os.Stderr, "error[%s]: %s\n", d.Code, d.Message)
}

// runSelfCheck builds a small generic record, instantiates it twice, and
// runs it through equivalence, size, and lowering — a smoke test for
// -check that needs no input file at all.
func runSelfCheck(color bool) {
	a := types.NewArena()
	tv := a.TypeVariable("a")
	i32 := a.MustPrimitive(types.I32)
	boxDecl := a.DeclareDataType("Box", types.ShapeRecord, []*types.Type{tv}, []string{"a"}, nil, nil)

	boxI32 := a.InstantiateDataType(boxDecl, []*types.Type{i32}, nil, syntax.Pos{})
	boxI32Again := a.InstantiateDataType(boxDecl, []*types.Type{i32}, nil, syntax.Pos{})

	fmt.Printf("Box<i32> printed twice: %s, %s (same value: %v)\n",
		boxI32.String(), boxI32Again.String(), types.StructuralEqual(boxI32, boxI32Again))

	res := a.Check(boxI32, boxI32Again)
	fmt.Printf("equivalence: %s (match_count=%d)\n", res.Status, res.MatchCount)

	bits, fatal := a.BitWidth(boxI32)
	if fatal != nil {
		fmt.Fprintf(os.Stderr, "antec: %s\n", fatal.Error())
		os.Exit(1)
	}
	fmt.Printf("size: %d bits\n", bits)

	ir, fatal := a.Lower(boxI32)
	if fatal != nil {
		fmt.Fprintf(os.Stderr, "antec: %s\n", fatal.Error())
		os.Exit(1)
	}
	fmt.Println("ir:", ir.String())

	if color {
		fmt.Println("\033[32mself-check passed\033[0m")
	} else {
		fmt.Println("self-check passed")
	}
}

func printHelp() {
	fmt.Println(`antec ` + config.Version + ` — type-system core driver

Usage:
  antec [flags] <source>

Flags:
  -c             compile only, do not link
  -o <name>      output file name
  -p             print the produced IR
  -O <0..3>      optimization level
  -r             run after compiling
  -lib <path>    additional library search path or glob
  -emit-llvm     emit textual IR instead of an object
  -check         run the internal self-check and exit
  -no-color      disable colored diagnostics
  -e <expr>      evaluate a bare type expression (e.g. "*i32", "[4]i32")
  -time          print elapsed wall time on exit
  -help          show this message`)
}
