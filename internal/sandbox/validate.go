package sandbox

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.starlark.net/resolve"
	"go.starlark.net/syntax"
)

// entryPoint is the function every bot must define.
const entryPoint = "decide_action"

const botFilename = "bot.star"

var (
	importLine     = regexp.MustCompile(`^(\s*)import\s+(.+?)\s*(#.*)?$`)
	fromImportLine = regexp.MustCompile(`^(\s*)from\s+([\w.]+)\s+import\s+(.+?)\s*(#.*)?$`)
	importName     = regexp.MustCompile(`^([\w.]+)(?:\s+as\s+(\w+))?$`)
)

// Validate statically checks bot code without running it: it must parse,
// load only allowed modules, reference only allowed builtins, and define a
// top-level decide_action taking one positional argument. The returned error
// is a *ValidationError.
func Validate(code string) error {
	_, err := check(code)
	return err
}

// check validates code and returns the rewritten source ready to compile.
func check(code string) (string, error) {
	src, err := rewriteImports(code)
	if err != nil {
		return "", err
	}

	f, err := syntax.Parse(botFilename, src, 0)
	if err != nil {
		return "", syntaxError(err)
	}
	if err := checkLoads(f); err != nil {
		return "", err
	}
	if err := checkEntryPoint(f); err != nil {
		return "", err
	}
	isUniversal := func(name string) bool { return allowedBuiltins[name] }
	if err := resolve.File(f, predeclared.Has, isUniversal); err != nil {
		return "", nameError(err)
	}
	return src, nil
}

// rewriteImports turns Python-style imports into load statements line for
// line, so "import math" and "from statistics import mean" work and
// line numbers are preserved. Whether the module is allowed is decided later.
func rewriteImports(code string) (string, error) {
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		var module string
		var bindings []string
		indent := ""

		if m := fromImportLine.FindStringSubmatch(line); m != nil {
			indent, module = m[1], m[2]
			for _, part := range strings.Split(strings.Trim(m[3], "()"), ",") {
				name := importName.FindStringSubmatch(strings.TrimSpace(part))
				if name == nil {
					return "", &ValidationError{Kind: KindSyntax, Line: i + 1, Msg: fmt.Sprintf("SyntaxError: cannot parse import %q", strings.TrimSpace(part))}
				}
				bindings = append(bindings, binding(name[1], name[2]))
			}
		} else if m := importLine.FindStringSubmatch(line); m != nil {
			indent = m[1]
			for _, part := range strings.Split(m[2], ",") {
				name := importName.FindStringSubmatch(strings.TrimSpace(part))
				if name == nil {
					return "", &ValidationError{Kind: KindSyntax, Line: i + 1, Msg: fmt.Sprintf("SyntaxError: cannot parse import %q", strings.TrimSpace(part))}
				}
				if module != "" && module != name[1] {
					return "", &ValidationError{Kind: KindImport, Line: i + 1, Msg: "import one module per line"}
				}
				module = name[1]
				bindings = append(bindings, binding(name[1], name[2]))
			}
		} else {
			continue
		}

		if _, ok := modules[module]; !ok {
			return "", importError(i+1, module)
		}
		if indent != "" {
			return "", &ValidationError{Kind: KindImport, Line: i + 1, Msg: fmt.Sprintf("import of %s must be at top level", module)}
		}
		lines[i] = fmt.Sprintf("load(%q, %s)", module, strings.Join(bindings, ", "))
	}
	return strings.Join(lines, "\n"), nil
}

func binding(name, alias string) string {
	if alias == "" || alias == name {
		return fmt.Sprintf("%q", name)
	}
	return fmt.Sprintf("%s=%q", alias, name)
}

func checkLoads(f *syntax.File) error {
	for _, stmt := range f.Stmts {
		load, ok := stmt.(*syntax.LoadStmt)
		if !ok {
			continue
		}
		module, _ := load.Module.Value.(string)
		line := int(load.Load.Line)
		exported, ok := modules[module]
		if !ok {
			return importError(line, module)
		}
		for _, from := range load.From {
			if _, ok := exported[from.Name]; !ok {
				return &ValidationError{Kind: KindImport, Line: line, Msg: fmt.Sprintf("module %s has no member %q", module, from.Name)}
			}
		}
	}
	return nil
}

func checkEntryPoint(f *syntax.File) error {
	for _, stmt := range f.Stmts {
		def, ok := stmt.(*syntax.DefStmt)
		if !ok || def.Name.Name != entryPoint {
			continue
		}
		required, optional, keywordOnly, variadic := 0, 0, 0, false
		afterStar := false
		for _, param := range def.Params {
			switch p := param.(type) {
			case *syntax.Ident:
				if afterStar {
					keywordOnly++
				} else {
					required++
				}
			case *syntax.BinaryExpr:
				if !afterStar {
					optional++
				}
			case *syntax.UnaryExpr:
				if p.Op == syntax.STAR {
					afterStar = true
					variadic = variadic || p.X != nil
				}
			}
		}
		if keywordOnly > 0 {
			return &ValidationError{
				Kind: KindEntryPoint,
				Line: int(def.Def.Line),
				Msg:  fmt.Sprintf("%s must accept exactly one positional argument (game_state), it requires %d keyword-only argument(s)", entryPoint, keywordOnly),
			}
		}
		if required == 1 || (required == 0 && (optional > 0 || variadic)) {
			return nil
		}
		return &ValidationError{
			Kind: KindEntryPoint,
			Line: int(def.Def.Line),
			Msg:  fmt.Sprintf("%s must accept exactly one positional argument (game_state), it requires %d", entryPoint, required),
		}
	}
	return &ValidationError{Kind: KindEntryPoint, Msg: fmt.Sprintf("code must define a top-level function %s(game_state)", entryPoint)}
}

func importError(line int, module string) *ValidationError {
	return &ValidationError{Kind: KindImport, Line: line, Msg: "Import not allowed: " + module}
}

func syntaxError(err error) *ValidationError {
	var serr syntax.Error
	if errors.As(err, &serr) {
		return &ValidationError{Kind: KindSyntax, Line: int(serr.Pos.Line), Msg: "SyntaxError: " + serr.Msg}
	}
	return &ValidationError{Kind: KindSyntax, Msg: "SyntaxError: " + err.Error()}
}

func nameError(err error) *ValidationError {
	var list resolve.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		return &ValidationError{Kind: KindName, Line: int(list[0].Pos.Line), Msg: list[0].Msg}
	}
	return &ValidationError{Kind: KindName, Msg: err.Error()}
}
