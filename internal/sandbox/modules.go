package sandbox

import (
	"fmt"
	"math"

	starjson "go.starlark.net/lib/json"
	starmath "go.starlark.net/lib/math"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/lox/holdem-arena/internal/statistics"
)

// allowedBuiltins is the universe bot code may reference.
var allowedBuiltins = map[string]bool{
	"abs": true, "all": true, "any": true, "bool": true, "dict": true,
	"enumerate": true, "fail": true, "float": true, "int": true, "len": true,
	"list": true, "max": true, "min": true, "print": true, "range": true,
	"reversed": true, "sorted": true, "str": true, "tuple": true, "zip": true,
	"True": true, "False": true, "None": true,
}

// predeclared holds builtins we provide ourselves rather than take from the
// Starlark universe.
var predeclared = starlark.StringDict{
	"abs": starlark.NewBuiltin("abs", builtinAbs),
}

// modules are the only loadable modules. Each exports itself under its own
// name plus its members, so both load("math", "math") and
// load("math", "sqrt") work.
var modules = map[string]starlark.StringDict{
	"math":       exports(starmath.Module),
	"json":       exports(starjson.Module),
	"statistics": exports(statisticsModule),
}

var statisticsModule = &starlarkstruct.Module{
	Name: "statistics",
	Members: starlark.StringDict{
		"mean":   floatsBuiltin("statistics.mean", statistics.Mean),
		"median": floatsBuiltin("statistics.median", statistics.Median),
		"pstdev": floatsBuiltin("statistics.pstdev", statistics.PStdDev),
		"stdev":  floatsBuiltin("statistics.stdev", statistics.StdDev),
	},
}

func exports(m *starlarkstruct.Module) starlark.StringDict {
	d := starlark.StringDict{m.Name: m}
	for k, v := range m.Members {
		d[k] = v
	}
	return d
}

func loadModule(_ *starlark.Thread, module string) (starlark.StringDict, error) {
	if d, ok := modules[module]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("Import not allowed: %s", module)
}

func floatsBuiltin(name string, fn func([]float64) (float64, error)) *starlark.Builtin {
	return starlark.NewBuiltin(name, func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var seq starlark.Iterable
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &seq); err != nil {
			return nil, err
		}
		iter := seq.Iterate()
		defer iter.Done()

		var xs []float64
		var x starlark.Value
		for iter.Next(&x) {
			f, ok := starlark.AsFloat(x)
			if !ok {
				return nil, fmt.Errorf("%s: got %s, want number", b.Name(), x.Type())
			}
			xs = append(xs, f)
		}
		v, err := fn(xs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
		return starlark.Float(v), nil
	})
}

func builtinAbs(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &x); err != nil {
		return nil, err
	}
	switch v := x.(type) {
	case starlark.Int:
		if v.Sign() < 0 {
			return starlark.MakeInt(0).Sub(v), nil
		}
		return v, nil
	case starlark.Float:
		return starlark.Float(math.Abs(float64(v))), nil
	}
	return nil, fmt.Errorf("abs: got %s, want int or float", x.Type())
}
