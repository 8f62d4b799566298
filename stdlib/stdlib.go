// Package stdlib registers a standard prelude: an expression template
// evaluated with expr, and small numeric combinators built on the
// same decode machinery renderers use for their own templates.
package stdlib

import (
	"fmt"
	"os"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/opal-format/go-opal"
)

// Expression is a compiled expr program defined in configuration as
// expression("..."). Variables are bound at Eval time.
type Expression struct {
	Src  string
	prog *vm.Program
}

// Eval runs the expression against env.
func (x *Expression) Eval(env map[string]any) (any, error) {
	return vm.Run(x.prog, env)
}

// EvalNumber runs the expression and requires a numeric result.
func (x *Expression) EvalNumber(env map[string]any) (float64, error) {
	res, err := x.Eval(env)
	if err != nil {
		return 0, err
	}
	switch v := res.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	}
	return 0, fmt.Errorf("expression %q: result %T is not a number", x.Src, res)
}

func exprOpts() []expr.Option {
	return []expr.Option{
		expr.AllowUndefinedVariables(),
		expr.Function("getenv", func(params ...any) (any, error) {
			return os.Getenv(params[0].(string)), nil
		},
			new(func(string) string)),
	}
}

// Register adds the standard entries to a prelude. It must run before
// the prelude is finalized.
func Register(p *opal.Prelude) error {
	e := p.Object("expression").Arguments("src")
	if err := opal.AddDecoder(e, decodeExpression); err != nil {
		return err
	}
	for name, fn := range map[string]func(a, b float64) float64{
		"add": func(a, b float64) float64 { return a + b },
		"sub": func(a, b float64) float64 { return a - b },
		"mul": func(a, b float64) float64 { return a * b },
		"div": func(a, b float64) float64 { return a / b },
	} {
		o := p.Object(name).Arguments("a", "b")
		err := opal.AddDecoder(o, func(e opal.Entry) (float64, error) {
			a, err := number(e.Get("a"))
			if err != nil {
				return 0, err
			}
			b, err := number(e.Get("b"))
			if err != nil {
				return 0, err
			}
			return fn(a, b), nil
		})
		if err != nil {
			return err
		}
	}
	mix := p.Object("mix").Arguments("a", "b", "t")
	return opal.AddDecoder(mix, func(e opal.Entry) (float64, error) {
		a, err := number(e.Get("a"))
		if err != nil {
			return 0, err
		}
		b, err := number(e.Get("b"))
		if err != nil {
			return 0, err
		}
		t, err := number(e.Get("t"))
		if err != nil {
			return 0, err
		}
		return a + (b-a)*t, nil
	})
}

func decodeExpression(e opal.Entry) (*Expression, error) {
	src, err := opal.Decode[string](e.Get("src"))
	if err != nil {
		return nil, err
	}
	prog, err := expr.Compile(src, exprOpts()...)
	if err != nil {
		return nil, fmt.Errorf("expression %q: %w", src, err)
	}
	return &Expression{Src: src, prog: prog}, nil
}

// number reads a numeric field that may itself be a combinator
// template: the static decode is tried first, dynamic dispatch
// second.
func number(e opal.Entry) (float64, error) {
	n, err := opal.Decode[float64](e)
	if err == nil {
		return n, nil
	}
	if dn, derr := opal.DynamicDecode[float64](e); derr == nil {
		return dn, nil
	}
	return 0, err
}
