package evaluator

import (
	"fmt"
	"regexp"

	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"
	"github.com/patrickmn/go-cache"
)

// variable roots are written with a "$" prefix in descriptors ($parameter,
// $credentials) and stripped before compiling
var dollarVariable = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)

var programs = cache.New(cache.NoExpiration, 0)

type Expression string

func (e Expression) String() string {
	return string(e)
}

// EvaluateWithVars compiles the expression once and runs it against params
func (e Expression) EvaluateWithVars(params map[string]interface{}) (interface{}, error) {
	program, err := e.compile()
	if err != nil {
		return nil, err
	}

	result, err := expr.Run(program, params)
	if err != nil {
		return nil, fmt.Errorf("evaluating expression %q: %w", e, err)
	}
	return result, nil
}

func (e Expression) compile() (*vm.Program, error) {
	if cached, found := programs.Get(string(e)); found {
		return cached.(*vm.Program), nil
	}

	source := dollarVariable.ReplaceAllString(string(e), "$1")
	program, err := expr.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("compiling expression %q: %w", e, err)
	}
	programs.SetDefault(string(e), program)

	return program, nil
}
