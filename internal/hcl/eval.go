package hcl

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// newEvalContext builds the evaluation context available to expressions in a
// configuration file. It exposes the process environment as `env` and the
// relevant filesystem locations as `path`.
func newEvalContext(configFile string) (*hcl.EvalContext, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	absFile, err := filepath.Abs(configFile)
	if err != nil {
		return nil, err
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envVal(os.Environ()),
			"path": cty.ObjectVal(map[string]cty.Value{
				"cwd":    cty.StringVal(cwd),
				"config": cty.StringVal(filepath.Dir(absFile)),
			}),
		},
	}, nil
}

// envVal converts environ-style "KEY=VALUE" pairs into a cty object value.
func envVal(environ []string) cty.Value {
	vars := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}
