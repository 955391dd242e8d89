package tasksvc

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/cel-go/cel"
)

// celFilter wraps a compiled CEL program evaluated against completions before
// delivery to a subscriber. When disabled, Eval always returns true.
type celFilter struct {
	prog    cel.Program
	enabled bool
}

func newCELFilter(expr string) (celFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return celFilter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("identity", cel.StringType),
		cel.Variable("topic", cel.StringType),
		cel.Variable("ts_ms", cel.IntType),
		cel.Variable("size", cel.IntType),
		cel.Variable("text", cel.StringType),
		// Expose parsed JSON payload (map/list/values) for field filtering
		cel.Variable("json", cel.DynType),
		// Current time in ms for windowed filters
		cel.Variable("now_ms", cel.IntType),
	)
	if err != nil {
		return celFilter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return celFilter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return celFilter{}, iss2.Err()
	}
	prog, err := env.Program(checked)
	if err != nil {
		return celFilter{}, err
	}
	return celFilter{prog: prog, enabled: true}, nil
}

// Eval evaluates the compiled expression against a completion. When disabled,
// returns true.
func (f celFilter) Eval(c Completion) bool {
	if !f.enabled {
		return true
	}
	var jsonObj any
	_ = json.Unmarshal(c.Payload, &jsonObj)
	out, _, err := f.prog.Eval(map[string]any{
		"identity": c.Identity,
		"topic":    c.Topic,
		"ts_ms":    c.AtMs,
		"size":     int64(len(c.Payload)),
		"text":     string(c.Payload),
		"json":     jsonObj,
		"now_ms":   time.Now().UnixMilli(),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
