package gen

import (
	"fmt"

	"github.com/syssam/specgen"
)

// validate rejects a Spec whose artifacts would overwrite each other: two
// tables, or two functions, whose names sanitize to the same identifier,
// and two functions sharing a hook name.
func validate(s *Spec) error {
	tables := make(map[string]string, len(s.Tables))
	for _, t := range s.Tables {
		id := t.Ident()
		if prev, ok := tables[id]; ok {
			return specgen.NewSchemaError(
				"#/components/schemas/"+t.Name,
				fmt.Sprintf("tables %q and %q both map to identifier %q", prev, t.Name, id),
				nil,
			)
		}
		tables[id] = t.Name
	}
	funcs := make(map[string]*Function, len(s.Functions))
	hooks := make(map[string]*Function, len(s.Functions))
	for _, f := range s.Functions {
		id := f.Ident()
		if prev, ok := funcs[id]; ok {
			return specgen.NewSchemaError(
				"#/paths",
				fmt.Sprintf("function name %q is generated by both %s %s and %s %s", id, prev.Method, prev.Path, f.Method, f.Path),
				nil,
			)
		}
		funcs[id] = f
		hook := HookName(f)
		if prev, ok := hooks[hook]; ok {
			return specgen.NewSchemaError(
				"#/paths",
				fmt.Sprintf("hook name %q is generated by both %s %s and %s %s", hook, prev.Method, prev.Path, f.Method, f.Path),
				nil,
			)
		}
		hooks[hook] = f
	}
	return nil
}
