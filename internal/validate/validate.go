// Package validate checks app documents against the embedded CUE
// schema. The check is advisory: the preview engine must stay usable
// against documents that fail it, but authors get early feedback on
// the structural mistakes (missing ids, wrong action shapes) that
// otherwise surface as silently dropped actions.
package validate

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed schema.cue
var schemaSource string

var (
	schemaOnce sync.Once
	schemaVal  cue.Value
	schemaCtx  *cue.Context
)

func appSchema() (*cue.Context, cue.Value, error) {
	var err error
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		root := schemaCtx.CompileString(schemaSource)
		if cerr := root.Err(); cerr != nil {
			err = fmt.Errorf("compiling app schema: %w", cerr)
			return
		}
		schemaVal = root.LookupPath(cue.ParsePath("#App"))
		if cerr := schemaVal.Err(); cerr != nil {
			err = fmt.Errorf("looking up #App: %w", cerr)
		}
	})
	return schemaCtx, schemaVal, err
}

// Document validates one app document. The returned error carries every
// schema violation, one per line.
func Document(data []byte) error {
	ctx, schema, err := appSchema()
	if err != nil {
		return err
	}

	expr, err := cuejson.Extract("app.json", data)
	if err != nil {
		return fmt.Errorf("parsing app document: %w", err)
	}
	value := ctx.BuildExpr(expr)
	if err := value.Err(); err != nil {
		return fmt.Errorf("building app document: %w", err)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid app document:\n%s", cueerrors.Details(err, nil))
	}
	return nil
}
