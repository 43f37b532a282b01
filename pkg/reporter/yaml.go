package reporter

import (
	"context"
	"io"

	"github.com/lavigneer/cppquickfix-lsp/pkg/util"
)

type YAML struct {
	Out io.Writer
}

func (y *YAML) Report(ctx context.Context, results []Result) error {
	out, err := util.MarshalYAML(ctx, results)
	if err != nil {
		return err
	}
	_, err = io.WriteString(y.Out, out)
	return err
}
