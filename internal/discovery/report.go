package discovery

import (
	"errors"
	"fmt"
	"io"

	"github.com/quantmind-br/vcfind/internal/core"
	"github.com/quantmind-br/vcfind/internal/ui"
)

// Report writes the human-readable diagnostics for a run: a warning listing
// excluded instances, and when err says nothing was usable, every examined path.
func Report(w io.Writer, res *Result, err error) {
	if res == nil {
		return
	}

	if len(res.Excluded) > 0 {
		ui.Warning.Fprintln(w, "Warning: The following VS instances are excluded because the English language pack is unavailable.")
		for _, ex := range res.Excluded {
			fmt.Fprintf(w, "    %s\n", ex.Toolset.VisualStudioRootPath)
		}
		ui.Warning.Fprintln(w, "Please install the English language pack.")
	}

	if errors.Is(err, core.ErrNoUsableToolset) {
		ui.Error.Fprintln(w, "Could not locate a complete toolset.")
		fmt.Fprintln(w, "The following paths were examined:")
		for _, path := range res.Examined {
			fmt.Fprintf(w, "    %s\n", path)
		}
	}
}
