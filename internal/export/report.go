package export

import (
	"fmt"
	"path/filepath"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/autobake/api"
)

// ReportName is the manifest written beside the baked maps.
const ReportName = "bake_report.json"

// WriteReport serializes rec into dir as JSON. An existing manifest is
// overwritten, so re-baking a scene keeps exactly one report per output
// directory.
func WriteReport(fs billy.Filesystem, dir string, rec api.RunRecord) error {
	opts := oj.Options{
		Indent:     2,
		UseTags:    true,
		TimeFormat: time.RFC3339,
	}
	buf, err := oj.Marshal(rec, &opts)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	buf = append(buf, '\n')

	path := filepath.Join(dir, ReportName)
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if _, err := f.Write(buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	return nil
}
