package menudoc

import (
	"time"

	"github.com/tsawler/menudoc/imaging"
	"github.com/tsawler/menudoc/layout"
)

// ExportOptions holds export configuration. It holds only values, so
// copying it copies everything.
type ExportOptions struct {
	geometry     layout.Geometry
	imageTimeout time.Duration // per image
	imageWorkers int
	cacheTTL     time.Duration
	uncompressed bool // leave page content streams unfiltered
}

// defaultOptions returns the default export options.
func defaultOptions() ExportOptions {
	return ExportOptions{
		geometry:     layout.DefaultGeometry(),
		imageTimeout: imaging.DefaultTimeout,
		imageWorkers: imaging.DefaultWorkers,
	}
}
