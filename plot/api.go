package plot

import (
	"github.com/Chia-Network/pos2-chip-sub000/plotfmt"
	"github.com/Chia-Network/pos2-chip-sub000/pos"
)

// CreatePlot is this package's rendition of the reference C ABI's
// create_plot entry point: given (path, k, strength, plot_id, memo),
// run the full table cascade and write the resulting plot file to disk.
func CreatePlot(path string, params pos.ProofParams, memo plotfmt.Memo, opts Options) error {
	core, err := pos.NewCore(params)
	if err != nil {
		return err
	}

	data, err := Plot(core, opts)
	if err != nil {
		return err
	}

	chunks := ChunkRanges(data)
	pf, err := plotfmt.Create(path, params, memo, chunks)
	if err != nil {
		return err
	}
	return pf.Close()
}
