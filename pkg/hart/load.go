package hart

import "github.com/bassosimone/rv32core/pkg/loader"

// Load writes each loadable segment the ELF-loading collaborator
// yielded into the appropriate memory: executable segments go to
// instruction memory, non-executable segments to data memory, both
// starting at offset 0, per spec.md §4.6.
func (h *Hart) Load(segments []loader.Segment) error {
	for _, seg := range segments {
		if seg.Executable {
			if err := h.InstrMem.LoadBytes(0, seg.Data); err != nil {
				return err
			}
			continue
		}
		if err := h.DataMem.LoadBytes(0, seg.Data); err != nil {
			return err
		}
	}
	return nil
}
