// Package serialization reads and writes Glance checkpoint files.
//
// A checkpoint is a flat named-tensor dictionary, the same shape as the
// parameter container the model exposes. Layout of a .glance file:
//
//	magic      [4]byte "GLNC"
//	headerLen  uint32 (little-endian)
//	header     JSON (Header)
//	payload    NumTensors records, sorted by name:
//	             nameLen uint32, name, rank uint32, dims []uint64,
//	             data []float32 (little-endian)
//	checksum   uint32 CRC-32 (IEEE) of the payload
//
// Tensor records are sorted by name so that identical state always
// produces an identical file.
package serialization

import (
	"fmt"
	"time"
)

// Magic identifies a Glance checkpoint file.
var Magic = [4]byte{'G', 'L', 'N', 'C'}

// FormatVersion is the current checkpoint format version.
const FormatVersion = 1

// Header is the JSON metadata block at the start of a checkpoint.
type Header struct {
	FormatVersion int               `json:"format_version"`
	ModelType     string            `json:"model_type"`
	CreatedAt     time.Time         `json:"created_at"`
	RunID         string            `json:"run_id"` // UUID, unique per written file
	NumTensors    int               `json:"num_tensors"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

func (h *Header) validate() error {
	if h.FormatVersion != FormatVersion {
		return fmt.Errorf("unsupported format version %d (supported: %d)", h.FormatVersion, FormatVersion)
	}
	if h.NumTensors < 0 {
		return fmt.Errorf("invalid tensor count %d", h.NumTensors)
	}
	return nil
}
