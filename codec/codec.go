// Package codec centralizes the encoding of persisted document data.
//
// The document sidecar records the codec name in its header so that an
// existing snapshot is always decoded with the codec that wrote it,
// regardless of the process-wide default.
package codec

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Default is the codec used when none is configured.
//
// Newly written snapshots are self-describing, so changing the default never
// breaks reading existing files.
var Default Codec = GoJSON{}
