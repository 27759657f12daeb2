// ABOUTME: Handle identifies one playback in the pool
// ABOUTME: Index plus generation so stale handles never alias
package voice

import "fmt"

// Handle addresses one voice in a pool.
// Handles are comparable; the zero value is not Invalid, use Invalid explicitly.
type Handle struct {
	Index      int
	Generation uint32
}

// Invalid is returned by failed Play calls and written back by Stop
var Invalid = Handle{Index: -1}

func (h Handle) String() string {
	if h == Invalid {
		return "voice(invalid)"
	}
	return fmt.Sprintf("voice(%d#%d)", h.Index, h.Generation)
}
