// Package preview throttles frames into compact JSON payloads for UI clients.
package preview

import (
	"encoding/base64"
	"encoding/json"
	"sync"
	"time"

	"github.com/coreman2200/funtimes-emotive/internal/render"
)

// DefaultThrottle caps UI updates at about 20 per second.
const DefaultThrottle = 50 * time.Millisecond

// Payload is what a UI client receives per frame.
type Payload struct {
	Frame *render.Frame `json:"frame"`
	Core  string        `json:"core"`
	RGB   string        `json:"rgb"` // base64 of 8-bit RGB triplets
}

// Driver encodes frames and hands them to emit, dropping frames that
// arrive inside the throttle window. Frames carrying gestures are never
// dropped so clients see every trigger.
type Driver struct {
	emit     func([]byte)
	throttle time.Duration
	now      func() time.Time
	lastEmit time.Time
	pending  []string
	mu       sync.Mutex
}

func New(emit func([]byte), throttle time.Duration) *Driver {
	if throttle < 0 {
		throttle = 0
	}
	return &Driver{emit: emit, throttle: throttle, now: time.Now}
}

func (d *Driver) Write(f *render.Frame) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(f.Gestures) > 0 {
		d.pending = append(d.pending, f.Gestures...)
	}
	now := d.now()
	if len(d.pending) == 0 && !d.lastEmit.IsZero() && d.lastEmit.Add(d.throttle).After(now) {
		return nil
	}
	d.lastEmit = now

	out := *f
	out.Gestures = d.pending
	d.pending = nil
	p := Payload{Frame: &out, RGB: base64.StdEncoding.EncodeToString(render.RGB(f.Pixels))}
	if len(f.Pixels) > 0 {
		p.Core = f.Pixels[0].Hex()
	}
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if d.emit != nil {
		d.emit(b)
	}
	return nil
}
