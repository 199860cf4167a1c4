package combat

// flash alternates a tint on and off for a fixed number of blinks. Starting
// it again discards any remaining progress.
type flash struct {
	half    float64
	blinks  int
	elapsed float64
	active  bool
}

func (f *flash) start(blinks int, half float64) {
	if blinks <= 0 || half <= 0 {
		f.stop()
		return
	}
	f.blinks = blinks
	f.half = half
	f.elapsed = 0
	f.active = true
}

func (f *flash) stop() {
	f.active = false
	f.elapsed = 0
}

func (f *flash) advance(dt float64) {
	if !f.active {
		return
	}
	f.elapsed += dt
	if f.elapsed >= f.half*float64(f.blinks*2) {
		f.stop()
	}
}

// on reports whether the tint is showing right now.
func (f *flash) on() bool {
	if !f.active {
		return false
	}
	return int(f.elapsed/f.half)%2 == 0
}
