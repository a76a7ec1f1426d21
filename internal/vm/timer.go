package vm

// ToneGenerator produces the buzzer sound. Start and Stop must be idempotent.
type ToneGenerator interface {
	Start()
	Stop()
}

type nopTone struct{}

func (nopTone) Start() {}
func (nopTone) Stop()  {}

// Timer is an 8-bit countdown register ticked at the timer rate.
type Timer struct {
	value uint8
}

func (t *Timer) Value() uint8 {
	return t.value
}

func (t *Timer) Set(v uint8) {
	t.value = v
}

func (t *Timer) Tick() {
	if t.value > 0 {
		t.value--
	}
}

func (t *Timer) Clear() {
	t.value = 0
}

// SoundTimer is a Timer that keeps a tone playing while its value is positive.
type SoundTimer struct {
	Timer
	tone ToneGenerator
}

func NewSoundTimer(tone ToneGenerator) *SoundTimer {
	if tone == nil {
		tone = nopTone{}
	}
	return &SoundTimer{tone: tone}
}

func (t *SoundTimer) Set(v uint8) {
	wasActive := t.value > 0
	t.value = v

	switch {
	case v > 0:
		t.tone.Start()
	case wasActive:
		t.tone.Stop()
	}
}

func (t *SoundTimer) Tick() {
	if t.value == 0 {
		return
	}

	t.value--
	if t.value == 0 {
		t.tone.Stop()
		return
	}
	t.tone.Start()
}

func (t *SoundTimer) Clear() {
	t.Set(0)
}
