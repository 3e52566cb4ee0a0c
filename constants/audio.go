package constants

import "time"

// Speaker
const (
	// AudioSampleRate is the speaker sample rate in Hz
	AudioSampleRate = 48000

	// SpeakerBufferDuration is the speaker buffer length
	SpeakerBufferDuration = 100 * time.Millisecond
)

// Spin loop: a ratchet click per passing symbol over a low hum
const (
	SpinClickInterval  = 50 * time.Millisecond
	SpinClickDuration  = 12 * time.Millisecond
	SpinClickFrequency = 320.0
	SpinClickAmplitude = 0.18
	SpinHumFrequency   = 70.0
	SpinHumAmplitude   = 0.06
)

// Win chime: two rising notes
const (
	WinNote1Duration  = 90 * time.Millisecond
	WinNote2Duration  = 320 * time.Millisecond
	WinNote1Frequency = 440.0
	WinNote2Frequency = 660.0
	WinAmplitude      = 0.25
	WinAttack         = 5 * time.Millisecond
)

// Background pad
const (
	BackgroundFrequency = 110.0
	BackgroundAmplitude = 0.04
	BackgroundPeriod    = 4 * time.Second
)
