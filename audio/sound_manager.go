package audio

import (
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/reelspin/constants"
)

// SoundManager plays the game sounds through one mixer
// Every method is safe before Initialize and after Cleanup; without a device the game is silent
type SoundManager struct {
	mu          sync.Mutex
	rate        beep.SampleRate
	mixer       *beep.Mixer
	master      *effects.Volume
	spinLoop    *beep.Ctrl
	background  *beep.Ctrl
	muted       bool
	initialized bool
	log         *zap.Logger
}

// NewSoundManager creates an uninitialized manager
func NewSoundManager(log *zap.Logger) *SoundManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &SoundManager{
		rate: beep.SampleRate(constants.AudioSampleRate),
		log:  log,
	}
}

// Initialize opens the speaker and starts the mixer
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sm.rate, sm.rate.N(constants.SpeakerBufferDuration)); err != nil {
		return err
	}
	sm.attach()
	speaker.Play(sm.master)
	sm.log.Info("audio initialized", zap.Int("sample_rate", int(sm.rate)))
	return nil
}

// attach builds the mixer graph; caller holds mu
func (sm *SoundManager) attach() {
	sm.mixer = &beep.Mixer{}
	sm.master = &effects.Volume{Streamer: sm.mixer, Base: 2, Silent: sm.muted}
	sm.spinLoop = &beep.Ctrl{Streamer: newSpinLoop(sm.rate), Paused: true}
	sm.background = &beep.Ctrl{Streamer: newPad(sm.rate), Paused: true}
	sm.mixer.Add(sm.spinLoop, sm.background)
	sm.initialized = true
}

// Cleanup silences and drops every stream
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.spinLoop.Paused = true
	sm.background.Paused = true
	sm.mixer.Clear()
	speaker.Unlock()

	sm.initialized = false
}

// setPaused flips a loop under the speaker lock
func (sm *SoundManager) setPaused(ctrl *beep.Ctrl, paused bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	ctrl.Paused = paused
	speaker.Unlock()
}

// StartSpinLoop resumes the reel sound, implements reel.LoopSound
func (sm *SoundManager) StartSpinLoop() {
	sm.setPaused(sm.spinLoop, false)
}

// StopSpinLoop pauses the reel sound
func (sm *SoundManager) StopSpinLoop() {
	sm.setPaused(sm.spinLoop, true)
}

// StartBackground resumes the background pad
func (sm *SoundManager) StartBackground() {
	sm.setPaused(sm.background, false)
}

// StopBackground pauses the background pad
func (sm *SoundManager) StopBackground() {
	sm.setPaused(sm.background, true)
}

// PlayWin plays the win chime once
func (sm *SoundManager) PlayWin() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Add(NewWinChime(sm.rate))
	speaker.Unlock()
}

// SetMuted silences the master output without stopping streams
func (sm *SoundManager) SetMuted(muted bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.muted = muted
	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.master.Silent = muted
	speaker.Unlock()
}

// ToggleMute flips the mute state and returns the new one
func (sm *SoundManager) ToggleMute() bool {
	muted := !sm.Muted()
	sm.SetMuted(muted)
	return muted
}

// Muted reports the mute state
func (sm *SoundManager) Muted() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.muted
}

// SpinLoopActive reports whether the reel sound is playing
func (sm *SoundManager) SpinLoopActive() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return false
	}
	speaker.Lock()
	defer speaker.Unlock()
	return !sm.spinLoop.Paused
}
