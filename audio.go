package celeste

import (
	"math"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"go.uber.org/zap"
)

// AudioChannel groups sources under a shared volume.
type AudioChannel uint8

const (
	ChannelSFX AudioChannel = iota
	ChannelMusic
)

// nopLocker is used until the speaker is initialized.
type nopLocker struct{}

func (nopLocker) Lock()   {}
func (nopLocker) Unlock() {}

// AudioManager mixes every playing AudioSource into one streamer. The app
// layer hands Mixer to the speaker and installs the speaker's lock with
// SetLocker so mixer mutations do not race the audio thread.
type AudioManager struct {
	game    *Game
	mixer   *beep.Mixer
	locker  sync.Locker
	master  float64
	music   float64
	sfx     float64
	sources *ComponentManager[AudioSource, *AudioSource]
}

func newAudioManager(g *Game) *AudioManager {
	m := &AudioManager{
		game:    g,
		mixer:   &beep.Mixer{},
		locker:  nopLocker{},
		master:  clamp(g.cfg.Game.MasterVolume, 0, 1),
		music:   clamp(g.cfg.Game.MusicVolume, 0, 1),
		sfx:     clamp(g.cfg.Game.SFXVolume, 0, 1),
		sources: NewComponentManager[AudioSource](g.cfg.Pools.AudioSources),
	}
	registerManaged(g, m.sources)
	return m
}

// Phase reports PhaseAudio.
func (m *AudioManager) Phase() Phase { return PhaseAudio }

// Mixer returns the streamer to hand to the speaker.
func (m *AudioManager) Mixer() beep.Streamer { return m.mixer }

// SetLocker installs the lock guarding the mixer (speaker.Lock/Unlock).
func (m *AudioManager) SetLocker(l sync.Locker) {
	if l == nil {
		l = nopLocker{}
	}
	m.locker = l
}

func (m *AudioManager) MasterVolume() float64 { return m.master }
func (m *AudioManager) MusicVolume() float64  { return m.music }
func (m *AudioManager) SFXVolume() float64    { return m.sfx }

// SetMasterVolume sets the master volume, clamped to [0, 1].
func (m *AudioManager) SetMasterVolume(v float64) { m.master = clamp(v, 0, 1) }

// SetMusicVolume sets the music channel volume, clamped to [0, 1].
func (m *AudioManager) SetMusicVolume(v float64) { m.music = clamp(v, 0, 1) }

// SetSFXVolume sets the sound effect channel volume, clamped to [0, 1].
func (m *AudioManager) SetSFXVolume(v float64) { m.sfx = clamp(v, 0, 1) }

// channelVolume returns the combined master and channel volume.
func (m *AudioManager) channelVolume(c AudioChannel) float64 {
	if c == ChannelMusic {
		return m.master * m.music
	}
	return m.master * m.sfx
}

// Update applies volumes and pause state to every source and stops dead ones.
func (m *AudioManager) Update(dt float64) {
	m.locker.Lock()
	m.sources.EachAlive(func(s *AudioSource) { s.sync(m) })
	m.locker.Unlock()
	m.sources.Sweep()
}

// Close stops every source and clears the mixer.
func (m *AudioManager) Close() {
	m.locker.Lock()
	defer m.locker.Unlock()
	m.mixer.Clear()
}

func (m *AudioManager) add(s beep.Streamer) {
	m.locker.Lock()
	m.mixer.Add(s)
	m.locker.Unlock()
}

// volumeFor converts a linear volume to an effects.Volume setting.
func volumeFor(v *effects.Volume, linear float64) {
	if linear <= 0 {
		v.Silent = true
		v.Volume = 0
		return
	}
	v.Silent = false
	v.Volume = math.Log2(linear)
}

// --- AudioSource ---

// AudioSource plays a streamer through the AudioManager's mixer. Its output is
// scaled by Volume, the channel volume and the master volume. Deactivating the
// source pauses it; killing it stops it.
type AudioSource struct {
	ManagedComponent

	Channel AudioChannel
	Volume  float64
	Loop    bool

	streamer beep.StreamSeeker
	ctrl     *beep.Ctrl
	volume   *effects.Volume
}

// Reset implements Resetter.
func (s *AudioSource) Reset() {
	s.Channel = ChannelSFX
	s.Volume = 1
	s.Loop = false
	s.streamer = nil
	s.ctrl = nil
	s.volume = nil
}

// SetStreamer sets the sound to play. Seekable streamers can be replayed and
// looped; plain streamers play once and ignore Loop.
func (s *AudioSource) SetStreamer(st beep.Streamer) {
	s.Stop()
	if ss, ok := st.(beep.StreamSeeker); ok {
		s.streamer = ss
		return
	}
	s.streamer = onceStreamer{st}
}

// Play starts the sound from the beginning.
func (s *AudioSource) Play() {
	game := s.Game()
	if game == nil || s.streamer == nil {
		return
	}
	s.Stop()
	if err := s.streamer.Seek(0); err != nil {
		game.log.Warn("audio source rewind failed", zap.Error(err))
	}
	var src beep.Streamer = s.streamer
	if _, once := s.streamer.(onceStreamer); s.Loop && !once {
		src = beep.Loop(-1, s.streamer)
	}
	s.ctrl = &beep.Ctrl{Streamer: src}
	s.volume = &effects.Volume{Streamer: s.ctrl, Base: 2}
	volumeFor(s.volume, s.Volume*game.audio.channelVolume(s.Channel))
	game.audio.add(s.volume)
}

// Stop silences the sound. The mixer drops it on its next pass.
func (s *AudioSource) Stop() {
	if s.ctrl == nil {
		return
	}
	if game := s.Game(); game != nil {
		game.audio.locker.Lock()
		s.ctrl.Streamer = nil
		game.audio.locker.Unlock()
	} else {
		s.ctrl.Streamer = nil
	}
	s.ctrl = nil
	s.volume = nil
}

// IsPlaying reports whether Play was called and the sound was not stopped.
func (s *AudioSource) IsPlaying() bool { return s.ctrl != nil }

// OnDeath implements DeathObserver.
func (s *AudioSource) OnDeath() { s.Stop() }

// sync runs under the mixer lock.
func (s *AudioSource) sync(m *AudioManager) {
	if s.ctrl == nil {
		return
	}
	s.ctrl.Paused = !s.IsActive()
	volumeFor(s.volume, s.Volume*m.channelVolume(s.Channel))
}

// ApplyProperties implements PropertyApplier.
func (s *AudioSource) ApplyProperties(props map[string]any) error {
	if err := propFloat(props, "volume", &s.Volume); err != nil {
		return err
	}
	if v, ok := props["loop"].(bool); ok {
		s.Loop = v
	}
	if v, ok := props["channel"].(string); ok && v == "music" {
		s.Channel = ChannelMusic
	}
	return nil
}

// onceStreamer adapts a plain Streamer to StreamSeeker for one-shot playback.
type onceStreamer struct {
	beep.Streamer
}

func (onceStreamer) Len() int         { return 0 }
func (onceStreamer) Position() int    { return 0 }
func (onceStreamer) Seek(p int) error { return nil }
