package speech

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/ottomeasure/internal/logger"
)

// ErrAudioFormat is returned for WAV data the player's audio context was not
// opened for.
var ErrAudioFormat = errors.New("unsupported audio format")

// AudioPlayer plays WAV audio, blocking until done or ctx is cancelled.
type AudioPlayer interface {
	Play(ctx context.Context, wavData []byte) error
	Stop()
}

// Compile-time interface check.
var _ AudioPlayer = (*Player)(nil)

// Player plays the 24 kHz mono 16-bit PCM that Azure returns for
// DefaultAudioFormat.
type Player struct {
	otoCtx *oto.Context
	log    *logger.Logger
	poll   time.Duration

	mu     sync.Mutex
	active *oto.Player // nil when idle
}

// NewPlayer opens the system audio device. Fails when no device is available.
func NewPlayer(log *logger.Logger) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	otoCtx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-ready

	log.Debug("audio player initialized (rate=%d, channels=%d)", SampleRate, ChannelCount)
	return &Player{otoCtx: otoCtx, log: log, poll: 10 * time.Millisecond}, nil
}

// Play plays one synthesized line. It returns ctx.Err() if ctx is cancelled
// mid-line, after silencing the output.
func (p *Player) Play(ctx context.Context, wavData []byte) error {
	pcm, err := decodeWAV(wavData)
	if err != nil {
		return err
	}

	player := p.otoCtx.NewPlayer(bytes.NewReader(pcm))
	defer player.Close()

	p.mu.Lock()
	p.active = player
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.active = nil
		p.mu.Unlock()
	}()

	player.Play()
	p.log.Debug("audio player: playing %d bytes of PCM", len(pcm))

	ticker := time.NewTicker(p.poll)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			p.log.Debug("audio player: cancelled")
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// Stop interrupts the line currently playing. Safe to call when idle.
func (p *Player) Stop() {
	p.mu.Lock()
	active := p.active
	p.mu.Unlock()

	if active != nil {
		active.Pause()
		p.log.Debug("audio player: interrupted")
	}
}

// decodeWAV checks the fmt chunk against the player's context and returns
// the data chunk.
func decodeWAV(wav []byte) ([]byte, error) {
	if len(wav) < 12 {
		return nil, errors.New("wav data too short")
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, errors.New("not a valid WAV file")
	}

	var sawFormat bool
	pos := 12
	for pos+8 <= len(wav) {
		id := string(wav[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(wav[pos+4 : pos+8]))
		body := pos + 8
		end := body + size
		if end > len(wav) {
			end = len(wav)
		}

		switch id {
		case "fmt ":
			if err := checkFormat(wav[body:end]); err != nil {
				return nil, err
			}
			sawFormat = true
		case "data":
			if !sawFormat {
				return nil, errors.New("data chunk before fmt chunk")
			}
			return wav[body:end], nil
		}

		pos = body + size
		// Chunks are word-aligned.
		if size%2 != 0 {
			pos++
		}
	}
	return nil, errors.New("data chunk not found in WAV")
}

func checkFormat(chunk []byte) error {
	if len(chunk) < 16 {
		return fmt.Errorf("%w: short fmt chunk", ErrAudioFormat)
	}
	tag := binary.LittleEndian.Uint16(chunk[0:2])
	channels := binary.LittleEndian.Uint16(chunk[2:4])
	rate := binary.LittleEndian.Uint32(chunk[4:8])
	bits := binary.LittleEndian.Uint16(chunk[14:16])

	if tag != 1 || int(channels) != ChannelCount || int(rate) != SampleRate || int(bits) != BitDepth {
		return fmt.Errorf("%w: tag=%d channels=%d rate=%d bits=%d", ErrAudioFormat, tag, channels, rate, bits)
	}
	return nil
}
