package speech

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/logger"
)

type fakeSynth struct {
	calls []string
}

func (f *fakeSynth) Synthesize(ctx context.Context, text string) ([]byte, error) {
	f.calls = append(f.calls, text)
	return []byte(text), nil
}

type fakePlayer struct {
	played []string
	// block makes Play wait for ctx instead of returning at once.
	block bool
}

func (f *fakePlayer) Play(ctx context.Context, wav []byte) error {
	f.played = append(f.played, string(wav))
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (f *fakePlayer) Stop() {}

func TestSpoken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"3.4 tbsp white miso", "3.4 tablespoons white miso"},
		{"1 tsp soy sauce", "1 teaspoon soy sauce"},
		{"2 fl oz cream", "2 fluid ounces cream"},
		{"1.1 lb bread flour", "1.1 pounds bread flour"},
		{"2 pieces chicken breast", "2 pieces chicken breast"},
		{"salt to taste", "salt to taste"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Spoken(tt.in); got != tt.want {
				t.Fatalf("Spoken(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestReaderReadsInOrderAndCaches(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	synth := &fakeSynth{}
	player := &fakePlayer{}
	r := NewReader(synth, player, NewAudioCache("test-voice", "", log), log)
	ctx := context.Background()

	lines := []string{"237 ml creme fraiche", "44 ml butter"}
	if err := r.Read(ctx, lines); err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := r.Read(ctx, lines); err != nil {
		t.Fatalf("second read: %v", err)
	}

	if len(synth.calls) != 2 {
		t.Fatalf("expected 2 synth calls with cache, got %d", len(synth.calls))
	}
	want := []string{"237 milliliters creme fraiche", "44 milliliters butter"}
	if len(player.played) != 4 || player.played[0] != want[0] || player.played[3] != want[1] {
		t.Fatalf("played = %q", player.played)
	}
}

func TestReaderStopsOnCancel(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	player := &fakePlayer{}
	r := NewReader(&fakeSynth{}, player, nil, log)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Read(ctx, []string{"1 cup milk"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(player.played) != 0 {
		t.Fatalf("nothing should play after cancel, got %q", player.played)
	}
}

func TestReaderCancelMidLine(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	player := &fakePlayer{block: true}
	r := NewReader(&fakeSynth{}, player, nil, log)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := r.Read(ctx, []string{"1 cup milk", "2 tbsp sugar"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	if len(player.played) != 1 {
		t.Fatalf("only the first line should start, got %q", player.played)
	}
}

func TestNoOpRead(t *testing.T) {
	n := NewNoOp(logger.New(logger.LevelOff, nil))
	if err := n.Read(context.Background(), []string{"x"}); !errors.Is(err, domain.ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}

func TestAudioCacheDisk(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	dir := t.TempDir()

	c := NewAudioCache("v", dir, log)
	c.Put("hello", []byte("wav"))

	fresh := NewAudioCache("v", dir, log)
	got, ok := fresh.Get("hello")
	if !ok || string(got) != "wav" {
		t.Fatalf("disk hit expected, got %q %v", got, ok)
	}
	if _, ok := NewAudioCache("other-voice", dir, log).Get("hello"); ok {
		t.Fatal("different voice must miss")
	}
	hits, misses := fresh.Stats()
	if hits != 1 || misses != 0 {
		t.Fatalf("stats = %d/%d", hits, misses)
	}
}

func TestAzureSynthesize(t *testing.T) {
	var gotBody, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotKey = r.Header.Get("Ocp-Apim-Subscription-Key")
		_, _ = w.Write([]byte("RIFFaudio"))
	}))
	defer srv.Close()

	c := NewAzureClient("secret", "eastus", logger.New(logger.LevelOff, nil), WithEndpoint(srv.URL))
	audio, err := c.Synthesize(context.Background(), "salt & pepper <to taste>")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if string(audio) != "RIFFaudio" {
		t.Fatalf("audio = %q", audio)
	}
	if gotKey != "secret" {
		t.Fatalf("subscription key header = %q", gotKey)
	}
	if !strings.Contains(gotBody, "salt &amp; pepper &lt;to taste&gt;") {
		t.Fatalf("ssml not escaped: %s", gotBody)
	}
}

func TestAzureSynthesizeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewAzureClient("nope", "eastus", logger.New(logger.LevelOff, nil), WithEndpoint(srv.URL))
	if _, err := c.Synthesize(context.Background(), "hi"); err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected 401 error, got %v", err)
	}
}

// wavBytes builds a RIFF file with one fmt chunk and one data chunk.
func wavBytes(channels uint16, rate uint32, bits uint16, pcm []byte) []byte {
	var wav bytes.Buffer
	wav.WriteString("RIFF")
	_ = binary.Write(&wav, binary.LittleEndian, uint32(36+len(pcm)))
	wav.WriteString("WAVE")
	wav.WriteString("fmt ")
	_ = binary.Write(&wav, binary.LittleEndian, uint32(16))
	_ = binary.Write(&wav, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&wav, binary.LittleEndian, channels)
	_ = binary.Write(&wav, binary.LittleEndian, rate)
	_ = binary.Write(&wav, binary.LittleEndian, rate*uint32(channels)*uint32(bits/8))
	_ = binary.Write(&wav, binary.LittleEndian, channels*bits/8)
	_ = binary.Write(&wav, binary.LittleEndian, bits)
	wav.WriteString("data")
	_ = binary.Write(&wav, binary.LittleEndian, uint32(len(pcm)))
	wav.Write(pcm)
	return wav.Bytes()
}

func TestDecodeWAV(t *testing.T) {
	pcm := []byte{1, 2, 3, 4}

	got, err := decodeWAV(wavBytes(ChannelCount, SampleRate, BitDepth, pcm))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(got, pcm) {
		t.Fatalf("pcm = %v, want %v", got, pcm)
	}

	tests := []struct {
		name string
		wav  []byte
		want error
	}{
		{"wrong rate", wavBytes(ChannelCount, 16000, BitDepth, pcm), ErrAudioFormat},
		{"stereo", wavBytes(2, SampleRate, BitDepth, pcm), ErrAudioFormat},
		{"8 bit", wavBytes(ChannelCount, SampleRate, 8, pcm), ErrAudioFormat},
		{"short", []byte("short"), nil},
		{"not riff", append([]byte("JUNKxxxxWAVE"), make([]byte, 8)...), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeWAV(tt.wav)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
