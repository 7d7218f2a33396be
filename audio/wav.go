// Package audio inspects recorded WAV clips before they are sent to a
// speech provider. It does not resample or transcode.
package audio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavFormatPCM is the WAVE_FORMAT_PCM tag.
const wavFormatPCM = 1

// Clip is a fully buffered WAV file.
type Clip struct {
	raw        []byte
	pcm        []byte
	sampleRate int
	channels   int
	bitDepth   int
}

// Read buffers a WAV stream and locates its PCM payload.
func Read(r io.Reader) (*Clip, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read wav: %w", err)
	}
	return Parse(data)
}

// Parse locates the PCM payload of an in-memory WAV file.
func Parse(data []byte) (*Clip, error) {
	br := bytes.NewReader(data)
	dec := wav.NewDecoder(br)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not a valid wav file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("locate pcm data: %w", err)
	}

	offset, err := br.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("locate pcm data: %w", err)
	}
	end := offset + dec.PCMLen()
	if end > int64(len(data)) {
		// Some recorders leave the data size unset; take what is there.
		end = int64(len(data))
	}

	return &Clip{
		raw:        data,
		pcm:        data[offset:end],
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		bitDepth:   int(dec.BitDepth),
	}, nil
}

// SampleRate returns the frame rate in Hz.
func (c *Clip) SampleRate() int { return c.sampleRate }

// Channels returns the channel count.
func (c *Clip) Channels() int { return c.channels }

// BitDepth returns the bits per sample.
func (c *Clip) BitDepth() int { return c.bitDepth }

// PCM returns the raw sample bytes without the RIFF header.
func (c *Clip) PCM() []byte { return c.pcm }

// Bytes returns the complete WAV file.
func (c *Clip) Bytes() []byte { return c.raw }

// Reader returns a reader over the complete WAV file.
func (c *Clip) Reader() io.Reader { return bytes.NewReader(c.raw) }

// Duration returns the playback length of the PCM payload.
func (c *Clip) Duration() time.Duration {
	bytesPerSecond := c.sampleRate * c.channels * c.bitDepth / 8
	if bytesPerSecond == 0 {
		return 0
	}
	return time.Duration(len(c.pcm)) * time.Second / time.Duration(bytesPerSecond)
}

// Encode writes integer samples as a PCM WAV file and returns its bytes.
// The go-audio encoder needs a seekable sink, so a temporary file is used.
func Encode(samples []int, sampleRate, bitDepth, channels int) ([]byte, error) {
	f, err := os.CreateTemp("", "sttkit-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create temp wav: %w", err)
	}
	defer func() {
		_ = f.Close()
		_ = os.Remove(f.Name())
	}()

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, wavFormatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("finalize wav: %w", err)
	}
	return os.ReadFile(f.Name())
}
