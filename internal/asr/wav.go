package asr

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// EncodeWAV wraps mono 16-bit PCM frames into a self-contained RIFF/WAVE
// container so each chunk can be sent to the recognizer independently.
func EncodeWAV(samples []int16, sampleRate int) []byte {
	dataLen := len(samples) * 2

	var b bytes.Buffer
	b.Grow(44 + dataLen)

	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+dataLen))
	b.WriteString("WAVE")

	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16)) // PCM fmt chunk size
	binary.Write(&b, binary.LittleEndian, uint16(1))  // PCM
	binary.Write(&b, binary.LittleEndian, uint16(1))  // mono
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate*2)) // byte rate
	binary.Write(&b, binary.LittleEndian, uint16(2))            // block align
	binary.Write(&b, binary.LittleEndian, uint16(16))           // bits per sample

	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(dataLen))
	binary.Write(&b, binary.LittleEndian, samples)

	return b.Bytes()
}

// DecodeWAV reads mono 16-bit PCM frames and the sample rate out of a
// RIFF/WAVE container. Only the format produced by EncodeWAV (and by common
// converters targeting LINEAR16) is accepted.
func DecodeWAV(data []byte) ([]int16, int, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, fmt.Errorf("not a RIFF/WAVE file")
	}

	var sampleRate int
	var channels, bits uint16
	var pcm []byte
	sawFmt := false

	// Walk the chunk list; converters often insert LIST/fact chunks between
	// fmt and data.
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) {
			return nil, 0, fmt.Errorf("truncated %q chunk", id)
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return nil, 0, fmt.Errorf("short fmt chunk")
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != 1 {
				return nil, 0, fmt.Errorf("unsupported audio format %d (want PCM)", format)
			}
			channels = binary.LittleEndian.Uint16(data[body+2 : body+4])
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bits = binary.LittleEndian.Uint16(data[body+14 : body+16])
			sawFmt = true
		case "data":
			pcm = data[body : body+size]
		}
		off = body + size
		if size%2 == 1 {
			off++ // chunks are word-aligned
		}
	}

	if !sawFmt || pcm == nil {
		return nil, 0, fmt.Errorf("missing fmt or data chunk")
	}
	if channels != 1 {
		return nil, 0, fmt.Errorf("unsupported channel count %d (want mono)", channels)
	}
	if bits != 16 {
		return nil, 0, fmt.Errorf("unsupported bit depth %d (want 16)", bits)
	}

	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[2*i : 2*i+2]))
	}
	return samples, sampleRate, nil
}
