// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// HeaderSize is the size of a canonical PCM WAV header.
	HeaderSize = 44

	// DefaultSampleRate is used when the media type carries no rate parameter.
	DefaultSampleRate = 24000

	// BitsPerSample is fixed: the backend only produces 16-bit PCM.
	BitsPerSample = 16

	// Channels is fixed: the backend only produces mono audio.
	Channels = 1

	formatPCM = 1
)

// ErrNoAudio is returned when the decoded payload holds no samples.
var ErrNoAudio = errors.New("no audio data")

// =============================================================================
// MEDIA TYPE
// =============================================================================

// ParseSampleRate extracts the rate parameter from a media type like
// "audio/L16;rate=16000". Missing or invalid rates yield DefaultSampleRate.
func ParseSampleRate(mimeType string) int {
	for _, param := range strings.Split(mimeType, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "rate") {
			continue
		}
		rate, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || rate <= 0 {
			return DefaultSampleRate
		}
		return rate
	}
	return DefaultSampleRate
}

// =============================================================================
// WAV FRAMING
// =============================================================================

// DecodePCM decodes base64 PCM16 data. A trailing odd byte cannot form a
// sample and is dropped.
func DecodePCM(encoded string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode audio data: %w", err)
	}
	return raw[:len(raw)-len(raw)%2], nil
}

// EncodeWAV wraps 16-bit little-endian mono samples in a WAV container.
// The result is exactly HeaderSize + len(pcm) bytes long.
func EncodeWAV(pcm []byte, sampleRate int) []byte {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	dataSize := uint32(len(pcm))
	blockAlign := uint16(Channels * BitsPerSample / 8)
	byteRate := uint32(sampleRate) * uint32(blockAlign)

	buf := make([]byte, HeaderSize+len(pcm))
	le := binary.LittleEndian

	copy(buf[0:4], "RIFF")
	le.PutUint32(buf[4:8], 36+dataSize)
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	le.PutUint32(buf[16:20], 16)
	le.PutUint16(buf[20:22], formatPCM)
	le.PutUint16(buf[22:24], Channels)
	le.PutUint32(buf[24:28], uint32(sampleRate))
	le.PutUint32(buf[28:32], byteRate)
	le.PutUint16(buf[32:34], blockAlign)
	le.PutUint16(buf[34:36], BitsPerSample)

	copy(buf[36:40], "data")
	le.PutUint32(buf[40:44], dataSize)
	copy(buf[44:], pcm)

	return buf
}

// BuildWAV decodes a speech payload and frames it as WAV using the rate
// found in mimeType.
func BuildWAV(audioData, mimeType string) ([]byte, error) {
	pcm, err := DecodePCM(audioData)
	if err != nil {
		return nil, err
	}
	if len(pcm) == 0 {
		return nil, ErrNoAudio
	}
	return EncodeWAV(pcm, ParseSampleRate(mimeType)), nil
}

// Header is the decoded fixed part of a WAV header.
type Header struct {
	SampleRate    int
	ByteRate      int
	Channels      int
	BitsPerSample int
	DataSize      int
}

// ReadHeader parses the canonical header produced by EncodeWAV.
func ReadHeader(wav []byte) (*Header, error) {
	if len(wav) < HeaderSize {
		return nil, fmt.Errorf("wav too short: %d bytes", len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" ||
		string(wav[12:16]) != "fmt " || string(wav[36:40]) != "data" {
		return nil, errors.New("not a canonical wav header")
	}
	le := binary.LittleEndian
	return &Header{
		Channels:      int(le.Uint16(wav[22:24])),
		SampleRate:    int(le.Uint32(wav[24:28])),
		ByteRate:      int(le.Uint32(wav[28:32])),
		BitsPerSample: int(le.Uint16(wav[34:36])),
		DataSize:      int(le.Uint32(wav[40:44])),
	}, nil
}
