package audio

import (
	"bytes"
	"encoding/binary"
)

// EncodeWAV wraps raw 16-bit mono PCM bytes in a canonical 44-byte RIFF/WAVE
// header. The output is a complete, playable WAV file: output length is
// always 44 + len(pcm). All numeric header fields are little-endian; the
// four-character chunk tags are ASCII.
func EncodeWAV(pcm []byte, sampleRate int) []byte {
	const audioFormatPCM = 1

	blockAlign := Channels * BitDepth / 8
	byteRate := sampleRate * blockAlign
	dataSize := len(pcm)
	riffSize := 4 + (8 + 16) + (8 + dataSize)

	buf := bytes.NewBuffer(make([]byte, 0, 44+dataSize))
	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(riffSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(audioFormatPCM))
	_ = binary.Write(buf, binary.LittleEndian, uint16(Channels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(buf, binary.LittleEndian, uint16(BitDepth))
	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(pcm)

	return buf.Bytes()
}
