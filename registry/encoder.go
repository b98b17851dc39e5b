package registry

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"time"
)

const (
	recordFormatVersionCurrent = 1
	maxFieldLength             = 255
)

// Encode serializes the immutable part of an identity. LastConsumed is kept
// outside the blob so it can be advanced without rewriting the record.
func Encode(id *Identity) ([]byte, error) {
	if err := id.validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte(recordFormatVersionCurrent)

	if err := writeShort(&buf, []byte(id.ID)); err != nil {
		return nil, errors.New("identity id too long")
	}
	if err := writeShort(&buf, []byte(id.Username)); err != nil {
		return nil, errors.New("username too long")
	}
	buf.Write(id.PublicKey[:])
	if err := writeShort(&buf, id.SeedKey); err != nil {
		return nil, errors.New("seed key too long")
	}
	if err := binary.Write(&buf, binary.BigEndian, id.RegisteredAt.UnixNano()); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode parses a blob produced by Encode. The returned identity has
// LastConsumed set to NoneConsumed; callers overlay the stored marker.
func Decode(data []byte) (*Identity, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != recordFormatVersionCurrent {
		return nil, errors.New("invalid identity record version")
	}

	id := &Identity{LastConsumed: NoneConsumed}

	raw, err := readShort(reader)
	if err != nil {
		return nil, err
	}
	id.ID = string(raw)

	raw, err = readShort(reader)
	if err != nil {
		return nil, err
	}
	id.Username = string(raw)

	if _, err := io.ReadFull(reader, id.PublicKey[:]); err != nil {
		return nil, err
	}

	if id.SeedKey, err = readShort(reader); err != nil {
		return nil, err
	}

	var registered int64
	if err := binary.Read(reader, binary.BigEndian, &registered); err != nil {
		return nil, err
	}
	id.RegisteredAt = time.Unix(0, registered).UTC()

	if reader.Len() != 0 {
		return nil, errors.New("trailing bytes in identity record")
	}
	if err := id.validate(); err != nil {
		return nil, err
	}

	return id, nil
}

func writeShort(buf *bytes.Buffer, b []byte) error {
	if len(b) > maxFieldLength {
		return errors.New("field too long")
	}
	buf.WriteByte(byte(len(b)))
	buf.Write(b)
	return nil
}

func readShort(r *bytes.Reader) ([]byte, error) {
	n, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, err
	}
	return out, nil
}
