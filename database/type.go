package database

import (
	"database/sql/driver"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/expki/go-covariance/covariance"
	_ "github.com/expki/go-covariance/env"
)

// ShapeField stores a data-array shape as a JSON integer sequence.
type ShapeField covariance.Shape

// Scan scans value into ShapeField, implements sql.Scanner interface
func (s *ShapeField) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal ShapeField value: %+v", value)
	}
	var dims []int
	if err := json.Unmarshal(raw, &dims); err != nil {
		return fmt.Errorf("failed to unmarshal ShapeField value: %v", err)
	}
	*s = ShapeField(dims)
	return nil
}

// Value returns the JSON value, implements driver.Valuer interface
func (s ShapeField) Value() (driver.Value, error) {
	raw, err := json.Marshal([]int(s))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

const tripletBytes = 8 + 8 + 8

// TripletField stores a sparse triplet list as one zstd-compressed
// little-endian blob: a count followed by (i, j, value) rows.
type TripletField []covariance.Triplet

// Scan scans value into TripletField, implements sql.Scanner interface
func (t *TripletField) Scan(value any) error {
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to unmarshal TripletField value: %+v", value)
	}
	original, err := decompress(bytes)
	if err != nil {
		return fmt.Errorf("failed to decompress TripletField value: %v", err)
	}
	if len(original) < 8 {
		return fmt.Errorf("TripletField blob truncated: %d bytes", len(original))
	}
	count := binary.LittleEndian.Uint64(original)
	if uint64(len(original)-8) != count*tripletBytes {
		return fmt.Errorf("TripletField blob has %d bytes for %d triplets", len(original)-8, count)
	}
	triplets := make([]covariance.Triplet, count)
	offset := 8
	for i := range triplets {
		triplets[i] = covariance.Triplet{
			I:     int(binary.LittleEndian.Uint64(original[offset:])),
			J:     int(binary.LittleEndian.Uint64(original[offset+8:])),
			Value: math.Float64frombits(binary.LittleEndian.Uint64(original[offset+16:])),
		}
		offset += tripletBytes
	}
	*t = triplets
	return nil
}

// Value returns the compressed blob, implements driver.Valuer interface
func (t TripletField) Value() (driver.Value, error) {
	raw := make([]byte, 8+len(t)*tripletBytes)
	binary.LittleEndian.PutUint64(raw, uint64(len(t)))
	offset := 8
	for _, triplet := range t {
		binary.LittleEndian.PutUint64(raw[offset:], uint64(triplet.I))
		binary.LittleEndian.PutUint64(raw[offset+8:], uint64(triplet.J))
		binary.LittleEndian.PutUint64(raw[offset+16:], math.Float64bits(triplet.Value))
		offset += tripletBytes
	}
	return compress(raw), nil
}
