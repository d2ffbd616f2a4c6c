// Package datafile reads and writes the float64 files consumed and produced
// by the sort engine.
//
// The binary format is a flat sequence of little-endian IEEE-754 doubles,
// 8 bytes per value, with no header. Text output is one value per line.
package datafile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/sirupsen/logrus"
)

// ElementSize is the encoded width of one value.
const ElementSize = 8

// ReadFloat64File memory-maps path and decodes it. The mapping is released
// before returning; the result does not reference the file.
func ReadFloat64File(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat data file: %w", err)
	}
	size := stat.Size()
	if size%ElementSize != 0 {
		return nil, fmt.Errorf("%s is %d bytes: %w", path, size, ErrMisalignedSize)
	}
	if size == 0 {
		// zero-length files cannot be mapped
		return []float64{}, nil
	}

	fadviseSequential(int(f.Fd()), 0, size)
	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap data file: %w", err)
	}
	data, err := Decode(mm)
	if unmapErr := mm.Unmap(); unmapErr != nil && err == nil {
		err = fmt.Errorf("unmap data file: %w", unmapErr)
	}
	if err != nil {
		return nil, err
	}
	logrus.Debugf("read %d values (%s) from %s", len(data), FormatSize(size), path)
	return data, nil
}

// Decode converts little-endian doubles to values.
func Decode(b []byte) ([]float64, error) {
	if len(b)%ElementSize != 0 {
		return nil, fmt.Errorf("%d bytes: %w", len(b), ErrMisalignedSize)
	}
	out := make([]float64, len(b)/ElementSize)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*ElementSize:]))
	}
	return out, nil
}

// Encode converts values to little-endian doubles.
func Encode(data []float64) []byte {
	out := make([]byte, len(data)*ElementSize)
	for i, v := range data {
		binary.LittleEndian.PutUint64(out[i*ElementSize:], math.Float64bits(v))
	}
	return out
}

// WriteFloat64File writes data in the binary format, truncating path.
func WriteFloat64File(path string, data []float64) error {
	if err := os.WriteFile(path, Encode(data), 0o644); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	logrus.Debugf("Successfully wrote %d values to '%s'", len(data), path)
	return nil
}

// WriteTextFile writes one value per line using the shortest representation
// that round-trips.
func WriteTextFile(path string, data []float64) (err error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create text file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close text file: %w", closeErr)
		}
	}()

	writer := bufio.NewWriter(file)
	for i, v := range data {
		if i > 0 {
			if err := writer.WriteByte('\n'); err != nil {
				return fmt.Errorf("write text file: %w", err)
			}
		}
		if _, err := writer.WriteString(strconv.FormatFloat(v, 'g', -1, 64)); err != nil {
			return fmt.Errorf("write text file: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush text file: %w", err)
	}
	logrus.Debugf("Successfully wrote %d lines to '%s'", len(data), path)
	return nil
}

// FormatSize renders a byte count for humans, e.g. "1.5 KB".
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	i := 0
	v := float64(bytes)
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + " " + units[i]
}
