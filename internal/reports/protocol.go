package reports

import (
	"crypto/rand"
	"fmt"
	"io"
	"strconv"
	"time"
)

const (
	protocolPrefix    = "RPT"
	protocolSuffixLen = 5
	protocolAlphabet  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// protocolByteCeil is the largest multiple of the alphabet size that fits in a byte.
	// Bytes at or above it are discarded so every character is equally likely.
	protocolByteCeil = 256 - 256%len(protocolAlphabet)
)

// ProtocolGenerator produces a protocol number for a report created at now.
type ProtocolGenerator func(now time.Time) (string, error)

// NewProtocolNumber returns "RPT" + unix millis + 5 uppercase base36 characters.
func NewProtocolNumber(now time.Time) (string, error) {
	return newProtocolNumber(now, rand.Reader)
}

func newProtocolNumber(now time.Time, random io.Reader) (string, error) {
	suffix, err := protocolSuffix(random)
	if err != nil {
		return "", err
	}
	return protocolPrefix + strconv.FormatInt(now.UnixMilli(), 10) + suffix, nil
}

func protocolSuffix(random io.Reader) (string, error) {
	out := make([]byte, 0, protocolSuffixLen)
	buf := make([]byte, protocolSuffixLen*2)
	for len(out) < protocolSuffixLen {
		if _, err := io.ReadFull(random, buf); err != nil {
			return "", fmt.Errorf("read random suffix: %w", err)
		}
		for _, b := range buf {
			if int(b) >= protocolByteCeil {
				continue
			}
			out = append(out, protocolAlphabet[int(b)%len(protocolAlphabet)])
			if len(out) == protocolSuffixLen {
				break
			}
		}
	}
	return string(out), nil
}
