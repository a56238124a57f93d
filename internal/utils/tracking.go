package utils

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"regexp"
	"time"
)

// Tracking references look like TM202601159371: the "TM" prefix, the order
// date (yyyymmdd) and a 4-digit random suffix. Buyers quote them verbatim,
// so the format is part of the external contract.
const trackingRefPrefix = "TM"

var trackingRefPattern = regexp.MustCompile(`^TM\d{12}$`)

// NewTrackingRef generates a tracking reference for an order placed at t.
func NewTrackingRef(t time.Time) string {
	var b [8]byte
	suffix := 0
	if _, err := rand.Read(b[:]); err == nil {
		suffix = int(binary.BigEndian.Uint64(b[:]) % 9000)
	}
	return fmt.Sprintf("%s%s%04d", trackingRefPrefix, t.UTC().Format("20060102"), 1000+suffix)
}

// IsTrackingRef reports whether s has the tracking reference shape.
func IsTrackingRef(s string) bool {
	return trackingRefPattern.MatchString(s)
}
