package holdem

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const maxHandSequence = 999999

var handIDPattern = regexp.MustCompile(`^(\d{8})-(\d{6})$`)

// dealNamespace scopes the name-based deal ids.
var dealNamespace = uuid.MustParse("5b0f7d2e-3c61-4c55-9a53-6f3e3f1c2a10")

// HandIDSequencer hands out ids of the form YYYYMMDD-NNNNNN. It is not safe
// for concurrent use; give each session its own sequencer.
type HandIDSequencer struct {
	next uint64
}

// NewHandIDSequencer starts counting at start (0 is treated as 1).
func NewHandIDSequencer(start uint64) *HandIDSequencer {
	if start == 0 {
		start = 1
	}
	return &HandIDSequencer{next: start}
}

// Next returns the id for a hand dealt at t.
func (s *HandIDSequencer) Next(t time.Time) (string, error) {
	if s.next > maxHandSequence {
		return "", errors.Errorf("hand id sequence exhausted at %d", s.next)
	}
	id := fmt.Sprintf("%s-%06d", t.UTC().Format("20060102"), s.next)
	s.next++
	return id, nil
}

// Peek returns the sequence number the next id will carry.
func (s *HandIDSequencer) Peek() uint64 { return s.next }

// ValidHandID reports whether id has the YYYYMMDD-NNNNNN shape with a real date.
func ValidHandID(id string) bool {
	m := handIDPattern.FindStringSubmatch(id)
	if m == nil {
		return false
	}
	if _, err := time.Parse("20060102", m[1]); err != nil {
		return false
	}
	return m[2] != "000000"
}

// HandSequence extracts the sequence number of a hand id.
func HandSequence(id string) (uint64, error) {
	if !ValidHandID(id) {
		return 0, errors.Errorf("malformed hand id %q", id)
	}
	return strconv.ParseUint(handIDPattern.FindStringSubmatch(id)[2], 10, 64)
}

// DealID derives a stable UUID for a deal from its id, seed and level.
func DealID(handID string, seed int64, level int) uuid.UUID {
	return uuid.NewSHA1(dealNamespace, []byte(fmt.Sprintf("%s/%d/%d", handID, seed, level)))
}
