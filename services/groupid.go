package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"hotel-reservation/models"
)

const (
	groupIDPrefix       = "BKG-"
	legacyGroupIDPrefix = "BKG-LEGACY-"
)

// NewBookingGroupID returns a fresh opaque group id. The BKG- prefix
// keeps new ids greppable alongside ids minted by earlier backfills.
func NewBookingGroupID() string {
	return groupIDPrefix + uuid.NewString()
}

// EffectiveGroupID returns the booking's stored group id, or a
// deterministic virtual id for legacy rows created before grouping
// existed. Stored data is never mutated at read time.
func EffectiveGroupID(b *models.Booking) string {
	if b.BookingGroupID != nil && *b.BookingGroupID != "" {
		return *b.BookingGroupID
	}
	return fmt.Sprintf("%s%d", legacyGroupIDPrefix, b.ID)
}

// ParseLegacyGroupID extracts the booking id from a virtual group id,
// returning ok=false for real (stored) group ids.
func ParseLegacyGroupID(groupID string) (uint, bool) {
	raw, found := strings.CutPrefix(groupID, legacyGroupIDPrefix)
	if !found {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
