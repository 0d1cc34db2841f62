package dateutil

import (
	"hash/fnv"
	"math/rand"
	"time"
)

// DefaultSeedToken replaces the enrollment id in the display-time seed when a
// friend has no active enrollment.
const DefaultSeedToken = "default"

// DisplaySeed builds the stable seed string for a friend's activity time.
func DisplaySeed(userID, userChallengeID string) string {
	if userChallengeID == "" {
		userChallengeID = DefaultSeedToken
	}

	return userID + "_" + userChallengeID
}

// DisplayTimeToday derives a reproducible pseudo-random timestamp in today's
// 06:00-23:00 window, clamped so it never lies in the future. The generator is
// seeded with a 64-bit FNV-1a hash over the UTF-8 bytes of seed, so the same
// seed always yields the same instant for a given now.
func DisplayTimeToday(seed string, now time.Time) time.Time {
	today := StartOfDay(now)
	sixAM := today.Add(6 * time.Hour)
	elevenPM := today.Add(23 * time.Hour)

	end := now
	if elevenPM.Before(end) {
		end = elevenPM
	}

	window := end.Sub(sixAM)
	if window <= 0 {
		return sixAM
	}

	h := fnv.New64a()
	h.Write([]byte(seed))
	r := rand.New(rand.NewSource(int64(h.Sum64())))

	return sixAM.Add(time.Duration(r.Int63n(int64(window) + 1)))
}
