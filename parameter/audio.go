package parameter

import "time"

// Audio hardware settings
const (
	AudioSampleRate     = 44100
	AudioBufferDuration = 100 * time.Millisecond
	AudioMasterVolume   = 0.7
)

// Collision sounds
const (
	CollisionSmallDuration = 90 * time.Millisecond
	CollisionSmallAttack   = 2 * time.Millisecond
	CollisionSmallRelease  = 70 * time.Millisecond
	CollisionSmallFreq     = 1320.0

	CollisionMediumDuration = 220 * time.Millisecond
	CollisionMediumAttack   = 4 * time.Millisecond
	CollisionMediumRelease  = 180 * time.Millisecond
	CollisionMediumFreq     = 330.0

	CollisionLargeDuration = 600 * time.Millisecond
	CollisionLargeAttack   = 8 * time.Millisecond
	CollisionLargeRelease  = 500 * time.Millisecond
	CollisionLargeFreq     = 70.0

	// MinCollisionSoundGap drops repeats of the same size within this window
	MinCollisionSoundGap = 40 * time.Millisecond
)
