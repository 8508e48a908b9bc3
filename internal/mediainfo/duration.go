// Package mediainfo applies trust policy to transport-reported media
// properties and formats them for logging.
package mediainfo

const (
	// minTrustedDuration is the floor below which a reported duration is
	// discarded. Transports are known to report 0 or 1 second on first
	// ingestion of a file.
	minTrustedDuration = 60

	// largeFileThreshold marks files that should always carry a real
	// duration. 10 MiB.
	largeFileThreshold = 10 * 1024 * 1024
)

// DurationTrust is the outcome of the reliability check.
type DurationTrust int

const (
	// DurationTrusted means the reported duration passed the policy.
	DurationTrusted DurationTrust = iota
	// DurationUntrusted means no usable duration is available.
	DurationUntrusted
	// DurationSuspicious means a large file arrived without a usable
	// duration; callers should log it, nothing more.
	DurationSuspicious
)

// ReliableDuration decides whether a transport-reported duration can be
// trusted. reported is in seconds (0 when the transport sent none); size is
// the file byte size. The returned seconds value is meaningful only when
// the trust is [DurationTrusted]. Purely informational: the result gates
// log output, never the pipeline.
func ReliableDuration(reported int, size int64) (int, DurationTrust) {
	trusted := reported >= minTrustedDuration

	if size > largeFileThreshold && !trusted {
		return 0, DurationSuspicious
	}
	if !trusted {
		return 0, DurationUntrusted
	}
	return reported, DurationTrusted
}
