package otp

const (
	prefixCode           = "otp:"
	prefixCooldown       = "otp_cooldown:"
	prefixRequestCount   = "otp_request_count:"
	prefixSpamLock       = "otp_spam_lock:"
	prefixFailedAttempts = "otp_failed_attempts:"
	prefixLock           = "otp_lock:"

	// sentinel stored in marker keys whose presence is all that matters.
	sentinel = "1"
)

type keySet struct {
	code     string
	cooldown string
	requests string
	spamLock string
	failed   string
	lock     string
}

func keysFor(identity string) keySet {
	return keySet{
		code:     prefixCode + identity,
		cooldown: prefixCooldown + identity,
		requests: prefixRequestCount + identity,
		spamLock: prefixSpamLock + identity,
		failed:   prefixFailedAttempts + identity,
		lock:     prefixLock + identity,
	}
}
