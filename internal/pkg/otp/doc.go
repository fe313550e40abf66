// Package otp implements the one-time password lifecycle used by account
// verification and password recovery, together with the abuse controls that
// surround it.
//
// Every piece of state is kept in an expiring key-value Store shared by all
// service instances:
//
//	otp:{identity}                  the live 4-digit code            (5 minutes)
//	otp_cooldown:{identity}         resend cooldown                  (1 minute)
//	otp_request_count:{identity}    sliding request counter          (1 hour)
//	otp_spam_lock:{identity}        request lock after escalation    (1 hour)
//	otp_failed_attempts:{identity}  wrong guesses for the live code  (5 minutes)
//	otp_lock:{identity}             verification lock                (30 minutes)
//
// A typical issuing flow calls CheckRestrictions, TrackRequest and Issue in
// that order (Request does all three). Verify consumes a code.
//
// Outcomes are reported as errors so callers can branch with errors.Is and
// errors.As: *BlockedError for cooldown and lock states, *IncorrectCodeError
// for a wrong guess, ErrInvalidOrExpired when no code is live, and
// ErrStoreUnavailable when the store cannot answer. A store failure is never
// treated as "no restriction".
package otp
