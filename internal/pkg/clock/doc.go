// Package clock lets code ask for the current time through Clocker so that
// expiry arithmetic (OTP windows, token lifetimes, in-memory TTLs) can be driven
// by Fake in tests.
package clock
