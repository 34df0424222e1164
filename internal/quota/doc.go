// Package quota tracks per-session daily usage of the generation features.
//
// State is an explicit domain.QuotaState value read from and written back to the
// session store; the Tracker itself holds only immutable policy and a clock. The
// calendar day is evaluated in a configured time zone, and a stale day resets every
// counter before any read or write.
package quota
