// Package sentiment implements the keyword-based comment scorer.
//
// The scorer is a pure function over comment text: each positive keyword adds
// one, each negative keyword subtracts one, and the result is clamped to
// [-3, 3]. No state, safe for concurrent use.
package sentiment
