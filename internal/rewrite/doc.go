// Package rewrite runs edit scripts against the matches of a pattern.
//
// Three strategies are offered:
//
//   - Pattern.Execute applies the script once per acceptable match, each time
//     on a fresh clone of the input, and returns the distinct results.
//   - Pattern.Iterate keeps rewriting one evolving graph, restarting the match
//     after every change, until a full pass changes nothing. There is no
//     oscillation detection: a script that undoes itself loops forever.
//   - Expand and Exhaust run several patterns; Exhaust also feeds every result
//     back in, down to a fixed depth.
//
// A match is acceptable when no two names bind the same word and the
// pattern's predicate, if any, holds.
package rewrite
