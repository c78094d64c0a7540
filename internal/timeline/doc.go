// Package timeline computes the life calendar grid.
//
// A [State] holds the birth date, the drawn end date and the selected
// [Scale]. [Build] turns it into a [Grid]: one row per calendar year from the
// birth year up to (not including) the end year, one [Phase] per month, week
// or day of that year.
//
// State changes go through [Apply], which takes one [Event] and returns the
// next state. The grid is never patched; callers rebuild it after every event.
package timeline
