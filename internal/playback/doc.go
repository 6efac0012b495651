// Package playback defines the normalized playback status model shared by
// the gateway and the terminal widget.
//
// # Status Model
//
// [Status] is an immutable snapshot of the owner's listening activity,
// produced by the gateway from the upstream Spotify responses and replaced
// wholesale on every fetch. The track is nil when no activity is known.
//
// # Progress Helpers
//
// [Status.Percent] and [FormatClock] implement the display math for the
// progress widget: a percentage in [0,100] guarded against zero durations,
// and m:ss clock formatting for both sides of the "1:05 / 3:00" readout.
package playback
