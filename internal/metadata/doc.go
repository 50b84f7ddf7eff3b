// Package metadata reads the JSON document the ddp engine produces.
//
// The document is treated as an opaque tree: only parse validity is enforced.
// Accessors expose the `tracks` array, and VerifyTracks checks the WAV files a
// "process" run leaves beside metadata.json.
//
// Key types:
//   - Metadata: the parsed document; any JSON value may be the root
//   - ParseError: missing, unreadable or malformed metadata
//   - TrackFile: one verified track_NN.wav output
package metadata
