// Package spatial assembles the headphone speaker simulator: a stereo
// parametric EQ, the four-path binaural convolution engine and an output
// gain stage, fed with impulse responses by a background [Loader].
//
// A [Simulator] starts with stereo passthrough responses (left speaker to
// left ear, right speaker to right ear) until a [Provider] supplies a
// measured set.
package spatial
