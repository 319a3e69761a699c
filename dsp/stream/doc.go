// Package stream drives a ladder filter from external collaborators.
//
// A [Driver] pulls one block of input from a [SampleSource], polls a
// [ParameterSource] once for that block, filters it and hands the
// (input, output) pair to every [SampleSink]. [Streamer] does the same job
// inside a beep pipeline: it wraps a stereo beep.Streamer and filters the
// frames as they are pulled through it.
//
// The ladder package itself knows nothing about these interfaces; everything
// here is glue.
package stream
