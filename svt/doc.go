// Package svt is the core of a headless viewer for VTK-format CFD
// simulation output: directories of numbered frame files, one per time
// step.
//
// # Reading Guide
//
// Start with these files to understand the pipeline:
//   - sequence.go: natural filename ordering, the reason this tool exists
//     (plain byte-wise sort plays frame 10 before frame 2)
//   - frame.go: loading directories into an ordered Series of meshes
//   - player.go: fixed-rate playback over a Series
//
// # Architecture
//
// Sub-packages implement the stages around the Series:
//   - svt/vtk: legacy ASCII VTK parsing into meshes with named data layers
//   - svt/render: orthographic software rendering of a mesh layer to an image
//   - svt/export: animated GIF encoding of a rendered Series
//   - svt/stream: publishing rendered frames to an MQTT broker
//
// The cmd package wires these into the info, export, serve and stream
// commands.
package svt
