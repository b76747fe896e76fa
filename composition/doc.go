// Package composition is the ordered multi-pass render graph.
//
// A Composition owns a list of passes and the named off-screen frames they
// paint into. Each tick it updates the camera, updates every pass, then
// paints every pass in configured order. The first pass targeting a frame
// clears it; later passes on the same frame accumulate unless they ask for
// a clear. Reordering passes therefore changes the picture.
//
// Passes form a closed set of kinds (particles, toy, text, image, sampler)
// held in a tagged Renderable and dispatched by a single switch.
package composition
