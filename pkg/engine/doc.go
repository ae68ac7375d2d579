// Package engine adapts the external macro expansion engine. Expansion is a
// pure planning step: the engine receives a fixed binding set (template,
// script path, output id, search path, prelude files) and produces text.
// Deferred actions travel inside that text as marker lines which the adapter
// strips out and hands back as structured records; the direct text is what
// remains. The production engine is GNU m4 run as a subprocess; tests swap
// in an in-process fake.
package engine
