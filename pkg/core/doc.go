// Package core orchestrates the pipeline: discover templates under the
// config root, expand each one to accumulate the deferred action script
// (phase 1), then either execute the script to install everything or
// consult it to locate a template for editing (phase 2). Scratch files
// live for exactly one run.
package core
