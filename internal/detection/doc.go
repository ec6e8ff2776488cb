// Package detection infers the physical measurement grid of a raster image
// and locates its significant content.
//
// The package has two public operations, both stateless and both pure
// functions of their input image:
//
//   - Detector.DetectGrid estimates the repeating grid pitch of a printed
//     or photographed measurement sheet and reconciles it against a small
//     set of standard physical sizes.
//   - Detector.DetectContent returns the union bounding box of the
//     significant content, or an empty result for a blank image.
//
// # Grid detection pipeline
//
// Grid detection is a single pass through four stages:
//
//  1. Line extraction: grayscale, 5x5 Gaussian blur, adaptive
//     binarization, 3x3 morphological closing, Canny edges, probabilistic
//     Hough transform.
//  2. Classification: segments within 2 degrees of horizontal or vertical
//     are reduced to axis positions; positions closer than 10px are merged
//     by a greedy first-kept scan.
//  3. Spacing consensus: consecutive gaps per axis are clustered with a
//     20% relative tolerance (first-fit, ordered groups) and the modal
//     group gives each axis its dominant spacing. The unified pixel pitch
//     is the minimum of the per-axis candidates with at least 3 supporting
//     gaps.
//  4. Reconciliation: the pixel pitch is converted to meters assuming the
//     image width spans 1.0m, scored on spacing consistency, proximity to
//     a standard size and line count, and snapped through an ordered
//     override cascade that favors 10-, 20- and 5-cell layouts.
//
// # Failure handling
//
// Grid detection failures are data, not errors: the result carries a
// FailureKind (insufficient_lines, inconsistent_grid, processing_error)
// and a human-readable reason. The public entry points never panic.
//
// # Concurrency
//
// A Detector holds only read-only parameters. Calls are independent and
// reentrant, so one Detector may serve many goroutines as long as the
// caller does not mutate the input images mid-call.
package detection
