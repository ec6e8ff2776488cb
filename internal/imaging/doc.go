// Package imaging provides the image plumbing around the detection core:
// loading and caching decoded images, the preprocessing primitives the
// pipeline is built from (grayscale, blur, adaptive and Otsu thresholding,
// morphology), downscaling of oversized scans, region cropping, and
// rendering detection results back onto the image.
//
// # Coordinate system
//
// All pixel coordinates are 0-based with the origin at the top-left corner;
// X increases rightward and Y downward. Region rectangles are top-left
// inclusive, bottom-right exclusive.
//
// # Thread safety
//
// ImageCache is safe for concurrent use. The processing functions are
// stateless: they read their input image and return freshly allocated
// output, so they can run concurrently as long as inputs are not mutated.
package imaging
