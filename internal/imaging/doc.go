// Package imaging prepares decoded images for electronic-paper panels.
//
// The package covers the three steps between a file on disk and a frame a
// panel driver can accept: loading, geometry and pixel format.
//
// # Geometry
//
// Transform rotates an image clockwise (expanding the canvas, never cropping)
// and then sizes it to the panel with one of three policies:
//   - ModeStretch: resize to exactly the target size, aspect ratio ignored
//   - ModeFit: scale to fit inside the target and centre on a white canvas
//   - ModeFill: scale to cover the target and centre-crop the overflow
//
// All resampling uses the Lanczos filter. All returned images have their
// bounds anchored at (0,0).
//
// # Pixel Format
//
// Adapt converts a transformed image to what a panel can show: opaque RGB for
// colour panels (the driver does its own palette reduction) or a 1-bit
// black/white paletted image for monochrome panels, dithered with
// Floyd-Steinberg unless plain thresholding is requested.
//
// # Colour Science
//
// IsChromatic and PaletteHasColor decide whether a panel palette contains any
// real colour. Quantize maps an image onto a small palette using CIE L*a*b*
// distance, which is how the preview sink simulates a limited-palette panel.
//
// # Error Handling
//
// Invalid modes, rotations and target sizes are reported with errors wrapping
// ErrInvalidArgument. Validation functions never touch image data, so callers
// can reject bad arguments before decoding anything.
package imaging
