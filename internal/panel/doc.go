// Package panel maps e-paper panel model names to drivers.
//
// Every panel is described by a fixed Descriptor: its pixel dimensions, whether
// it can show colour, its palette and the call sequence its driver expects.
// Descriptors are registered together with a Factory in a Registry; callers
// resolve a model name with Registry.Open and talk to the result through the
// Driver interface. No capability is discovered at run time.
//
// # Call Sequences
//
// A SequenceDirect driver accepts an image in Display. A SequenceBuffered
// driver must also implement Packer: the image is first packed into a device
// buffer, which is then handed to DisplayBuffer. Present runs the right
// sequence for a driver.
//
// # Built-in Panels
//
// The Default registry carries Waveshare and Pimoroni Inky panels backed by the
// periph.io vendor drivers, plus descriptor-only panels that have no in-tree
// hardware backend. Any panel can be opened against the PNG preview sink by
// setting OpenOptions.Output, which is how panels are exercised without
// hardware.
//
// # Errors
//
//   - ErrConfig: no model given, or the model is not registered
//   - ErrUnsupportedDriver: no hardware backend, or a buffered descriptor whose
//     driver lacks Packer
//   - ErrDimensions: neither the descriptor nor the driver yields a size, or
//     an opened driver disagrees with its descriptor
package panel
