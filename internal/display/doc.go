// Package display puts an image file on an e-paper panel.
//
// A Displayer resolves the panel model (falling back to $EPD_MODEL), checks
// the rotation and mode, opens the panel from a panel.Registry, initialises it
// and reads its size. It then loads the image, rotates and sizes it, converts
// it to the panel's pixel format and presents it using the driver's call
// sequence. The driver is closed on every path once opened.
//
//	d := display.New()
//	res, err := d.Show(ctx, display.Request{
//	    Path:     "photo.jpg",
//	    Mode:     "fit",
//	    Rotation: 90,
//	    Model:    "epd5in65f",
//	    Dither:   true,
//	    Output:   "/tmp/preview.png",
//	})
//
// Render produces the same frame without opening the panel.
package display
