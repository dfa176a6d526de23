// Package supercam is a user-mode capture engine for the Useeplus
// SuperCamera, a cheap USB video microscope (VID 0x2ce3, PID 0x3828) that
// streams JPEG frames over a vendor-specific bulk protocol instead of UVC.
//
// The engine discovers the camera, negotiates its streaming mode, drains the
// bulk endpoint on a background worker, reassembles the vendor packet stream
// into complete JPEG frames, and hands them out through a blocking reader
// backed by a fixed-depth frame ring with drop-oldest overflow behavior.
//
// # Enumeration
//
// Use Enumerate to discover connected cameras:
//
//	devices, err := supercam.Enumerate(4)
//	for _, dev := range devices {
//	    fmt.Printf("%s: %s\n", dev.Path, dev.Description)
//	}
//
// # Capture
//
// Open a camera, start streaming, and read frames:
//
//	cam, err := supercam.Open()
//	if err != nil {
//	    return err
//	}
//	defer cam.Close()
//
//	if err := cam.StartStreaming(); err != nil {
//	    return err
//	}
//	buf := make([]byte, supercam.SlotCapacity)
//	n, err := cam.ReadFrame(buf, 5*time.Second)
//	// buf[:n] is one complete JPEG image
//
// ReadFrame blocks until a frame is ready or the timeout expires; a zero
// timeout waits indefinitely. Frames arrive in completion order, and when
// the consumer falls behind the oldest unread frame is dropped (visible in
// Stats). All methods are safe for concurrent use.
package supercam
