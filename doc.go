/*
go-k4abt provides Go language bindings for the Azure Kinect Sensor SDK
(k4a) and Body Tracking SDK (k4abt) C API interfaces.  It aims to provide
lite bindings in the spirit of the official C# wrapper for running skeletal
body tracking from Go on depth captures produced by the Azure Kinect DK.

The native SDKs perform all capture, calibration, and body tracking
inference.  These bindings wrap the opaque native handles (device, capture,
image, tracker, body frame) with Go types carrying strict single-release
lifetime semantics, and expose the tracker's asynchronous enqueue/pop
pipeline with blocking, polling, and timeout access.

See example code and usage in the examples subdirectory.
*/
package k4abt
