/*
Example code showing how to capture a depth frame, transform it into an
XYZ point cloud, and save it as both a compact packed cloud and a PLY
file viewable in standard 3D tools
*/
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	k4abt "github.com/swdee/go-k4abt"
	"github.com/swdee/go-k4abt/pointcloud"
)

const (
	// Wait timeout used when capturing from the device
	WaitTimeout = 2 * time.Second
)

// captureCloud captures one depth frame and transforms it into a packed
// point cloud
func captureCloud() (pointcloud.Packed, error) {

	device, err := k4abt.OpenDevice(k4abt.DefaultDevice)

	if err != nil {
		return pointcloud.Packed{}, fmt.Errorf("error opening device: %w", err)
	}

	defer device.Close()

	cfg := k4abt.DefaultDeviceConfig()

	err = device.StartCameras(cfg)

	if err != nil {
		return pointcloud.Packed{}, fmt.Errorf("error starting cameras: %w", err)
	}

	defer device.StopCameras()

	cal, err := device.GetCalibration(cfg.DepthMode, cfg.ColorResolution)

	if err != nil {
		return pointcloud.Packed{}, fmt.Errorf("error getting calibration: %w", err)
	}

	transform, err := k4abt.NewTransformation(cal)

	if err != nil {
		return pointcloud.Packed{}, fmt.Errorf("error creating transformation: %w", err)
	}

	defer transform.Close()

	capture, err := device.GetCapture(WaitTimeout)

	if err != nil {
		return pointcloud.Packed{}, fmt.Errorf("error getting capture: %w", err)
	}

	defer capture.Close()

	depth, err := capture.DepthImage()

	if err != nil {
		return pointcloud.Packed{}, fmt.Errorf("error getting depth image: %w", err)
	}

	if depth == nil {
		return pointcloud.Packed{}, fmt.Errorf("capture holds no depth image")
	}

	defer depth.Close()

	// transform depth pixels into XYZ millimeter triplets
	xyz, err := transform.DepthToPointCloud(depth)

	if err != nil {
		return pointcloud.Packed{}, fmt.Errorf("error transforming depth image: %w", err)
	}

	defer xyz.Close()

	buf, err := xyz.Buffer()

	if err != nil {
		return pointcloud.Packed{}, fmt.Errorf("error reading point cloud buffer: %w", err)
	}

	// pack into half precision meters
	cloud, err := pointcloud.PackBuffer(buf)

	if err != nil {
		return pointcloud.Packed{}, fmt.Errorf("error packing point cloud: %w", err)
	}

	return cloud, nil
}

// savePLY writes the point cloud as an ASCII PLY file, skipping invalid
// points at the origin
func savePLY(cloud pointcloud.Packed, file string) (int, error) {

	// collect valid points first, the header needs the count
	var pts []pointcloud.Point

	for i := 0; i < cloud.Count(); i++ {

		p := cloud.At(i)

		if p.X == 0 && p.Y == 0 && p.Z == 0 {
			continue
		}

		pts = append(pts, p)
	}

	f, err := os.Create(file)

	if err != nil {
		return 0, fmt.Errorf("error creating PLY file: %w", err)
	}

	defer f.Close()

	w := bufio.NewWriter(f)

	fmt.Fprintf(w, "ply\nformat ascii 1.0\nelement vertex %d\n", len(pts))
	fmt.Fprintf(w, "property float x\nproperty float y\nproperty float z\nend_header\n")

	for _, p := range pts {
		fmt.Fprintf(w, "%f %f %f\n", p.X, p.Y, p.Z)
	}

	err = w.Flush()

	if err != nil {
		return 0, fmt.Errorf("error writing PLY file: %w", err)
	}

	return len(pts), nil
}

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	plyFile := flag.String("o", "../data/pointcloud-out.ply", "The output PLY file")
	packedFile := flag.String("p", "", "Optional output file for the raw packed cloud")

	flag.Parse()

	start := time.Now()

	cloud, err := captureCloud()

	if err != nil {
		log.Fatal("Error capturing point cloud: ", err)
	}

	log.Printf("Captured %d points in %s\n", cloud.Count(),
		time.Since(start).String())

	count, err := savePLY(cloud, *plyFile)

	if err != nil {
		log.Fatal("Error saving PLY file: ", err)
	}

	log.Printf("Saved %d valid points to %s\n", count, *plyFile)

	// the packed form is 6 bytes per point, suitable for storage or
	// transmission
	if *packedFile != "" {

		err = os.WriteFile(*packedFile, cloud.Bytes(), 0644)

		if err != nil {
			log.Fatal("Error saving packed cloud: ", err)
		}

		log.Printf("Saved packed cloud to %s\n", *packedFile)
	}

	log.Println("done")
}
