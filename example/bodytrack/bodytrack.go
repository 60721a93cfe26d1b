/*
Example code showing how to run body tracking on the depth camera stream,
rendering skeletons, body outlines, index map overlay, and a movement
trail onto an annotated output image
*/
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"os"
	"time"

	k4abt "github.com/swdee/go-k4abt"
	"github.com/swdee/go-k4abt/mask"
	"github.com/swdee/go-k4abt/pose"
	"github.com/swdee/go-k4abt/render"
	"github.com/swdee/go-k4abt/track"
	"gocv.io/x/gocv"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	// Size of TTF font used for body labels
	TTFFontSize = 16
	// Wait timeout used for all capture and tracker queue operations
	WaitTimeout = 2 * time.Second
	// Number of pixels to expand the traced body outline by so it sits
	// clear of the silhouette
	OutlineExpand = 4
	// Number of positions of movement history to keep per body
	TrailLength = 90
)

// BodyTrack wraps the device and tracker resources used for the demo
type BodyTrack struct {
	// device is the opened depth camera
	device *k4abt.Device
	// tracker is the body tracking session
	tracker *k4abt.Tracker
	// cal is the device calibration the tracker was created with
	cal *k4abt.Calibration
	// smoothers holds a Kalman smoother per tracked body id
	smoothers map[uint32]*track.Smoother
	// trail keeps the pelvis movement history per body
	trail *track.Trail
	// fontFace is the loaded TTF font face used for body labels, nil to
	// use the fast GoCV hershey font instead
	fontFace font.Face
}

// NewBodyTrack opens the default device, starts the depth camera, and
// creates a body tracker
func NewBodyTrack(modelPath string, cpuOnly bool) (*BodyTrack, error) {

	b := &BodyTrack{
		smoothers: make(map[uint32]*track.Smoother),
		trail:     track.NewTrail(TrailLength),
	}

	var err error
	b.device, err = k4abt.OpenDevice(k4abt.DefaultDevice)

	if err != nil {
		return nil, fmt.Errorf("error opening device: %w", err)
	}

	serial, err := b.device.SerialNumber()

	if err != nil {
		return nil, fmt.Errorf("error reading serial number: %w", err)
	}

	log.Printf("Opened device %s\n", serial)

	// depth only configuration, body tracking does not need the color
	// camera
	cfg := k4abt.DefaultDeviceConfig()

	err = b.device.StartCameras(cfg)

	if err != nil {
		return nil, fmt.Errorf("error starting cameras: %w", err)
	}

	b.cal, err = b.device.GetCalibration(cfg.DepthMode, cfg.ColorResolution)

	if err != nil {
		return nil, fmt.Errorf("error getting calibration: %w", err)
	}

	b.tracker, err = k4abt.NewTracker(b.cal, k4abt.TrackerConfig{
		CPUOnly:   cpuOnly,
		ModelPath: modelPath,
	})

	if err != nil {
		return nil, fmt.Errorf("error creating tracker: %w", err)
	}

	return b, nil
}

// initFont loads the TTF font and sets up a new font face
func (b *BodyTrack) initFont(fontPath string) error {

	// load font data
	fontBytes, err := os.ReadFile(fontPath)

	if err != nil {
		return fmt.Errorf("failed to load font: %w", err)
	}

	// parse the font
	f, err := opentype.Parse(fontBytes)

	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}

	// create a type face
	b.fontFace, err = opentype.NewFace(f, &opentype.FaceOptions{
		Size:    TTFFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})

	if err != nil {
		return fmt.Errorf("failed to create type face: %w", err)
	}

	return nil
}

// ProcessFrame captures one depth frame, runs it through the tracker,
// and renders the annotated result to resImg
func (b *BodyTrack) ProcessFrame(resImg *gocv.Mat) error {

	capture, err := b.device.GetCapture(WaitTimeout)

	if err != nil {
		return fmt.Errorf("error getting capture: %w", err)
	}

	defer capture.Close()

	err = b.tracker.EnqueueCapture(capture, WaitTimeout)

	if err != nil {
		return fmt.Errorf("error enqueueing capture: %w", err)
	}

	frame, err := b.tracker.PopFrame(WaitTimeout)

	if err != nil {
		return fmt.Errorf("error popping frame: %w", err)
	}

	defer frame.Close()

	// draw the depth image as the background
	err = b.renderDepth(frame, resImg)

	if err != nil {
		return fmt.Errorf("error rendering depth image: %w", err)
	}

	// overlay the body index map
	indexMap, err := b.overlayIndexMap(frame, resImg)

	if err != nil {
		return fmt.Errorf("error overlaying index map: %w", err)
	}

	bodies, err := frame.Bodies()

	if err != nil {
		return fmt.Errorf("error getting bodies: %w", err)
	}

	var ids []uint32

	for i, body := range bodies {

		ids = append(ids, body.ID)

		// smooth the skeleton with this body's Kalman filter
		if _, exists := b.smoothers[body.ID]; !exists {
			b.smoothers[body.ID] = track.NewSmoother(1.0/30, 1, 10)
		}

		skel := b.smoothers[body.ID].Smooth(body.Skeleton)

		joints, err := render.ProjectSkeleton(b.cal, &skel,
			k4abt.CalibrationTypeDepth)

		if err != nil {
			return fmt.Errorf("error projecting skeleton: %w", err)
		}

		render.Skeleton(resImg, joints, body.ID, 2)

		// trace and draw the expanded body outline
		for _, outline := range mask.Outlines(indexMap, resImg.Cols(),
			resImg.Rows(), uint8(i)) {
			render.Outline(resImg, mask.Expand(outline, OutlineExpand),
				body.ID, 1)
		}

		// record the pelvis position for the movement trail
		if joints.Valid[k4abt.JointPelvis] {
			b.trail.Add(body.ID, joints.Points[k4abt.JointPelvis])
		}

		// label above the head with id and elbow flexion angle
		angle := pose.Angle(&skel, k4abt.JointShoulderRight,
			k4abt.JointElbowRight, k4abt.JointWristRight)

		text := fmt.Sprintf("body %d elbow %.0f", body.ID, angle)

		if joints.Valid[k4abt.JointHead] {
			b.drawLabel(resImg, text, joints.Points[k4abt.JointHead], body.ID)
		}
	}

	render.Trail(resImg, ids, b.trail, render.DefaultTrailStyle())

	return nil
}

// renderDepth converts the frame's depth image into a BGR background
// image for annotation
func (b *BodyTrack) renderDepth(frame *k4abt.Frame, resImg *gocv.Mat) error {

	capture, err := frame.Capture()

	if err != nil {
		return fmt.Errorf("error getting frame capture: %w", err)
	}

	defer capture.Close()

	depth, err := capture.DepthImage()

	if err != nil {
		return fmt.Errorf("error getting depth image: %w", err)
	}

	if depth == nil {
		return fmt.Errorf("capture holds no depth image")
	}

	defer depth.Close()

	depthMat, err := depth.ToMat()

	if err != nil {
		return fmt.Errorf("error converting depth image: %w", err)
	}

	defer depthMat.Close()

	// scale 16 bit depth down to a renderable 8 bit gray image then
	// expand to 3 channels for colored annotations
	gray := gocv.NewMat()
	defer gray.Close()

	depthMat.ConvertToWithParams(&gray, gocv.MatTypeCV8UC1, 255.0/5000.0, 0)
	gocv.CvtColor(gray, resImg, gocv.ColorGrayToBGR)

	return nil
}

// overlayIndexMap blends the body index map over the result image and
// returns the raw index map buffer for outline tracing
func (b *BodyTrack) overlayIndexMap(frame *k4abt.Frame, resImg *gocv.Mat) ([]byte, error) {

	indexMap, err := frame.IndexMap()

	if err != nil {
		return nil, fmt.Errorf("error getting index map: %w", err)
	}

	defer indexMap.Close()

	buf, err := indexMap.Buffer()

	if err != nil {
		return nil, fmt.Errorf("error reading index map buffer: %w", err)
	}

	// the native buffer is released with the image, keep a copy
	data := make([]byte, len(buf))
	copy(data, buf)

	render.IndexMapOverlay(resImg, data, 0.4)

	return data, nil
}

// drawLabel renders a body label using the TTF font when one is loaded,
// falling back to the fast GoCV hershey font
func (b *BodyTrack) drawLabel(img *gocv.Mat, text string, at image.Point, bodyID uint32) {

	if b.fontFace == nil {
		render.BodyLabel(img, text, image.Pt(at.X, at.Y-10), bodyID,
			render.DefaultFont())
		return
	}

	b.putTTFText(img, text, at.X, at.Y-10)
}

// putTTFText creates an image and writes text on it using the loaded
// TTF font face
func (b *BodyTrack) putTTFText(img *gocv.Mat, text string, x, y int) error {

	// create image with text writing
	rgba := image.NewRGBA(image.Rect(0, 0, img.Cols(), img.Rows()))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(color.RGBA{0, 0, 0, 0}), image.Point{}, draw.Src)

	dr := &font.Drawer{
		Dst:  rgba,
		Src:  image.NewUniform(color.RGBA{255, 255, 255, 255}),
		Face: b.fontFace,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(x * 64),
			Y: fixed.Int26_6(y * 64),
		},
	}
	dr.DrawString(text)

	// Convert image.RGBA to gocv.Mat
	imgRGBA, err := gocv.NewMatFromBytes(rgba.Bounds().Dy(), rgba.Bounds().Dx(), gocv.MatTypeCV8UC4, rgba.Pix)

	if imgRGBA.Empty() || err != nil {
		return fmt.Errorf("error creating Mat from RGBA")
	}

	defer imgRGBA.Close()

	gocv.CvtColor(imgRGBA, &imgRGBA, gocv.ColorRGBAToBGR)
	gocv.AddWeighted(*img, 1.0, imgRGBA, 1.0, 0, img)

	return nil
}

// Close shuts down the tracker and releases all device resources
func (b *BodyTrack) Close() error {

	err := b.tracker.Shutdown()

	if err != nil {
		return fmt.Errorf("error shutting down tracker: %w", err)
	}

	err = b.tracker.Close()

	if err != nil {
		return fmt.Errorf("error closing tracker: %w", err)
	}

	err = b.device.StopCameras()

	if err != nil {
		return fmt.Errorf("error stopping cameras: %w", err)
	}

	err = b.device.Close()

	if err != nil {
		return fmt.Errorf("error closing device: %w", err)
	}

	return nil
}

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	modelPath := flag.String("m", "", "Alternate body tracking model file, blank uses the SDK default")
	cpuOnly := flag.Bool("c", false, "Run tracking on the CPU instead of the GPU")
	frames := flag.Int("n", 30, "Number of frames to process")
	smoothing := flag.Float64("s", 0, "Tracker temporal smoothing factor [0.0-1.0]")
	saveFile := flag.String("o", "../data/bodytrack-out.jpg", "The output JPG file with body tracking annotations")
	ttfFont := flag.String("f", "", "Optional TTF font to use for body labels")

	flag.Parse()

	bt, err := NewBodyTrack(*modelPath, *cpuOnly)

	if err != nil {
		log.Fatal("Error initializing body tracking: ", err)
	}

	if *ttfFont != "" {
		if err := bt.initFont(*ttfFont); err != nil {
			log.Fatal("Error loading font: ", err)
		}
	}

	err = bt.tracker.SetTemporalSmoothing(float32(*smoothing))

	if err != nil {
		log.Fatal("Error setting smoothing: ", err)
	}

	// create Mat for annotated image
	resImg := gocv.NewMat()
	defer resImg.Close()

	start := time.Now()

	for i := 0; i < *frames; i++ {

		err = bt.ProcessFrame(&resImg)

		if err != nil {
			log.Fatal("Error processing frame: ", err)
		}
	}

	log.Printf("Processed %d frames in %s\n", *frames, time.Since(start).String())

	// Save the last annotated frame
	if ok := gocv.IMWrite(*saveFile, resImg); !ok {
		log.Fatal("Failed to save the image")
	}

	log.Printf("Saved body tracking result to %s\n", *saveFile)

	err = bt.Close()

	if err != nil {
		log.Fatal("Error closing body tracking: ", err)
	}

	log.Println("done")
}
