package render

import (
	"image"

	"gocv.io/x/gocv"

	k4abt "github.com/swdee/go-k4abt"
)

// IndexMapOverlay renders the body index map as a transparent colored
// overlay on top of the whole image.  The image must be a 3 channel BGR
// Mat with the same dimensions as the index map, as produced by
// converting the frame's depth geometry imagery
func IndexMapOverlay(img *gocv.Mat, indexMap []byte, alpha float32) {

	// get dimensions
	width := img.Cols()
	height := img.Rows()

	if len(indexMap) < width*height {
		return
	}

	// it is too slow to manipulate pixel by pixel using GoCV due to
	// slowness over CGO.  So we copy the bytes from the source image and
	// manipulate the bytes directly before copying back to a Mat
	imgData := img.ToBytes()

	for j := 0; j < height; j++ {
		for k := 0; k < width; k++ {

			idx := j*width + k

			if indexMap[idx] == k4abt.BackgroundIndex {
				continue
			}

			clr := bodyColors[int(indexMap[idx])%len(bodyColors)]

			// calculate position in the byte slice
			pixelPos := j*width*3 + k*3

			// get original pixel colors directly from the byte slice
			b, g, r := imgData[pixelPos+0], imgData[pixelPos+1], imgData[pixelPos+2]

			// calculate blended colors based on alpha transparency
			imgData[pixelPos+0] = uint8(float32(b)*(1-alpha) + float32(clr.B)*alpha)
			imgData[pixelPos+1] = uint8(float32(g)*(1-alpha) + float32(clr.G)*alpha)
			imgData[pixelPos+2] = uint8(float32(r)*(1-alpha) + float32(clr.R)*alpha)
		}
	}

	// copy back to the original mat
	tmpImg, _ := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC3, imgData)
	defer tmpImg.Close()
	tmpImg.CopyTo(img)
}

// Outline draws a traced body outline polygon, as produced by the mask
// package, colored for the body
func Outline(img *gocv.Mat, polygon []image.Point, bodyID uint32, lineThickness int) {

	if len(polygon) < 2 {
		return
	}

	clr := BodyColor(bodyID)

	for i := 1; i < len(polygon); i++ {
		gocv.Line(img, polygon[i-1], polygon[i], clr, lineThickness)
	}

	// close the polygon
	gocv.Line(img, polygon[len(polygon)-1], polygon[0], clr, lineThickness)
}
