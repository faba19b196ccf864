package attachment

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

const (
	thumbnailSize    = 320
	thumbnailQuality = 80
)

type imageInspector struct{}

// Inspect records the oriented dimensions and renders a JPEG thumbnail.
// Phone photos of a backyard usually carry an EXIF rotation.
func (imageInspector) Inspect(data []byte, s *Summary) error {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()
	s.Width = bounds.Dx()
	s.Height = bounds.Dy()

	thumb := imaging.Fit(img, thumbnailSize, thumbnailSize, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(thumbnailQuality)); err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}
	s.Thumbnail = buf.Bytes()
	return nil
}
