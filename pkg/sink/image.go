// Copyright 2026 LiveKit, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sink

import (
	"image"
	"image/png"
	"os"

	"github.com/livekit/framegrab/pkg/device"
	"github.com/livekit/framegrab/pkg/errors"
	"github.com/livekit/framegrab/pkg/logger"
)

// save converts the owned frame copy to a displayable pixel format and writes
// it to the job's destination. Width, height, and bit depth are derived from
// the converted image.
func (w *Worker) save(job SaveJob) error {
	img, err := convertBGR8(job.Frame)
	if err != nil {
		return err
	}

	bounds := img.Bounds()
	bitsPerPixel := len(img.Pix) / (bounds.Dx() * bounds.Dy()) * 8
	logger.Debugw("prepared image parameters",
		"width", bounds.Dx(),
		"height", bounds.Dy(),
		"bitsPerPixel", bitsPerPixel,
	)

	f, err := os.Create(job.Path)
	if err != nil {
		return err
	}

	err = png.Encode(f, img)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}

// convertBGR8 converts packed BGR8 pixel data into an RGBA image.
func convertBGR8(f *device.Frame) (*image.RGBA, error) {
	if f == nil || f.Width <= 0 || f.Height <= 0 {
		return nil, errors.ErrInvalidFrame("dimensions")
	}
	if len(f.Data) < f.Width*f.Height*3 {
		return nil, errors.ErrInvalidFrame("pixel data")
	}

	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		src := y * f.Width * 3
		dst := y * img.Stride
		for x := 0; x < f.Width; x++ {
			img.Pix[dst] = f.Data[src+2]   // R
			img.Pix[dst+1] = f.Data[src+1] // G
			img.Pix[dst+2] = f.Data[src]   // B
			img.Pix[dst+3] = 0xff
			src += 3
			dst += 4
		}
	}
	return img, nil
}
