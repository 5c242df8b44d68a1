package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/floatbench/internal/tensor"
)

// MaxPool2D performs 2D max pooling.
//
// Input shape:  [batch, channels, height, width]
// Output shape: [batch, channels, out_height, out_width]
//
// Where:
//
//	out_height = (height - kernelSize) / stride + 1
//	out_width = (width - kernelSize) / stride + 1
//
// Trailing rows and columns that do not fill a window are dropped.
// A NaN anywhere in a window makes that window's output NaN.
//
// Example (2x2 pool, stride=2):
//
//	Input: [[1,2,3,4],    Output: [[6,8],
//	        [5,6,7,8],             [14,16]]
//	        [9,10,11,12],
//	        [13,14,15,16]]
func (cpu *CPUBackend) MaxPool2D(input *tensor.RawTensor, kernelSize, stride int) *tensor.RawTensor {
	inputShape := input.Shape()
	if len(inputShape) != 4 {
		panic(&tensor.ShapeError{
			Op:     "maxpool2d",
			Shapes: []tensor.Shape{inputShape},
			Reason: fmt.Sprintf("expected 4D input [N,C,H,W], got %dD", len(inputShape)),
		})
	}

	N := inputShape[0] // batch size
	C := inputShape[1] // channels
	H := inputShape[2] // height
	W := inputShape[3] // width

	// Validate kernel and stride
	if kernelSize <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid kernel size %d", kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid stride %d", stride))
	}
	if kernelSize > H || kernelSize > W {
		panic(&tensor.ShapeError{
			Op:     "maxpool2d",
			Shapes: []tensor.Shape{inputShape},
			Reason: fmt.Sprintf("kernel size %d too large for input %dx%d", kernelSize, H, W),
		})
	}

	HOut := (H-kernelSize)/stride + 1
	WOut := (W-kernelSize)/stride + 1

	if input.DType().IsReduced() {
		return narrow(cpu.MaxPool2D(widen(input), kernelSize, stride), input.DType())
	}

	output, err := tensor.NewRaw(tensor.Shape{N, C, HOut, WOut}, input.DType(), cpu.Device())
	if err != nil {
		panic(fmt.Sprintf("maxpool2d: failed to create output: %v", err))
	}

	p := poolGeometry{planes: N * C, H: H, W: W, HOut: HOut, WOut: WOut, kernel: kernelSize, stride: stride}
	switch input.DType() {
	case tensor.Float32:
		maxpool2d(output.AsFloat32(), input.AsFloat32(), p)
	case tensor.Float64:
		maxpool2d(output.AsFloat64(), input.AsFloat64(), p)
	default:
		panic(fmt.Sprintf("maxpool2d: unsupported dtype %v", input.DType()))
	}

	return output
}

type poolGeometry struct {
	planes         int
	H, W           int
	HOut, WOut     int
	kernel, stride int
}

func maxpool2d[T floating](out, in []T, p poolGeometry) {
	for plane := 0; plane < p.planes; plane++ {
		// Pre-slice channel plane: eliminates plane*H*W bounds check
		channelData := in[plane*p.H*p.W : (plane+1)*p.H*p.W]

		for outH := 0; outH < p.HOut; outH++ {
			hStart := outH * p.stride

			for outW := 0; outW < p.WOut; outW++ {
				wStart := outW * p.stride

				maxVal := T(math.Inf(-1))
				for kh := 0; kh < p.kernel; kh++ {
					rowData := channelData[(hStart+kh)*p.W : (hStart+kh+1)*p.W]
					for kw := 0; kw < p.kernel; kw++ {
						val := rowData[wStart+kw]
						if val > maxVal || val != val {
							maxVal = val
						}
					}
				}

				out[(plane*p.HOut+outH)*p.WOut+outW] = maxVal
			}
		}
	}
}
