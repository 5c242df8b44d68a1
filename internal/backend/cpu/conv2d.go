package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/born-ml/floatbench/internal/tensor"
)

// Conv2D performs 2D convolution using im2col algorithm.
//
// Input shape: [batch, in_channels, height, width]
// Kernel shape: [out_channels, in_channels, kernel_h, kernel_w]
// Output shape: [batch, out_channels, out_h, out_w]
//
// Algorithm: Im2col
//  1. Per image, transform input patches into rows (im2col)
//  2. The kernel is already a [C_out, C_in*K_h*K_w] matrix in row-major order
//  3. GEMM: kernel · colsᵀ writes [C_out, H_out*W_out] straight into the
//     image's slice of the output
//
// Reference: "High Performance Convolutional Neural Networks for Document Processing"
// (Chellapilla et al., 2006).
func (cpu *CPUBackend) Conv2D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	// Validate input shapes
	inputShape := input.Shape()
	kernelShape := kernel.Shape()

	if len(inputShape) != 4 || len(kernelShape) != 4 {
		panic(&tensor.ShapeError{
			Op:     "conv2d",
			Shapes: []tensor.Shape{inputShape, kernelShape},
			Reason: "input must be 4D [N,C,H,W] and kernel 4D [C_out,C_in,K_h,K_w]",
		})
	}
	if stride <= 0 || padding < 0 {
		panic(fmt.Sprintf("conv2d: invalid stride %d or padding %d", stride, padding))
	}

	N := inputShape[0]     // batch size
	CIn := inputShape[1]   // input channels
	H := inputShape[2]     // input height
	W := inputShape[3]     // input width
	COut := kernelShape[0] // output channels
	CInK := kernelShape[1] // kernel input channels (must match CIn)
	KH := kernelShape[2]   // kernel height
	KW := kernelShape[3]   // kernel width

	if CIn != CInK {
		panic(&tensor.ShapeError{
			Op:     "conv2d",
			Shapes: []tensor.Shape{inputShape, kernelShape},
			Reason: fmt.Sprintf("expected input to have %d channels, but got %d channels instead", CInK, CIn),
		})
	}
	tensor.CheckSameDType("conv2d", input, kernel)

	// out_h = (H + 2*padding - KH) / stride + 1
	HOut := (H+2*padding-KH)/stride + 1
	WOut := (W+2*padding-KW)/stride + 1

	if HOut <= 0 || WOut <= 0 {
		panic(&tensor.ShapeError{
			Op:     "conv2d",
			Shapes: []tensor.Shape{inputShape, kernelShape},
			Reason: fmt.Sprintf("kernel size can't be greater than padded input size (output %dx%d)", HOut, WOut),
		})
	}

	if input.DType().IsReduced() {
		return narrow(cpu.Conv2D(widen(input), widen(kernel), stride, padding), input.DType())
	}

	output, err := tensor.NewRaw(tensor.Shape{N, COut, HOut, WOut}, input.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("conv2d: failed to create output tensor: %v", err))
	}

	g := convGeometry{N: N, C: CIn, H: H, W: W, KH: KH, KW: KW, HOut: HOut, WOut: WOut, stride: stride, padding: padding}
	switch input.DType() {
	case tensor.Float32:
		conv2dFloat32(output.AsFloat32(), input.AsFloat32(), kernel.AsFloat32(), COut, g)
	case tensor.Float64:
		conv2dFloat64(output.AsFloat64(), input.AsFloat64(), kernel.AsFloat64(), COut, g)
	default:
		panic(fmt.Sprintf("conv2d: unsupported dtype %s", input.DType()))
	}

	return output
}

// convGeometry holds the sizes shared by im2col and the GEMM step.
type convGeometry struct {
	N, C, H, W      int
	KH, KW          int
	HOut, WOut      int
	stride, padding int
}

func (g convGeometry) colWidth() int  { return g.C * g.KH * g.KW }
func (g convGeometry) colHeight() int { return g.HOut * g.WOut }

func conv2dFloat32(out, in, kernel []float32, cOut int, g convGeometry) {
	cols := make([]float32, g.colHeight()*g.colWidth())
	imageSize := g.C * g.H * g.W
	outSize := cOut * g.colHeight()

	k := blas32.General{Rows: cOut, Cols: g.colWidth(), Stride: g.colWidth(), Data: kernel}
	for n := 0; n < g.N; n++ {
		im2col(cols, in[n*imageSize:(n+1)*imageSize], g)
		blas32.Gemm(blas.NoTrans, blas.Trans, 1,
			k,
			blas32.General{Rows: g.colHeight(), Cols: g.colWidth(), Stride: g.colWidth(), Data: cols},
			0,
			blas32.General{Rows: cOut, Cols: g.colHeight(), Stride: g.colHeight(), Data: out[n*outSize : (n+1)*outSize]},
		)
	}
}

func conv2dFloat64(out, in, kernel []float64, cOut int, g convGeometry) {
	cols := make([]float64, g.colHeight()*g.colWidth())
	imageSize := g.C * g.H * g.W
	outSize := cOut * g.colHeight()

	k := blas64.General{Rows: cOut, Cols: g.colWidth(), Stride: g.colWidth(), Data: kernel}
	for n := 0; n < g.N; n++ {
		im2col(cols, in[n*imageSize:(n+1)*imageSize], g)
		blas64.Gemm(blas.NoTrans, blas.Trans, 1,
			k,
			blas64.General{Rows: g.colHeight(), Cols: g.colWidth(), Stride: g.colWidth(), Data: cols},
			0,
			blas64.General{Rows: cOut, Cols: g.colHeight(), Stride: g.colHeight(), Data: out[n*outSize : (n+1)*outSize]},
		)
	}
}

// im2col transforms one [C, H, W] image into a column matrix
// [H_out * W_out, C * K_h * K_w].
//
// Each row of cols corresponds to one output position and holds the
// flattened input patch under the kernel; positions in the padding are zero.
func im2col[T floating](cols, image []T, g convGeometry) {
	row := 0
	for outH := 0; outH < g.HOut; outH++ {
		for outW := 0; outW < g.WOut; outW++ {
			// Top-left corner in input space
			hStart := outH*g.stride - g.padding
			wStart := outW*g.stride - g.padding

			idx := row * g.colWidth()
			for c := 0; c < g.C; c++ {
				for kh := 0; kh < g.KH; kh++ {
					h := hStart + kh
					for kw := 0; kw < g.KW; kw++ {
						w := wStart + kw
						if h >= 0 && h < g.H && w >= 0 && w < g.W {
							cols[idx] = image[c*g.H*g.W+h*g.W+w]
						} else {
							cols[idx] = 0
						}
						idx++
					}
				}
			}
			row++
		}
	}
}
