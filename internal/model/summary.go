package model

import (
	"fmt"
	"strings"

	"github.com/born-ml/born/tensor"

	"github.com/born-ml/deep/internal/layer"
)

// Summary renders a table of the compiled model: one row per layer with its
// type, output shape in user-facing order and weight count, then totals.
func (s *Sequential[B]) Summary() (string, error) {
	if !s.compiled {
		return "", ErrNotCompiled
	}

	var b strings.Builder
	rule := strings.Repeat("_", 65)
	doubleRule := strings.Repeat("=", 65)

	b.WriteString("Model: Sequential\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "%-29s%-26s%s\n", "Layer (type)", "Output Shape", "Param #")
	b.WriteString(doubleRule + "\n")

	total, trainable := 0, 0
	var inShape tensor.Shape
	for i, l := range s.layers {
		outShape := s.outputShapes[i]
		count := paramCountAt(l, inShape)
		total += count
		if l.IsTrainable() {
			trainable += count
		}
		fmt.Fprintf(&b, "%-29s%-26s%d\n",
			fmt.Sprintf("%s (%s)", l.Name(), typeName(l)),
			displayShape(outShape),
			count)
		inShape = outShape
	}

	b.WriteString(doubleRule + "\n")
	fmt.Fprintf(&b, "Total params: %d\n", total)
	fmt.Fprintf(&b, "Trainable params: %d\n", trainable)
	fmt.Fprintf(&b, "Non-trainable params: %d\n", total-trainable)
	b.WriteString(rule + "\n")
	return b.String(), nil
}

// paramCountAt derives the weight count from shapes alone, so Summary works
// before weights exist.
func paramCountAt[B TrainableBackend](l layer.Layer[B], inShape tensor.Shape) int {
	switch t := l.(type) {
	case *layer.Dense[B]:
		in := inShape[0]
		return in*t.Units() + t.Units()
	case *layer.Conv2D[B]:
		k := t.KernelSize()
		in := inShape[0]
		return t.Filters()*in*k[0]*k[1] + t.Filters()
	default:
		return 0
	}
}

func typeName[B TrainableBackend](l layer.Layer[B]) string {
	switch l.(type) {
	case *layer.Input[B]:
		return "Input"
	case *layer.Dense[B]:
		return "Dense"
	case *layer.Conv2D[B]:
		return "Conv2D"
	case *layer.MaxPool2D[B]:
		return "MaxPool2D"
	case *layer.Flatten[B]:
		return "Flatten"
	default:
		return "Layer"
	}
}

// displayShape renders an engine-order shape in the user-facing order with a
// free batch axis: [c, h, w] becomes (None, h, w, c).
func displayShape(shape tensor.Shape) string {
	switch len(shape) {
	case 3:
		return fmt.Sprintf("(None, %d, %d, %d)", shape[1], shape[2], shape[0])
	case 1:
		return fmt.Sprintf("(None, %d)", shape[0])
	default:
		dims := make([]string, len(shape))
		for i, d := range shape {
			dims[i] = fmt.Sprint(d)
		}
		return "(None, " + strings.Join(dims, ", ") + ")"
	}
}
