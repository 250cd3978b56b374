package model

// WeightReader resolves named weight arrays from a trained-model file. Read
// returns the flat row-major values and the stored dims for the dataset at
// path, e.g. "conv2d_1/conv2d_1/kernel:0".
type WeightReader interface {
	Read(path string) (values []float32, dims []int, err error)
}
