package dataset

import (
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MNIST IDX file magics.
const (
	idxImagesMagic = 2051
	idxLabelsMagic = 2049
)

// MNIST file names as distributed (gzipped IDX).
const (
	mnistTrainImages = "train-images-idx3-ubyte.gz"
	mnistTrainLabels = "train-labels-idx1-ubyte.gz"
	mnistTestImages  = "t10k-images-idx3-ubyte.gz"
	mnistTestLabels  = "t10k-labels-idx1-ubyte.gz"
)

// CreateTrainAndTestDatasets loads the MNIST train and test splits from
// dataDir. Both gzipped and already-decompressed IDX files are accepted;
// pixels are normalized to [0, 1] and labels are float32-encoded digits.
func CreateTrainAndTestDatasets(dataDir string) (train, test *Dataset, err error) {
	train, err = loadMNISTSplit(dataDir, mnistTrainImages, mnistTrainLabels)
	if err != nil {
		return nil, nil, fmt.Errorf("mnist train split: %w", err)
	}
	test, err = loadMNISTSplit(dataDir, mnistTestImages, mnistTestLabels)
	if err != nil {
		return nil, nil, fmt.Errorf("mnist test split: %w", err)
	}
	return train, test, nil
}

func loadMNISTSplit(dataDir, imagesName, labelsName string) (*Dataset, error) {
	return LoadMNIST(filepath.Join(dataDir, imagesName), filepath.Join(dataDir, labelsName))
}

// LoadMNIST reads one MNIST split from an IDX image file and its label file.
func LoadMNIST(imagesPath, labelsPath string) (*Dataset, error) {
	images, err := readIDXImages(imagesPath)
	if err != nil {
		return nil, err
	}
	labels, err := readIDXLabels(labelsPath)
	if err != nil {
		return nil, err
	}
	if len(images) != len(labels) {
		return nil, fmt.Errorf("image count (%d) != label count (%d)", len(images), len(labels))
	}

	x := make([][]float32, len(images))
	y := make([]float32, len(labels))
	for i := range images {
		row := make([]float32, len(images[i]))
		for j, pixel := range images[i] {
			row[j] = float32(pixel) / 255.0
		}
		x[i] = row
		y[i] = float32(labels[i])
	}
	return New(x, y)
}

// openIDX opens an IDX file, falling back to the decompressed name when the
// gzipped one is absent.
func openIDX(filename string) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil && strings.HasSuffix(filename, ".gz") {
		file, err = os.Open(strings.TrimSuffix(filename, ".gz"))
		if err == nil {
			return file, nil
		}
	}
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(filename, ".gz") {
		return file, nil
	}
	gz, err := gzip.NewReader(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	return &gzipReadCloser{gz: gz, file: file}, nil
}

type gzipReadCloser struct {
	gz   *gzip.Reader
	file *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gzipReadCloser) Close() error {
	gzErr := g.gz.Close()
	if err := g.file.Close(); err != nil {
		return err
	}
	return gzErr
}

func readIDXImages(filename string) ([][]byte, error) {
	r, err := openIDX(filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var magic uint32
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", err)
	}
	if magic != idxImagesMagic {
		return nil, fmt.Errorf("invalid magic number: got %d, want %d", magic, idxImagesMagic)
	}

	var numImages, numRows, numCols uint32
	if err := binary.Read(r, binary.BigEndian, &numImages); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &numRows); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &numCols); err != nil {
		return nil, err
	}

	imageSize := int(numRows * numCols)
	images := make([][]byte, numImages)
	for i := range images {
		images[i] = make([]byte, imageSize)
		if _, err := io.ReadFull(r, images[i]); err != nil {
			return nil, fmt.Errorf("failed to read image %d: %w", i, err)
		}
	}
	return images, nil
}

func readIDXLabels(filename string) ([]byte, error) {
	r, err := openIDX(filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var magic uint32
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", err)
	}
	if magic != idxLabelsMagic {
		return nil, fmt.Errorf("invalid magic number: got %d, want %d", magic, idxLabelsMagic)
	}

	var numLabels uint32
	if err := binary.Read(r, binary.BigEndian, &numLabels); err != nil {
		return nil, err
	}

	labels := make([]byte, numLabels)
	if _, err := io.ReadFull(r, labels); err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	return labels, nil
}
