package dataset

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIDXImages(t *testing.T, path string, images [][]byte, rows, cols int) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(idxImagesMagic)))
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(len(images))))
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(rows)))
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(cols)))
	for _, img := range images {
		buf.Write(img)
	}
	writeMaybeGzipped(t, path, buf.Bytes())
}

func writeIDXLabels(t *testing.T, path string, labels []byte) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(idxLabelsMagic)))
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(len(labels))))
	buf.Write(labels)
	writeMaybeGzipped(t, path, buf.Bytes())
}

func writeMaybeGzipped(t *testing.T, path string, data []byte) {
	t.Helper()
	if filepath.Ext(path) == ".gz" {
		var gzBuf bytes.Buffer
		gz := gzip.NewWriter(&gzBuf)
		_, err := gz.Write(data)
		require.NoError(t, err)
		require.NoError(t, gz.Close())
		data = gzBuf.Bytes()
	}
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func fakeMNISTDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	trainImages := [][]byte{
		bytes.Repeat([]byte{255}, 4),
		bytes.Repeat([]byte{0}, 4),
		bytes.Repeat([]byte{51}, 4),
	}
	writeIDXImages(t, filepath.Join(dir, mnistTrainImages), trainImages, 2, 2)
	writeIDXLabels(t, filepath.Join(dir, mnistTrainLabels), []byte{7, 0, 3})

	testImages := [][]byte{bytes.Repeat([]byte{128}, 4)}
	writeIDXImages(t, filepath.Join(dir, mnistTestImages), testImages, 2, 2)
	writeIDXLabels(t, filepath.Join(dir, mnistTestLabels), []byte{9})

	return dir
}

func TestCreateTrainAndTestDatasets(t *testing.T) {
	dir := fakeMNISTDir(t)

	train, test, err := CreateTrainAndTestDatasets(dir)
	require.NoError(t, err)

	assert.Equal(t, 3, train.Count())
	assert.Equal(t, 4, train.FeatureDim())
	assert.Equal(t, 1, test.Count())

	row, label := train.Sample(0)
	assert.Equal(t, float32(7), label)
	for _, v := range row {
		assert.InDelta(t, 1.0, float64(v), 1e-6)
	}

	row, label = train.Sample(2)
	assert.Equal(t, float32(3), label)
	assert.InDelta(t, 51.0/255.0, float64(row[0]), 1e-6)
}

func TestLoadMNISTDecompressedFallback(t *testing.T) {
	dir := t.TempDir()

	// Write plain IDX files under the ungzipped names.
	writeIDXImages(t, filepath.Join(dir, "train-images-idx3-ubyte"), [][]byte{{0, 0, 0, 0}}, 2, 2)
	writeIDXLabels(t, filepath.Join(dir, "train-labels-idx1-ubyte"), []byte{1})
	writeIDXImages(t, filepath.Join(dir, "t10k-images-idx3-ubyte"), [][]byte{{0, 0, 0, 0}}, 2, 2)
	writeIDXLabels(t, filepath.Join(dir, "t10k-labels-idx1-ubyte"), []byte{2})

	train, test, err := CreateTrainAndTestDatasets(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, train.Count())
	assert.Equal(t, 1, test.Count())
}

func TestLoadMNISTBadMagic(t *testing.T) {
	dir := fakeMNISTDir(t)

	// Corrupt the train images magic.
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(123)))
	writeMaybeGzipped(t, filepath.Join(dir, mnistTrainImages), buf.Bytes())

	_, _, err := CreateTrainAndTestDatasets(dir)
	assert.Error(t, err)
}

func TestLoadMNISTCountMismatch(t *testing.T) {
	dir := fakeMNISTDir(t)
	writeIDXLabels(t, filepath.Join(dir, mnistTrainLabels), []byte{1, 2})

	_, _, err := CreateTrainAndTestDatasets(dir)
	assert.Error(t, err)
}
