package keras

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/backend/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/deep/internal/layer"
)

type Backend = *autodiff.Backend[*cpu.Backend]

const lenetJSON = `{
  "class_name": "Sequential",
  "config": {
    "name": "lenet",
    "layers": [
      {
        "class_name": "InputLayer",
        "config": {"name": "input_1", "batch_input_shape": [null, 28, 28, 1]}
      },
      {
        "class_name": "Conv2D",
        "config": {
          "name": "conv2d_1",
          "filters": 6,
          "kernel_size": [5, 5],
          "strides": [1, 1],
          "padding": "same",
          "activation": "tanh",
          "kernel_initializer": {"class_name": "GlorotNormal", "config": {"seed": 12}},
          "bias_initializer": {"class_name": "GlorotNormal", "config": {"seed": 12}}
        }
      },
      {
        "class_name": "MaxPooling2D",
        "config": {"name": "max_pooling2d_1", "pool_size": [2, 2], "strides": [2, 2]}
      },
      {
        "class_name": "Flatten",
        "config": {"name": "flatten_1"}
      },
      {
        "class_name": "Dense",
        "config": {
          "name": "dense_1",
          "units": 10,
          "activation": "linear",
          "kernel_initializer": {"class_name": "GlorotNormal", "config": {"seed": null}},
          "bias_initializer": {"class_name": "LecunNormal", "config": {"seed": 12}}
        }
      }
    ]
  }
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSequential(t *testing.T) {
	backend := autodiff.New(cpu.New())

	m, err := LoadSequential(backend, writeConfig(t, lenetJSON))
	require.NoError(t, err)

	layers := m.Layers()
	require.Len(t, layers, 5)

	input := layers[0].(*layer.Input[Backend])
	assert.Equal(t, []int{28, 28, 1}, input.Dims())
	assert.Equal(t, "input_1", input.Name())

	conv := layers[1].(*layer.Conv2D[Backend])
	assert.Equal(t, 6, conv.Filters())
	assert.Equal(t, [2]int{5, 5}, conv.KernelSize())
	assert.Equal(t, layer.ActivationTanh, conv.Activation())

	pool := layers[2].(*layer.MaxPool2D[Backend])
	assert.Equal(t, 2, pool.PoolSize())
	assert.Equal(t, 2, pool.Stride())

	_, ok := layers[3].(*layer.Flatten[Backend])
	assert.True(t, ok)

	dense := layers[4].(*layer.Dense[Backend])
	assert.Equal(t, 10, dense.Units())
	assert.Equal(t, layer.ActivationLinear, dense.Activation())
}

func TestLoadModelConfiguration(t *testing.T) {
	config, err := LoadModelConfiguration(writeConfig(t, lenetJSON))
	require.NoError(t, err)
	assert.Equal(t, "Sequential", config.ClassName)
	assert.Equal(t, "lenet", config.Config.Name)
	assert.Len(t, config.Config.Layers, 5)

	_, err = LoadModelConfiguration(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)

	_, err = LoadModelConfiguration(writeConfig(t, "{not json"))
	assert.Error(t, err)
}

func TestUnsupportedInitializer(t *testing.T) {
	backend := autodiff.New(cpu.New())

	config := `{
	  "class_name": "Sequential",
	  "config": {"name": "m", "layers": [
	    {"class_name": "InputLayer", "config": {"name": "input_1", "batch_input_shape": [null, 4]}},
	    {"class_name": "Dense", "config": {
	      "name": "dense_1", "units": 2, "activation": "relu",
	      "kernel_initializer": {"class_name": "GlorotNormal", "config": {"seed": 12}},
	      "bias_initializer": {"class_name": "Zeros", "config": {}}
	    }}
	  ]}
	}`

	_, err := LoadSequential(backend, writeConfig(t, config))
	require.Error(t, err)
	assert.Equal(t, "Zeros is not supported yet!", err.Error())
}

func TestUnsupportedLayerClass(t *testing.T) {
	backend := autodiff.New(cpu.New())

	config := `{
	  "class_name": "Sequential",
	  "config": {"name": "m", "layers": [
	    {"class_name": "InputLayer", "config": {"name": "input_1", "batch_input_shape": [null, 4]}},
	    {"class_name": "Dropout", "config": {"name": "dropout_1"}}
	  ]}
	}`

	_, err := LoadSequential(backend, writeConfig(t, config))
	require.Error(t, err)
	assert.Equal(t, "Dropout is not supported yet!", err.Error())
}

func TestUnsupportedActivation(t *testing.T) {
	backend := autodiff.New(cpu.New())

	config := `{
	  "class_name": "Sequential",
	  "config": {"name": "m", "layers": [
	    {"class_name": "InputLayer", "config": {"name": "input_1", "batch_input_shape": [null, 4]}},
	    {"class_name": "Dense", "config": {
	      "name": "dense_1", "units": 2, "activation": "selu",
	      "kernel_initializer": {"class_name": "GlorotNormal", "config": {"seed": 12}},
	      "bias_initializer": {"class_name": "GlorotNormal", "config": {"seed": 12}}
	    }}
	  ]}
	}`

	_, err := LoadSequential(backend, writeConfig(t, config))
	require.Error(t, err)
	assert.Equal(t, "selu is not supported yet!", err.Error())
}

func TestAnisotropicStridesRejected(t *testing.T) {
	backend := autodiff.New(cpu.New())

	config := `{
	  "class_name": "Sequential",
	  "config": {"name": "m", "layers": [
	    {"class_name": "InputLayer", "config": {"name": "input_1", "batch_input_shape": [null, 8, 8, 1]}},
	    {"class_name": "Conv2D", "config": {
	      "name": "conv2d_1", "filters": 2, "kernel_size": [3, 3], "strides": [1, 2],
	      "padding": "valid", "activation": "relu",
	      "kernel_initializer": {"class_name": "GlorotNormal", "config": {"seed": 12}},
	      "bias_initializer": {"class_name": "GlorotNormal", "config": {"seed": 12}}
	    }}
	  ]}
	}`

	_, err := LoadSequential(backend, writeConfig(t, config))
	assert.Error(t, err)
}

func TestNonSequentialRejected(t *testing.T) {
	backend := autodiff.New(cpu.New())

	config := `{"class_name": "Functional", "config": {"name": "m", "layers": []}}`
	_, err := LoadSequential(backend, writeConfig(t, config))
	assert.Error(t, err)
}

func TestDefaultSeedIsStable(t *testing.T) {
	backend := autodiff.New(cpu.New())

	first, err := LoadSequential(backend, writeConfig(t, lenetJSON))
	require.NoError(t, err)
	second, err := LoadSequential(backend, writeConfig(t, lenetJSON))
	require.NoError(t, err)

	// dense_1's kernel initializer has a null seed; both imports fall back to
	// the same default so their weights agree.
	buildAll := func(m interface{ Layers() []layer.Layer[Backend] }) []float32 {
		layers := m.Layers()
		dense := layers[4].(*layer.Dense[Backend])
		require.NoError(t, dense.Build(backend, []int{150}))
		return dense.Kernel().Tensor().Raw().AsFloat32()
	}
	assert.Equal(t, buildAll(first), buildAll(second))
}
