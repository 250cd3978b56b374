// Package keras imports sequential model architectures from Keras JSON
// configuration files.
//
// The importer covers a closed compatibility table of layer, activation and
// initializer classes; anything outside it fails with the class name, never
// with a silent substitute.
package keras

// ModelConfig mirrors the JSON produced by Keras' model.to_json() for a
// sequential model.
type ModelConfig struct {
	ClassName string           `json:"class_name"`
	Config    SequentialConfig `json:"config"`
}

// SequentialConfig is the sequential model body: a name and an ordered layer
// list.
type SequentialConfig struct {
	Name   string        `json:"name"`
	Layers []LayerConfig `json:"layers"`
}

// LayerConfig is one layer entry: a class name plus class-dependent params.
type LayerConfig struct {
	ClassName string      `json:"class_name"`
	Config    LayerParams `json:"config"`
}

// LayerParams is the union of the per-class parameter fields the importer
// reads. Keras writes the batch axis of batch_input_shape as null.
type LayerParams struct {
	Name            string `json:"name"`
	BatchInputShape []*int `json:"batch_input_shape"`

	Units      int    `json:"units"`
	Activation string `json:"activation"`

	Filters    int    `json:"filters"`
	KernelSize []int  `json:"kernel_size"`
	Strides    []int  `json:"strides"`
	Padding    string `json:"padding"`

	PoolSize []int `json:"pool_size"`

	KernelInitializer *InitializerConfig `json:"kernel_initializer"`
	BiasInitializer   *InitializerConfig `json:"bias_initializer"`
}

// InitializerConfig names an initializer class and its seed, null when the
// file carries none.
type InitializerConfig struct {
	ClassName string `json:"class_name"`
	Config    struct {
		Seed *int64 `json:"seed"`
	} `json:"config"`
}
