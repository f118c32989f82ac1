package spec

// Transformer types.
const (
	InProc = "inproc"
	GRPC   = "grpc"
)

type TransformerSpec struct {
	Name      string         `yaml:"name"`
	Type      string         `yaml:"type"`    // "inproc" or "grpc"
	Kind      string         `yaml:"kind"`    // inproc registry kind, e.g. "sentence"
	Address   string         `yaml:"address"` // grpc only, e.g. "localhost:50051"
	TimeoutMS int            `yaml:"timeout_ms"`
	Config    map[string]any `yaml:"config"`
}

type ReaderSpec struct {
	Name   string         `yaml:"name"`
	Kind   string         `yaml:"kind"` // reader registry kind, e.g. "stdout"
	Config map[string]any `yaml:"config"`
}

type File struct {
	SchemaVersion string `yaml:"schema_version"`

	// Ordered list of transformers; order is the reduction order.
	Transformers []TransformerSpec `yaml:"transformers"`

	// Ordered list of readers; order is the dispatch priority.
	Readers []ReaderSpec `yaml:"readers"`

	// Options file seeding the engine's option tree.
	Options string `yaml:"options"`
}
