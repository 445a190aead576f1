//go:generate go run go.uber.org/mock/mockgen -source=network.go -destination=../mocks/mock_network.go -package=mocks
package letters

import (
	"errors"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// Network scores a landmark vector against every label.
type Network interface {
	Predict(input []float32) ([]float32, error)
	Close() error
}

// ONNXConfig describes a landmark classification model.
type ONNXConfig struct {
	ModelPath   string
	LibraryPath string
	InputName   string
	OutputName  string
	Features    int
	Classes     int
}

// ONNXNetwork runs an ONNX model with one [1, Features] input and one
// [1, Classes] output. Tensors are reused across calls, so Predict is
// serialised.
type ONNXNetwork struct {
	mu       sync.Mutex
	features int
	session  *ort.AdvancedSession
	input    *ort.Tensor[float32]
	output   *ort.Tensor[float32]
}

// NewONNXNetwork initialises the runtime and loads the model.
func NewONNXNetwork(cfg ONNXConfig) (*ONNXNetwork, error) {
	if cfg.Features <= 0 || cfg.Classes <= 0 {
		return nil, fmt.Errorf("invalid model shape [1,%d] -> [1,%d]", cfg.Features, cfg.Classes)
	}

	if cfg.LibraryPath != "" {
		ort.SetSharedLibraryPath(cfg.LibraryPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("initialize onnx runtime: %w", err)
	}

	n := &ONNXNetwork{features: cfg.Features}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(cfg.Features)))
	if err != nil {
		n.Close()
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	n.input = input

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(cfg.Classes)))
	if err != nil {
		n.Close()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}
	n.output = output

	session, err := ort.NewAdvancedSession(cfg.ModelPath,
		[]string{cfg.InputName}, []string{cfg.OutputName},
		[]ort.ArbitraryTensor{input}, []ort.ArbitraryTensor{output},
		nil)
	if err != nil {
		n.Close()
		return nil, fmt.Errorf("create onnx session for %s: %w", cfg.ModelPath, err)
	}
	n.session = session

	return n, nil
}

// Predict runs one inference and returns a copy of the output scores.
func (n *ONNXNetwork) Predict(input []float32) ([]float32, error) {
	if len(input) != n.features {
		return nil, fmt.Errorf("input has %d features, model expects %d", len(input), n.features)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.session == nil {
		return nil, errors.New("network is closed")
	}

	copy(n.input.GetData(), input)
	if err := n.session.Run(); err != nil {
		return nil, fmt.Errorf("inference: %w", err)
	}

	scores := n.output.GetData()
	out := make([]float32, len(scores))
	copy(out, scores)
	return out, nil
}

// Close releases the session, the tensors and the runtime environment.
func (n *ONNXNetwork) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	var errs []error
	if n.session != nil {
		errs = append(errs, n.session.Destroy())
		n.session = nil
	}
	if n.input != nil {
		errs = append(errs, n.input.Destroy())
		n.input = nil
	}
	if n.output != nil {
		errs = append(errs, n.output.Destroy())
		n.output = nil
	}
	errs = append(errs, ort.DestroyEnvironment())

	return errors.Join(errs...)
}
