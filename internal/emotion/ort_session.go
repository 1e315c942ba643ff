package emotion

import (
	"context"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

const (
	ortInputName  = "input"
	ortOutputName = "output"
)

var (
	ortEnvOnce sync.Once
	ortEnvErr  error
)

func initORTEnvironment() error {
	ortEnvOnce.Do(func() {
		if libPath := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH"); libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		ortEnvErr = ort.InitializeEnvironment()
	})
	return ortEnvErr
}

type ortSession struct {
	session *ort.DynamicAdvancedSession
}

// NewORTSession opens the exported BiLSTM graph. The artifact takes a
// [1, 80] int32 id tensor and emits one float score per local label.
func NewORTSession(modelPath string) (InferenceSession, error) {
	if err := initORTEnvironment(); err != nil {
		return nil, fmt.Errorf("[ORTSession] failed to initialize onnxruntime: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{ortInputName}, []string{ortOutputName}, nil)
	if err != nil {
		return nil, fmt.Errorf("[ORTSession] failed to open model %s: %w", modelPath, err)
	}

	return &ortSession{session: session}, nil
}

func (s *ortSession) Run(ctx context.Context, ids []int32) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	input, err := ort.NewTensor(ort.NewShape(1, MaxSequenceLength), ids)
	if err != nil {
		return nil, fmt.Errorf("[ORTSession] failed to build input tensor: %w", err)
	}
	defer input.Destroy()

	outputs := []ort.Value{nil}
	if err := s.session.Run([]ort.Value{input}, outputs); err != nil {
		return nil, fmt.Errorf("[ORTSession] inference failed: %w", err)
	}

	tensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		outputs[0].Destroy()
		return nil, fmt.Errorf("[ORTSession] unexpected output tensor type")
	}
	defer tensor.Destroy()

	return append([]float32(nil), tensor.GetData()...), nil
}
