package embed

import (
	"context"
	"fmt"
	"sync"

	"github.com/buckhx/gobert/tokenize"
	"github.com/buckhx/gobert/tokenize/vocab"
	"github.com/gomlx/go-huggingface/hub"
	"github.com/gomlx/gomlx/backends"
	"github.com/gomlx/gomlx/pkg/core/dtypes"
	. "github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	mlcontext "github.com/gomlx/gomlx/pkg/ml/context"
	"github.com/gomlx/onnx-gomlx/onnx"
)

// The GoMLX backend must be initialized once per process, so the native
// encoder is a process-wide singleton. Every caller receives the instance
// built for the first requested model.
var (
	nativeInstance *NativeEncoder
	nativeOnce     sync.Once
	nativeErr      error
)

const nativeDimensions = 384

// NativeEncoder runs sentence-transformers/all-MiniLM-L6-v2 locally through
// GoMLX: BERT WordPiece tokenization via gobert, the ONNX transformer via
// onnx-gomlx, mean pooling over last_hidden_state. Model and vocabulary are
// fetched from the HuggingFace hub on first use and cached under the hub's
// default cache directory. Safe for concurrent use after construction.
type NativeEncoder struct {
	model     *onnx.Model
	ctx       *mlcontext.Context
	backend   backends.Backend
	tokenizer tokenize.FeatureFactory
	mu        sync.RWMutex
}

func NewNativeEncoder(modelRepo string) (*NativeEncoder, error) {
	nativeOnce.Do(func() {
		backend, err := backends.New()
		if err != nil {
			nativeErr = fmt.Errorf("failed to initialize gomlx backend: %w", err)
			return
		}

		repo := hub.New(modelRepo)

		modelPath, err := repo.DownloadFile("onnx/model.onnx")
		if err != nil {
			nativeErr = fmt.Errorf("failed to download %s model: %w", modelRepo, err)
			return
		}

		model, err := onnx.ReadFile(modelPath)
		if err != nil {
			nativeErr = fmt.Errorf("failed to load ONNX model from %s: %w", modelPath, err)
			return
		}

		mlctx := mlcontext.New()
		if err := model.VariablesToContext(mlctx); err != nil {
			nativeErr = fmt.Errorf("failed to extract model variables: %w", err)
			return
		}

		vocabPath, err := repo.DownloadFile("vocab.txt")
		if err != nil {
			nativeErr = fmt.Errorf("failed to download vocabulary: %w", err)
			return
		}

		vocabDict, err := vocab.FromFile(vocabPath)
		if err != nil {
			nativeErr = fmt.Errorf("failed to load vocabulary from %s: %w", vocabPath, err)
			return
		}

		bertTokenizer := tokenize.NewTokenizer(vocabDict,
			tokenize.WithLower(true),
			tokenize.WithUnknownToken("[UNK]"))

		nativeInstance = &NativeEncoder{
			model:   model,
			ctx:     mlctx,
			backend: backend,
			tokenizer: tokenize.FeatureFactory{
				Tokenizer: bertTokenizer,
				SeqLen:    256,
			},
		}
	})

	if nativeErr != nil {
		return nil, nativeErr
	}
	return nativeInstance, nil
}

func (e *NativeEncoder) Dimensions() int {
	return nativeDimensions
}

func (e *NativeEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	feature := e.tokenizer.Feature(text)
	if len(feature.TokenIDs) == 0 {
		return nil, fmt.Errorf("tokenization produced no tokens")
	}

	// The tokenizer emits int32; the ONNX model wants int64.
	inputIDs := make([]int64, len(feature.TokenIDs))
	attentionMask := make([]int64, len(feature.Mask))
	tokenTypeIDs := make([]int64, len(feature.TypeIDs))
	for i := range feature.TokenIDs {
		inputIDs[i] = int64(feature.TokenIDs[i])
		attentionMask[i] = int64(feature.Mask[i])
		tokenTypeIDs[i] = int64(feature.TypeIDs[i])
	}

	batchInputIDs := [][]int64{inputIDs}
	batchAttentionMask := [][]int64{attentionMask}
	batchTokenTypeIDs := [][]int64{tokenTypeIDs}

	result, err := mlcontext.ExecOnce(e.backend, e.ctx, func(mlctx *mlcontext.Context, inputs []*Node) *Node {
		g := inputs[0].Graph()

		inputIDsNode := inputs[0]
		attentionMaskNode := inputs[1]
		tokenTypeIDsNode := inputs[2]

		outputs := e.model.CallGraph(mlctx, g, map[string]*Node{
			"input_ids":      inputIDsNode,
			"attention_mask": attentionMaskNode,
			"token_type_ids": tokenTypeIDsNode,
		}, "last_hidden_state")

		lastHiddenState := outputs[0]

		// Mean pooling over the sequence dimension, with padding positions
		// masked out of both the sum and the divisor.
		maskExpanded := ExpandDims(attentionMaskNode, -1)
		maskExpanded = ConvertType(maskExpanded, lastHiddenState.DType())

		maskedHiddenState := Mul(lastHiddenState, maskExpanded)
		sumHiddenState := ReduceSum(maskedHiddenState, 1)

		sumMask := ReduceSum(maskExpanded, 1)
		sumMask = Add(sumMask, Const(g, float32(1e-9)))

		return Div(sumHiddenState, sumMask)
	}, batchInputIDs, batchAttentionMask, batchTokenTypeIDs)
	if err != nil {
		return nil, fmt.Errorf("model execution failed: %w", err)
	}

	embedding, err := firstRowFloat32(result)
	if err != nil {
		return nil, err
	}
	if len(embedding) != nativeDimensions {
		return nil, fmt.Errorf("unexpected embedding dimension: got %d, want %d", len(embedding), nativeDimensions)
	}

	return embedding, nil
}

// firstRowFloat32 extracts the single row of a [1, N] result tensor.
func firstRowFloat32(tensor *tensors.Tensor) ([]float32, error) {
	shape := tensor.Shape()
	if shape.Rank() != 2 || shape.Dimensions[0] != 1 {
		return nil, fmt.Errorf("expected result shape [1, N], got %v", shape)
	}

	dims := shape.Dimensions[1]
	out := make([]float32, dims)

	switch tensor.DType() {
	case dtypes.Float32:
		data, err := tensors.CopyFlatData[float32](tensor)
		if err != nil {
			return nil, fmt.Errorf("failed to copy tensor data: %w", err)
		}
		copy(out, data[:dims])
	case dtypes.Float64:
		data, err := tensors.CopyFlatData[float64](tensor)
		if err != nil {
			return nil, fmt.Errorf("failed to copy tensor data: %w", err)
		}
		for i := 0; i < dims; i++ {
			out[i] = float32(data[i])
		}
	default:
		return nil, fmt.Errorf("unsupported tensor dtype: %v", tensor.DType())
	}

	return out, nil
}
