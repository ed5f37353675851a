package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"gonum.org/v1/gonum/mat"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/dataset"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/orchestrator"
)

// #region float-encoding
func encodeFloats(v []float64) []byte {
	buf := make([]byte, len(v)*8)
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

func decodeFloats(b []byte) []float64 {
	v := make([]float64, len(b)/8)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return v
}
// #endregion float-encoding

// #region matrix-encoding
// decodeMatrix rebuilds the stored matrix from its row-major cells.
func decodeMatrix(b []byte, rows, cols int, isVector bool) (mat.Matrix, error) {
	cells := decodeFloats(b)
	if len(cells) != rows*cols {
		return nil, fmt.Errorf("decode matrix: %d cells for %dx%d", len(cells), rows, cols)
	}
	if len(cells) == 0 {
		return &mat.Dense{}, nil
	}
	if isVector {
		return dataset.FromValues(cells)
	}
	return mat.NewDense(rows, cols, cells), nil
}
// #endregion matrix-encoding

// #region payload-encoding
// encodePayload snapshots the full result as a protobuf Struct keyed by the
// result's JSON field names.
func encodePayload(res orchestrator.Result) ([]byte, error) {
	raw, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	b, err := proto.MarshalOptions{Deterministic: true}.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return b, nil
}

func decodePayload(b []byte) (orchestrator.Result, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(b, &st); err != nil {
		return orchestrator.Result{}, fmt.Errorf("decode payload: %w", err)
	}
	raw, err := json.Marshal(st.AsMap())
	if err != nil {
		return orchestrator.Result{}, fmt.Errorf("decode payload: %w", err)
	}
	var res orchestrator.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return orchestrator.Result{}, fmt.Errorf("decode payload: %w", err)
	}
	return res, nil
}
// #endregion payload-encoding
