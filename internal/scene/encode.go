package scene

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/pointscape-data/flyover.report/internal/splat"
)

// EncodePoints writes a full-precision checkpoint body. Used by the
// dataset conversion tooling and tests.
func EncodePoints(w io.Writer, cloud *splat.Cloud) error {
	if err := cloud.Validate(); err != nil {
		return fmt.Errorf("encode points: %w", err)
	}
	h := checkpointHeader{
		Magic:   magicPoints,
		Version: checkpointVersion,
		Count:   uint32(cloud.Len()),
		FeatDim: uint32(cloud.FeatDim),
	}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("encode points: %w", err)
	}
	if err := writePositionsOpacities(w, cloud); err != nil {
		return fmt.Errorf("encode points: %w", err)
	}
	if err := writeFloat32s(w, cloud.Feats); err != nil {
		return fmt.Errorf("encode points: %w", err)
	}
	return nil
}

// EncodePointsVQ writes a vector-quantized checkpoint body, deriving a
// per-channel uint8 codebook from the feature value range.
func EncodePointsVQ(w io.Writer, cloud *splat.Cloud) error {
	if err := cloud.Validate(); err != nil {
		return fmt.Errorf("encode points vq: %w", err)
	}
	h := checkpointHeader{
		Magic:   magicPointsVQ,
		Version: checkpointVersion,
		Count:   uint32(cloud.Len()),
		FeatDim: uint32(cloud.FeatDim),
	}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("encode points vq: %w", err)
	}
	if err := writePositionsOpacities(w, cloud); err != nil {
		return fmt.Errorf("encode points vq: %w", err)
	}

	featDim := cloud.FeatDim
	offset := make([]float64, featDim)
	scale := make([]float64, featDim)
	for ch := 0; ch < featDim; ch++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		for i := 0; i < cloud.Len(); i++ {
			v := cloud.Feats[i*featDim+ch]
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		if cloud.Len() == 0 {
			lo, hi = 0, 0
		}
		offset[ch] = lo
		if hi > lo {
			scale[ch] = (hi - lo) / 255.0
		}
	}

	if err := writeFloat32s(w, scale); err != nil {
		return fmt.Errorf("encode points vq: %w", err)
	}
	if err := writeFloat32s(w, offset); err != nil {
		return fmt.Errorf("encode points vq: %w", err)
	}

	codes := make([]uint8, cloud.Len()*featDim)
	for i := range codes {
		ch := i % featDim
		if scale[ch] == 0 {
			continue
		}
		q := math.Round((cloud.Feats[i] - offset[ch]) / scale[ch])
		if q < 0 {
			q = 0
		}
		if q > 255 {
			q = 255
		}
		codes[i] = uint8(q)
	}
	if err := binary.Write(w, binary.LittleEndian, codes); err != nil {
		return fmt.Errorf("encode points vq: %w", err)
	}
	return nil
}

func writePositionsOpacities(w io.Writer, cloud *splat.Cloud) error {
	flat := make([]float64, 0, cloud.Len()*3)
	for _, p := range cloud.Positions {
		flat = append(flat, p[0], p[1], p[2])
	}
	if err := writeFloat32s(w, flat); err != nil {
		return err
	}
	return writeFloat32s(w, cloud.Opacities)
}

func writeFloat32s(w io.Writer, vals []float64) error {
	buf := make([]float32, len(vals))
	for i, v := range vals {
		buf[i] = float32(v)
	}
	return binary.Write(w, binary.LittleEndian, buf)
}
