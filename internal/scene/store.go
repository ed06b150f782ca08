package scene

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pointscape-data/flyover.report/internal/splat"
)

// Checkpoint layout on disk:
//
//	<level dir>/iteration_<N>/points.bin
//
// LatestIteration is the sentinel requesting the highest numbered
// iteration directory.
const LatestIteration = -1

const iterationPrefix = "iteration_"

// pointDecoder reads one checkpoint body into a Cloud.
type pointDecoder func(r io.Reader) (*splat.Cloud, error)

// LoadLevel loads the point cloud of one scene variant. iteration
// selects the checkpoint (LatestIteration picks the newest). loadVQ
// switches to the quantized representation, which is only written for
// the newest checkpoint and therefore forces LatestIteration.
func LoadLevel(lc LevelConfig, iteration int, loadVQ bool) (*splat.Cloud, error) {
	kind := lc.Kind
	if loadVQ {
		kind = KindGaussianVQ
		iteration = LatestIteration
	}
	decode, ok := decoders[kind]
	if !ok {
		return nil, fmt.Errorf("level %s: unknown representation kind %q", lc.Name, kind)
	}

	dir, err := resolveIteration(lc.Dir, iteration)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", lc.Name, err)
	}

	f, err := os.Open(filepath.Join(dir, "points.bin"))
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", lc.Name, err)
	}
	defer f.Close()

	cloud, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("level %s: checkpoint %s: %w", lc.Name, dir, err)
	}
	if err := cloud.Validate(); err != nil {
		return nil, fmt.Errorf("level %s: checkpoint %s: %w", lc.Name, dir, err)
	}
	return cloud, nil
}

// resolveIteration returns the checkpoint directory for the requested
// iteration, scanning for the highest numbered one when the latest is
// requested.
func resolveIteration(dir string, iteration int) (string, error) {
	if iteration != LatestIteration {
		path := filepath.Join(dir, fmt.Sprintf("%s%d", iterationPrefix, iteration))
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("iteration %d: %w", iteration, err)
		}
		return path, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	best := -1
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), iterationPrefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(e.Name(), iterationPrefix))
		if err != nil {
			continue
		}
		if n > best {
			best = n
		}
	}
	if best < 0 {
		return "", fmt.Errorf("no iteration checkpoints in %s", dir)
	}
	return filepath.Join(dir, fmt.Sprintf("%s%d", iterationPrefix, best)), nil
}

// Binary checkpoint formats. Both are little-endian.
//
// Full precision ("PSPL"):
//
//	magic [4]byte, version uint32, count uint32, featDim uint32,
//	positions [count*3]float32, opacities [count]float32,
//	feats [count*featDim]float32
//
// Vector quantized ("PSVQ"):
//
//	magic [4]byte, version uint32, count uint32, featDim uint32,
//	positions [count*3]float32, opacities [count]float32,
//	scale [featDim]float32, offset [featDim]float32,
//	codes [count*featDim]uint8
var (
	magicPoints   = [4]byte{'P', 'S', 'P', 'L'}
	magicPointsVQ = [4]byte{'P', 'S', 'V', 'Q'}
)

const checkpointVersion = 1

type checkpointHeader struct {
	Magic   [4]byte
	Version uint32
	Count   uint32
	FeatDim uint32
}

func readHeader(r io.Reader, wantMagic [4]byte) (checkpointHeader, error) {
	var h checkpointHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if h.Magic != wantMagic {
		return h, fmt.Errorf("bad magic %q, want %q", h.Magic[:], wantMagic[:])
	}
	if h.Version != checkpointVersion {
		return h, fmt.Errorf("unsupported checkpoint version %d", h.Version)
	}
	return h, nil
}

func readFloat32s(r io.Reader, n int) ([]float64, error) {
	buf := make([]float32, n)
	if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i, v := range buf {
		out[i] = float64(v)
	}
	return out, nil
}

func readPositionsOpacities(r io.Reader, count int) ([][3]float64, []float64, error) {
	flat, err := readFloat32s(r, count*3)
	if err != nil {
		return nil, nil, fmt.Errorf("read positions: %w", err)
	}
	positions := make([][3]float64, count)
	for i := range positions {
		positions[i] = [3]float64{flat[i*3], flat[i*3+1], flat[i*3+2]}
	}
	opacities, err := readFloat32s(r, count)
	if err != nil {
		return nil, nil, fmt.Errorf("read opacities: %w", err)
	}
	return positions, opacities, nil
}

func decodePoints(r io.Reader) (*splat.Cloud, error) {
	h, err := readHeader(r, magicPoints)
	if err != nil {
		return nil, err
	}
	count, featDim := int(h.Count), int(h.FeatDim)

	positions, opacities, err := readPositionsOpacities(r, count)
	if err != nil {
		return nil, err
	}
	feats, err := readFloat32s(r, count*featDim)
	if err != nil {
		return nil, fmt.Errorf("read features: %w", err)
	}

	return &splat.Cloud{
		Positions: positions,
		Opacities: opacities,
		Feats:     feats,
		FeatDim:   featDim,
	}, nil
}

func decodePointsVQ(r io.Reader) (*splat.Cloud, error) {
	h, err := readHeader(r, magicPointsVQ)
	if err != nil {
		return nil, err
	}
	count, featDim := int(h.Count), int(h.FeatDim)

	positions, opacities, err := readPositionsOpacities(r, count)
	if err != nil {
		return nil, err
	}
	scale, err := readFloat32s(r, featDim)
	if err != nil {
		return nil, fmt.Errorf("read codebook scale: %w", err)
	}
	offset, err := readFloat32s(r, featDim)
	if err != nil {
		return nil, fmt.Errorf("read codebook offset: %w", err)
	}
	codes := make([]uint8, count*featDim)
	if err := binary.Read(r, binary.LittleEndian, codes); err != nil {
		return nil, fmt.Errorf("read feature codes: %w", err)
	}

	feats := make([]float64, count*featDim)
	for i, code := range codes {
		ch := i % featDim
		feats[i] = offset[ch] + scale[ch]*float64(code)
	}

	return &splat.Cloud{
		Positions: positions,
		Opacities: opacities,
		Feats:     feats,
		FeatDim:   featDim,
	}, nil
}

// CameraSet holds the dataset's camera lists. The camera source for
// multi-level composition is this single, explicitly designated file;
// it never depends on level load order.
type CameraSet struct {
	Train []splat.Camera `json:"-"`
	Test  []splat.Camera `json:"-"`
}

// Combined returns train followed by test cameras, freshly allocated.
func (cs CameraSet) Combined() []splat.Camera {
	out := make([]splat.Camera, 0, len(cs.Train)+len(cs.Test))
	out = append(out, cs.Train...)
	out = append(out, cs.Test...)
	return out
}

type cameraJSON struct {
	Position [3]float64 `json:"position"`
	Yaw      float64    `json:"yaw"`
	Pitch    float64    `json:"pitch"`
}

type cameraSetJSON struct {
	Train []cameraJSON `json:"train"`
	Test  []cameraJSON `json:"test"`
}

// LoadCameras reads the designated camera list file.
func LoadCameras(path string) (CameraSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CameraSet{}, fmt.Errorf("cameras: %w", err)
	}
	var raw cameraSetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return CameraSet{}, fmt.Errorf("cameras %s: %w", path, err)
	}
	if len(raw.Train)+len(raw.Test) == 0 {
		return CameraSet{}, fmt.Errorf("cameras %s: empty camera list", path)
	}

	out := CameraSet{}
	for _, c := range raw.Train {
		if err := validCamera(c); err != nil {
			return CameraSet{}, fmt.Errorf("cameras %s: %w", path, err)
		}
		out.Train = append(out.Train, splat.NewCamera(c.Position, c.Yaw, c.Pitch))
	}
	for _, c := range raw.Test {
		if err := validCamera(c); err != nil {
			return CameraSet{}, fmt.Errorf("cameras %s: %w", path, err)
		}
		out.Test = append(out.Test, splat.NewCamera(c.Position, c.Yaw, c.Pitch))
	}
	return out, nil
}

func validCamera(c cameraJSON) error {
	for _, v := range c.Position {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite camera position %v", c.Position)
		}
	}
	return nil
}
