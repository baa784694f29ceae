package instance

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/heldkarp/matrix"
	"github.com/katalvlaran/heldkarp/tsp"
)

var (
	// ErrUnknownFormat is returned for a file extension or format name that
	// is not toml, yaml/yml or json.
	ErrUnknownFormat = errors.New("instance: unknown format")

	// ErrInvalid is returned when a decoded instance fails validation.
	ErrInvalid = errors.New("instance: invalid instance")
)

// Format names an encoding of an instance file.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath derives the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Instance is one TSP problem as stored on disk or sent over HTTP.
type Instance struct {
	Name       string      `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Source     int         `json:"source" yaml:"source" toml:"source" validate:"min=0"`
	Symmetric  bool        `json:"symmetric,omitempty" yaml:"symmetric,omitempty" toml:"symmetric,omitempty"`
	ZeroIsEdge bool        `json:"zero_is_edge,omitempty" yaml:"zero_is_edge,omitempty" toml:"zero_is_edge,omitempty"`
	Labels     []string    `json:"labels,omitempty" yaml:"labels,omitempty" toml:"labels,omitempty" validate:"omitempty,dive,required"`
	Weights    [][]float64 `json:"weights" yaml:"weights" toml:"weights" validate:"required,min=1"`
}

var validate = validator.New()

// Load reads and validates the instance at path; the format follows the
// file extension. An empty Name defaults to the file's base name.
func Load(path string) (*Instance, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read instance %s: %w", path, err)
	}
	inst, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if inst.Name == "" {
		inst.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return inst, nil
}

// Parse decodes data in the given format and validates the result.
func Parse(data []byte, format Format) (*Instance, error) {
	inst := &Instance{}
	var err error
	switch format {
	case FormatTOML:
		_, err = toml.Decode(string(data), inst)
	case FormatYAML:
		err = yaml.Unmarshal(data, inst)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(inst)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	if err = inst.Validate(); err != nil {
		return nil, err
	}

	return inst, nil
}

// Validate checks the structural rules the solver relies on: a non-empty
// square matrix, a source in range and one label per city when labels are
// given. Weight values (NaN, negatives) are left to tsp.Solve.
func (in *Instance) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	n := len(in.Weights)
	for i, row := range in.Weights {
		if len(row) != n {
			return fmt.Errorf("%w: row %d has %d weights, want %d", ErrInvalid, i, len(row), n)
		}
	}
	if in.Source >= n {
		return fmt.Errorf("%w: source %d not in [0..%d]", ErrInvalid, in.Source, n-1)
	}
	if len(in.Labels) != 0 && len(in.Labels) != n {
		return fmt.Errorf("%w: %d labels for %d cities", ErrInvalid, len(in.Labels), n)
	}

	return nil
}

// N returns the number of cities.
func (in *Instance) N() int { return len(in.Weights) }

// ZeroPolicy maps ZeroIsEdge onto tsp.ZeroPolicy.
func (in *Instance) ZeroPolicy() tsp.ZeroPolicy {
	if in.ZeroIsEdge {
		return tsp.ZeroAsEdge
	}

	return tsp.ZeroAsAbsent
}

// Matrix builds the distance matrix, symmetrized when Symmetric is set.
func (in *Instance) Matrix() (*matrix.Dense, error) {
	d, err := matrix.NewDenseFrom(in.Weights)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !in.Symmetric {
		return d, nil
	}

	return matrix.Symmetrize(d, in.ZeroPolicy().Absent)
}

// Options returns the tsp options encoded in the instance.
func (in *Instance) Options() []tsp.Option {
	return []tsp.Option{tsp.WithSource(in.Source), tsp.WithZeroPolicy(in.ZeroPolicy())}
}

// Label names city i: its label, or its index when unlabeled.
func (in *Instance) Label(i int) string {
	if i >= 0 && i < len(in.Labels) {
		return in.Labels[i]
	}

	return strconv.Itoa(i)
}

// FormatTour renders a tour with labels, e.g. "A → C → D → B → A".
func (in *Instance) FormatTour(tour []int) string {
	parts := make([]string, len(tour))
	for i, c := range tour {
		parts[i] = in.Label(c)
	}

	return strings.Join(parts, " → ")
}

// CanonicalKey hashes everything that influences the solver output
// (weights bit-for-bit, source, symmetry, zero policy) plus extra, which
// callers use for solver settings such as the size ceiling. Name and labels
// do not take part. The result is a 64-char hex SHA-256.
func (in *Instance) CanonicalKey(extra ...string) string {
	h := sha256.New()
	var buf [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}

	put(uint64(len(in.Weights)))
	for _, row := range in.Weights {
		for _, w := range row {
			put(math.Float64bits(w))
		}
	}
	put(uint64(in.Source))
	put(boolBit(in.Symmetric))
	put(boolBit(in.ZeroIsEdge))
	for _, e := range extra {
		put(uint64(len(e)))
		h.Write([]byte(e))
	}

	return hex.EncodeToString(h.Sum(nil))
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}

	return 0
}
