// Package wire implements the engine's self-describing serialization
// surface: a bit-exact binary read/write pair, the text form, and (as
// supplemental host-facing conveniences grounded on the teacher's backend
// blob/fixture conventions) optional gzip payload compression and a YAML
// fixture format for tests and the CLI's dump/load subcommands.
package wire

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/tempoval/tempoval/temporal/box"
	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/value"
	"github.com/tempoval/tempoval/temporal/valuekit"
)

// ErrUnsupportedType is returned by Write/Read for a base type or subtype
// combination the wire form cannot carry.
var ErrUnsupportedType = errors.New("wire: unsupported type")

var byteOrder = binary.BigEndian

// subtypeTag/baseTypeTag are the wire's u8/u16 type tags.
func subtypeTag(s value.Subtype) uint8 { return uint8(s) }

func baseTypeTag(t valuekit.Type) uint16 { return uint16(t) }

const (
	flagLinear   = 1 << 0
	flagHasZ     = 1 << 1
	flagGeodetic = 1 << 2
)

func flagsFor(v value.Temporal) uint8 {
	var f uint8
	if v.Interp() == value.Linear {
		f |= flagLinear
	}
	if v.BaseType() == valuekit.TypePoint3D || v.BaseType() == valuekit.TypeGeodetic {
		f |= flagHasZ
	}
	if v.BaseType() == valuekit.TypeGeodetic {
		f |= flagGeodetic
	}
	return f
}

// Write serializes v as a bit-exact wire blob. The bounding box is always
// written as a fixed-width block, with a presence flag, rather than a
// variable-width block, so Read never has to guess its length.
func Write(w io.Writer, v value.Temporal) error {
	if err := writeU8(w, subtypeTag(v.Subtype())); err != nil {
		return err
	}
	if err := writeU16(w, baseTypeTag(v.BaseType())); err != nil {
		return err
	}
	if err := writeU8(w, flagsFor(v)); err != nil {
		return err
	}
	if err := writeBBox(w, v.BBox()); err != nil {
		return err
	}
	switch t := v.(type) {
	case *value.Instant:
		if err := writeI32(w, 1); err != nil {
			return err
		}
		return writeSample(w, t.BaseType(), t.Sample)
	case *value.InstantSet:
		if err := writeI32(w, int32(len(t.Instants))); err != nil {
			return err
		}
		for _, s := range t.Instants {
			if err := writeSample(w, t.BaseType(), s); err != nil {
				return err
			}
		}
		return nil
	case *value.Sequence:
		return writeSequence(w, t.BaseType(), *t)
	case *value.SequenceSet:
		if err := writeI32(w, int32(len(t.Sequences))); err != nil {
			return err
		}
		for _, seq := range t.Sequences {
			if err := writeSequence(w, t.BaseType(), seq); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.Wrapf(ErrUnsupportedType, "subtype %T", v)
	}
}

// writeSequence writes a period header followed by the count+samples body
// shared by Sequence and each element of a SequenceSet.
func writeSequence(w io.Writer, bt valuekit.Type, s value.Sequence) error {
	if err := writePeriod(w, s.Period); err != nil {
		return err
	}
	if err := writeI32(w, int32(len(s.Instants))); err != nil {
		return err
	}
	for _, sm := range s.Instants {
		if err := writeSample(w, bt, sm); err != nil {
			return err
		}
	}
	return nil
}

// Read deserializes a wire blob produced by Write. baseType must match the
// encoded base_type_tag; a mismatch is reported as ErrUnsupportedType since
// the caller is expected to know the type of data it asked to decode.
func Read(r io.Reader, baseType valuekit.Type) (value.Temporal, error) {
	st, err := readU8(r)
	if err != nil {
		return nil, err
	}
	bt, err := readU16(r)
	if err != nil {
		return nil, err
	}
	if valuekit.Type(bt) != baseType {
		return nil, errors.Wrapf(ErrUnsupportedType, "base type tag %d does not match requested %s", bt, baseType)
	}
	flags, err := readU8(r)
	if err != nil {
		return nil, err
	}
	interp := value.Step
	if flags&flagLinear != 0 {
		interp = value.Linear
	}
	if _, err := readBBox(r); err != nil {
		return nil, err
	}

	switch value.Subtype(st) {
	case value.SubtypeInstant:
		if _, err := readI32(r); err != nil {
			return nil, err
		}
		s, err := readSample(r, baseType)
		if err != nil {
			return nil, err
		}
		return value.NewInstant(baseType, interp, s), nil
	case value.SubtypeInstantSet:
		n, err := readI32(r)
		if err != nil {
			return nil, err
		}
		samples := make([]value.Sample, n)
		for i := range samples {
			samples[i], err = readSample(r, baseType)
			if err != nil {
				return nil, err
			}
		}
		return value.NewInstantSet(baseType, interp, samples)
	case value.SubtypeSequence:
		return readSequence(r, baseType, interp)
	case value.SubtypeSequenceSet:
		n, err := readI32(r)
		if err != nil {
			return nil, err
		}
		seqs := make([]value.Sequence, n)
		for i := range seqs {
			s, err := readSequence(r, baseType, interp)
			if err != nil {
				return nil, err
			}
			seqs[i] = *s
		}
		return value.NewSequenceSet(baseType, interp, seqs)
	default:
		return nil, errors.Wrapf(ErrUnsupportedType, "subtype tag %d", st)
	}
}

func readSequence(r io.Reader, bt valuekit.Type, interp value.Interp) (*value.Sequence, error) {
	p, err := readPeriod(r)
	if err != nil {
		return nil, err
	}
	n, err := readI32(r)
	if err != nil {
		return nil, err
	}
	samples := make([]value.Sample, n)
	for i := range samples {
		samples[i], err = readSample(r, bt)
		if err != nil {
			return nil, err
		}
	}
	return value.NewSequence(bt, interp, p, samples)
}

func writePeriod(w io.Writer, p period.Period) error {
	if err := writeI64(w, int64(p.Lower)); err != nil {
		return err
	}
	if err := writeI64(w, int64(p.Upper)); err != nil {
		return err
	}
	if err := writeBool(w, p.LowerInc); err != nil {
		return err
	}
	return writeBool(w, p.UpperInc)
}

func readPeriod(r io.Reader) (period.Period, error) {
	lo, err := readI64(r)
	if err != nil {
		return period.Period{}, err
	}
	up, err := readI64(r)
	if err != nil {
		return period.Period{}, err
	}
	li, err := readBool(r)
	if err != nil {
		return period.Period{}, err
	}
	ui, err := readBool(r)
	if err != nil {
		return period.Period{}, err
	}
	return period.Period{Lower: period.Timestamp(lo), Upper: period.Timestamp(up), LowerInc: li, UpperInc: ui}, nil
}

func writeBBox(w io.Writer, b box.TBox) error {
	if err := writeBool(w, b.HasValue); err != nil {
		return err
	}
	if err := writeF64(w, b.Value.Min); err != nil {
		return err
	}
	if err := writeF64(w, b.Value.Max); err != nil {
		return err
	}
	if err := writeBool(w, b.HasTime); err != nil {
		return err
	}
	return writePeriod(w, b.Time)
}

func readBBox(r io.Reader) (box.TBox, error) {
	hasValue, err := readBool(r)
	if err != nil {
		return box.TBox{}, err
	}
	min, err := readF64(r)
	if err != nil {
		return box.TBox{}, err
	}
	max, err := readF64(r)
	if err != nil {
		return box.TBox{}, err
	}
	hasTime, err := readBool(r)
	if err != nil {
		return box.TBox{}, err
	}
	p, err := readPeriod(r)
	if err != nil {
		return box.TBox{}, err
	}
	b := box.TBox{HasTime: hasTime, Time: p}
	if hasValue {
		b.HasValue = true
		b.Value = box.NewRange(min, max)
	}
	return b, nil
}

func writeSample(w io.Writer, bt valuekit.Type, s value.Sample) error {
	if err := writeI64(w, int64(s.T)); err != nil {
		return err
	}
	return writeValue(w, bt, s.Value)
}

func readSample(r io.Reader, bt valuekit.Type) (value.Sample, error) {
	t, err := readI64(r)
	if err != nil {
		return value.Sample{}, err
	}
	v, err := readValue(r, bt)
	if err != nil {
		return value.Sample{}, err
	}
	return value.Sample{Value: v, T: period.Timestamp(t)}, nil
}

func writeValue(w io.Writer, bt valuekit.Type, v valuekit.Value) error {
	switch bt {
	case valuekit.TypeBool:
		return writeBool(w, v.B)
	case valuekit.TypeInt:
		return writeI32(w, v.I)
	case valuekit.TypeFloat:
		return writeF64(w, v.F)
	case valuekit.TypeText:
		return writeString(w, v.S)
	case valuekit.TypePoint2D:
		if err := writeF64(w, v.P2.X); err != nil {
			return err
		}
		return writeF64(w, v.P2.Y)
	case valuekit.TypePoint3D:
		if err := writeF64(w, v.P3.X); err != nil {
			return err
		}
		if err := writeF64(w, v.P3.Y); err != nil {
			return err
		}
		return writeF64(w, v.P3.Z)
	case valuekit.TypeGeodetic:
		if err := writeF64(w, v.Geo.Lon); err != nil {
			return err
		}
		if err := writeF64(w, v.Geo.Lat); err != nil {
			return err
		}
		if err := writeBool(w, v.Geo.HasHeight); err != nil {
			return err
		}
		return writeF64(w, v.Geo.Height)
	default:
		return errors.Wrapf(ErrUnsupportedType, "write value of base type %s", bt)
	}
}

func readValue(r io.Reader, bt valuekit.Type) (valuekit.Value, error) {
	switch bt {
	case valuekit.TypeBool:
		b, err := readBool(r)
		return valuekit.Bool(b), err
	case valuekit.TypeInt:
		i, err := readI32(r)
		return valuekit.Int(i), err
	case valuekit.TypeFloat:
		f, err := readF64(r)
		return valuekit.Float(f), err
	case valuekit.TypeText:
		s, err := readString(r)
		return valuekit.Text(s), err
	case valuekit.TypePoint2D:
		x, err := readF64(r)
		if err != nil {
			return valuekit.Value{}, err
		}
		y, err := readF64(r)
		if err != nil {
			return valuekit.Value{}, err
		}
		return valuekit.FromPoint2D(valuekit.Point2D{X: x, Y: y}), nil
	case valuekit.TypePoint3D:
		x, err := readF64(r)
		if err != nil {
			return valuekit.Value{}, err
		}
		y, err := readF64(r)
		if err != nil {
			return valuekit.Value{}, err
		}
		z, err := readF64(r)
		if err != nil {
			return valuekit.Value{}, err
		}
		return valuekit.FromPoint3D(valuekit.Point3D{X: x, Y: y, Z: z}), nil
	case valuekit.TypeGeodetic:
		lon, err := readF64(r)
		if err != nil {
			return valuekit.Value{}, err
		}
		lat, err := readF64(r)
		if err != nil {
			return valuekit.Value{}, err
		}
		hasH, err := readBool(r)
		if err != nil {
			return valuekit.Value{}, err
		}
		h, err := readF64(r)
		if err != nil {
			return valuekit.Value{}, err
		}
		return valuekit.FromGeoPoint(valuekit.GeoPoint{Lon: lon, Lat: lat, Height: h, HasHeight: hasH}), nil
	default:
		return valuekit.Value{}, errors.Wrapf(ErrUnsupportedType, "read value of base type %s", bt)
	}
}

func writeU8(w io.Writer, v uint8) error  { return binary.Write(w, byteOrder, v) }
func writeU16(w io.Writer, v uint16) error { return binary.Write(w, byteOrder, v) }
func writeI32(w io.Writer, v int32) error { return binary.Write(w, byteOrder, v) }
func writeI64(w io.Writer, v int64) error { return binary.Write(w, byteOrder, v) }
func writeBool(w io.Writer, v bool) error {
	var b uint8
	if v {
		b = 1
	}
	return writeU8(w, b)
}
func writeF64(w io.Writer, v float64) error { return binary.Write(w, byteOrder, math.Float64bits(v)) }
func writeString(w io.Writer, s string) error {
	if err := writeI32(w, int32(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func readU8(r io.Reader) (uint8, error) {
	var v uint8
	err := binary.Read(r, byteOrder, &v)
	return v, err
}
func readU16(r io.Reader) (uint16, error) {
	var v uint16
	err := binary.Read(r, byteOrder, &v)
	return v, err
}
func readI32(r io.Reader) (int32, error) {
	var v int32
	err := binary.Read(r, byteOrder, &v)
	return v, err
}
func readI64(r io.Reader) (int64, error) {
	var v int64
	err := binary.Read(r, byteOrder, &v)
	return v, err
}
func readBool(r io.Reader) (bool, error) {
	v, err := readU8(r)
	return v != 0, err
}
func readF64(r io.Reader) (float64, error) {
	var bits uint64
	if err := binary.Read(r, byteOrder, &bits); err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}
func readString(r io.Reader) (string, error) {
	n, err := readI32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
