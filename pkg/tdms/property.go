package tdms

import (
	"fmt"

	"github.com/totonga/tdms-tools/pkg/report"
)

// PropertyValue is one decoded property value. The concrete types form a
// closed set, one per value shape the format defines, so consumers can
// switch exhaustively instead of branching on type tags.
type PropertyValue interface {
	isPropertyValue()
}

type (
	// IntValue holds any signed integer property.
	IntValue int64
	// UintValue holds any unsigned integer property.
	UintValue uint64
	// FloatValue holds a single or double float property.
	FloatValue float64
	// StringValue holds a string property.
	StringValue string
	// BoolValue holds a boolean property.
	BoolValue bool
	// TimestampValue holds a timestamp property as whole seconds plus
	// positive fractional seconds in 2^-64 units.
	TimestampValue struct {
		Seconds  int64
		Fraction uint64
	}
	// ComplexValue holds a complex float property.
	ComplexValue struct {
		Real      float64
		Imaginary float64
	}
	// BytesValue holds a value with no native representation (extended
	// float, fixed point) as its little-endian byte pattern.
	BytesValue []byte
)

func (IntValue) isPropertyValue()       {}
func (UintValue) isPropertyValue()      {}
func (FloatValue) isPropertyValue()     {}
func (StringValue) isPropertyValue()    {}
func (BoolValue) isPropertyValue()      {}
func (TimestampValue) isPropertyValue() {}
func (ComplexValue) isPropertyValue()   {}
func (BytesValue) isPropertyValue()     {}

// readPropertyValue decodes one property value of the given type. Void,
// the with-unit float variants and the DAQmx marker cannot appear as
// property types.
func readPropertyValue(r *segmentReader, t DataType) (PropertyValue, error) {
	switch t {
	case TypeVoid, TypeSingleFloatWithUnit, TypeDoubleFloatWithUnit,
		TypeExtendedFloatWithUnit, TypeDAQmxRawData:
		return nil, fmt.Errorf("type %s (0x%X): %w", t, uint32(t), ErrInvalidPropertyType)
	case TypeI8:
		v, err := r.u8()
		return IntValue(int8(v)), err
	case TypeI16:
		v, err := r.u16()
		return IntValue(int16(v)), err
	case TypeI32:
		v, err := r.u32()
		return IntValue(int32(v)), err
	case TypeI64:
		v, err := r.u64()
		return IntValue(int64(v)), err
	case TypeU8:
		v, err := r.u8()
		return UintValue(v), err
	case TypeU16:
		v, err := r.u16()
		return UintValue(v), err
	case TypeU32:
		v, err := r.u32()
		return UintValue(v), err
	case TypeU64:
		v, err := r.u64()
		return UintValue(v), err
	case TypeSingleFloat:
		v, err := r.f32()
		return FloatValue(v), err
	case TypeDoubleFloat:
		v, err := r.f64()
		return FloatValue(v), err
	case TypeExtendedFloat:
		v, err := r.opaque(10)
		return BytesValue(v), err
	case TypeFixedPoint:
		v, err := r.opaque(16)
		return BytesValue(v), err
	case TypeString:
		v, err := r.str()
		return StringValue(v), err
	case TypeBoolean:
		v, err := r.u8()
		return BoolValue(v != 0), err
	case TypeTimeStamp:
		sec, err := r.u64()
		if err != nil {
			return nil, err
		}
		frac, err := r.u64()
		return TimestampValue{Seconds: int64(sec), Fraction: frac}, err
	case TypeComplexSingleFloat:
		re, err := r.f32()
		if err != nil {
			return nil, err
		}
		im, err := r.f32()
		return ComplexValue{Real: float64(re), Imaginary: float64(im)}, err
	case TypeComplexDoubleFloat:
		re, err := r.f64()
		if err != nil {
			return nil, err
		}
		im, err := r.f64()
		return ComplexValue{Real: re, Imaginary: im}, err
	default:
		return nil, fmt.Errorf("type tag 0x%X: %w", uint32(t), ErrUnknownDataType)
	}
}

// emitPropertyValue writes a decoded value under the current report level.
func emitPropertyValue(s report.Sink, v PropertyValue) {
	switch v := v.(type) {
	case IntValue:
		s.Int("value", int64(v))
	case UintValue:
		s.Uint("value", uint64(v))
	case FloatValue:
		s.Float("value", float64(v))
	case StringValue:
		s.Str("value", string(v))
	case BoolValue:
		s.Bool("value", bool(v))
	case BytesValue:
		s.Bytes("value", v)
	case TimestampValue:
		s.Push("value")
		s.Int("seconds", v.Seconds)
		s.Uint("fraction", v.Fraction)
		s.Pop()
	case ComplexValue:
		s.Push("value")
		s.Float("real", v.Real)
		s.Float("imaginary", v.Imaginary)
		s.Pop()
	}
}
