package tdms

// DataType identifies the on-disk type of a channel's raw values or of a
// property value. The numeric values are fixed by the TDMS file format.
type DataType uint32

const (
	TypeVoid                  DataType = 0x00
	TypeI8                    DataType = 0x01
	TypeI16                   DataType = 0x02
	TypeI32                   DataType = 0x03
	TypeI64                   DataType = 0x04
	TypeU8                    DataType = 0x05
	TypeU16                   DataType = 0x06
	TypeU32                   DataType = 0x07
	TypeU64                   DataType = 0x08
	TypeSingleFloat           DataType = 0x09
	TypeDoubleFloat           DataType = 0x0A
	TypeExtendedFloat         DataType = 0x0B
	TypeSingleFloatWithUnit   DataType = 0x19
	TypeDoubleFloatWithUnit   DataType = 0x1A
	TypeExtendedFloatWithUnit DataType = 0x1B
	TypeString                DataType = 0x20
	TypeBoolean               DataType = 0x21
	TypeTimeStamp             DataType = 0x44
	TypeFixedPoint            DataType = 0x4F
	TypeComplexSingleFloat    DataType = 0x08000C
	TypeComplexDoubleFloat    DataType = 0x10000D
	TypeDAQmxRawData          DataType = 0xFFFFFFFF
)

// String returns the display name of the data type. Unrecognized tags
// return "Unknown"; String never fails.
func (t DataType) String() string {
	switch t {
	case TypeVoid:
		return "Void"
	case TypeI8:
		return "I8"
	case TypeI16:
		return "I16"
	case TypeI32:
		return "I32"
	case TypeI64:
		return "I64"
	case TypeU8:
		return "U8"
	case TypeU16:
		return "U16"
	case TypeU32:
		return "U32"
	case TypeU64:
		return "U64"
	case TypeSingleFloat:
		return "SingleFloat"
	case TypeDoubleFloat:
		return "DoubleFloat"
	case TypeExtendedFloat:
		return "ExtendedFloat"
	case TypeSingleFloatWithUnit:
		return "SingleFloatWithUnit"
	case TypeDoubleFloatWithUnit:
		return "DoubleFloatWithUnit"
	case TypeExtendedFloatWithUnit:
		return "ExtendedFloatWithUnit"
	case TypeString:
		return "String"
	case TypeBoolean:
		return "Boolean"
	case TypeTimeStamp:
		return "TimeStamp"
	case TypeFixedPoint:
		return "FixedPoint"
	case TypeComplexSingleFloat:
		return "ComplexSingleFloat"
	case TypeComplexDoubleFloat:
		return "ComplexDoubleFloat"
	case TypeDAQmxRawData:
		return "DAQmxRawData"
	default:
		return "Unknown"
	}
}

// ByteSize returns the size in bytes of a single value of the data type.
// Variable-length and unsized types (Void, String, the DAQmx marker) and
// unrecognized tags return 0.
func (t DataType) ByteSize() uint64 {
	switch t {
	case TypeI8, TypeU8, TypeBoolean:
		return 1
	case TypeI16, TypeU16:
		return 2
	case TypeI32, TypeU32, TypeSingleFloat, TypeSingleFloatWithUnit:
		return 4
	case TypeI64, TypeU64, TypeDoubleFloat, TypeDoubleFloatWithUnit, TypeComplexSingleFloat:
		return 8
	case TypeExtendedFloat, TypeExtendedFloatWithUnit:
		return 10
	case TypeTimeStamp, TypeFixedPoint, TypeComplexDoubleFloat:
		return 16
	default:
		return 0
	}
}
