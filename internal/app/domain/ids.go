package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// UserID identifies a user. Only NewUserID/ParseUserID produce a non-zero value.
type UserID struct {
	value string
}

// NewUserID coerces any non-nil primitive to a string and rejects empty results.
func NewUserID(raw any) (UserID, error) {
	var s string
	switch v := raw.(type) {
	case nil:
		return UserID{}, invalid(MsgUserIDEmpty)
	case string:
		s = v
	case *string:
		if v == nil {
			return UserID{}, invalid(MsgUserIDEmpty)
		}
		s = *v
	case UserID:
		s = v.value
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, bool:
		s = fmt.Sprint(v)
	case fmt.Stringer:
		s = v.String()
	default:
		return UserID{}, invalid(MsgUserIDNotString)
	}

	if strings.TrimSpace(s) == "" {
		return UserID{}, invalid(MsgUserIDEmpty)
	}
	return UserID{value: s}, nil
}

// ParseUserID is NewUserID for callers that already hold a string.
func ParseUserID(s string) (UserID, error) {
	return NewUserID(s)
}

func (id UserID) String() string { return id.value }

// IsZero reports whether id was never produced by a factory.
func (id UserID) IsZero() bool { return id.value == "" }

// ImageID identifies a submitted verification image.
type ImageID struct {
	value string
}

func NewImageID(s string) (ImageID, error) {
	if strings.TrimSpace(s) == "" {
		return ImageID{}, invalid(MsgImageIDEmpty)
	}
	return ImageID{value: s}, nil
}

func (id ImageID) String() string { return id.value }

func (id ImageID) IsZero() bool { return id.value == "" }

// NumericID is the non-negative integer projection of an identifier, used as a
// storage-level key.
type NumericID struct {
	value uint64
}

// NewNumericID accepts strings, Go integer and float kinds, and fmt.Stringer
// values such as UserID and ImageID.
func NewNumericID(raw any) (NumericID, error) {
	switch v := raw.(type) {
	case string:
		return parseNumericID(v)
	case fmt.Stringer:
		return parseNumericID(v.String())
	case int:
		return fromInt64(int64(v))
	case int8:
		return fromInt64(int64(v))
	case int16:
		return fromInt64(int64(v))
	case int32:
		return fromInt64(int64(v))
	case int64:
		return fromInt64(v)
	case uint:
		return NumericID{value: uint64(v)}, nil
	case uint8:
		return NumericID{value: uint64(v)}, nil
	case uint16:
		return NumericID{value: uint64(v)}, nil
	case uint32:
		return NumericID{value: uint64(v)}, nil
	case uint64:
		return NumericID{value: v}, nil
	case float32:
		return fromFloat64(float64(v))
	case float64:
		return fromFloat64(v)
	default:
		return NumericID{}, invalid(MsgNotANumber)
	}
}

func parseNumericID(s string) (NumericID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NumericID{}, invalid(MsgNotANumber)
	}
	// exact path for plain decimal integers
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return NumericID{value: n}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return NumericID{}, invalid(MsgNotANumber)
	}
	return fromFloat64(f)
}

func fromFloat64(f float64) (NumericID, error) {
	if math.IsNaN(f) {
		return NumericID{}, invalid(MsgNotANumber)
	}
	if math.IsInf(f, 0) || f != math.Trunc(f) {
		return NumericID{}, invalid(MsgNotAnInteger)
	}
	if f < 0 {
		return NumericID{}, invalid(MsgNegativeNumericID)
	}
	if f >= math.MaxUint64 {
		return NumericID{}, invalid(MsgNotAnInteger)
	}
	return NumericID{value: uint64(f)}, nil
}

func fromInt64(n int64) (NumericID, error) {
	if n < 0 {
		return NumericID{}, invalid(MsgNegativeNumericID)
	}
	return NumericID{value: uint64(n)}, nil
}

// Uint returns the value as a gorm-friendly primary key.
func (id NumericID) Uint() uint { return uint(id.value) }

func (id NumericID) Uint64() uint64 { return id.value }

func (id NumericID) String() string { return strconv.FormatUint(id.value, 10) }
