//-------------------------------------------------------------------------
//
// martgen - Dimensional Warehouse Builder
//
// Copyright (c) 2025 - 2026, Edgewise Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package table implements the in-memory tabular structure shared by the
// extraction, transformation, and load phases. A Table is an ordered set of
// named columns over rows of typed values; all warehouse builders operate on
// Tables and never mutate their inputs.
package table

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies the type of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindDecimal
	KindBool
	KindDate
	KindTime
)

// Value is a single typed cell. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  int64
	dec  decimal.Decimal
	b    bool
	ts   time.Time
}

// Timestamp layouts accepted by ParseTimestamp, tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Int returns an integer value.
func Int(i int64) Value {
	return Value{kind: KindInt, num: i}
}

// Decimal returns a decimal value.
func Decimal(d decimal.Decimal) Value {
	return Value{kind: KindDecimal, dec: d}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Date returns a date value, truncated to midnight UTC.
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, ts: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Time returns a timestamp value.
func Time(t time.Time) Value {
	return Value{kind: KindTime, ts: t}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Str returns the string content. Only meaningful for KindString.
func (v Value) Str() string {
	return v.str
}

// Int64 returns the integer content. Only meaningful for KindInt.
func (v Value) Int64() int64 {
	return v.num
}

// Dec returns the decimal content. Only meaningful for KindDecimal.
func (v Value) Dec() decimal.Decimal {
	return v.dec
}

// Timestamp returns the time content. Only meaningful for KindDate and KindTime.
func (v Value) Timestamp() time.Time {
	return v.ts
}

// AsInt coerces the value to an integer. Decimals are truncated toward zero,
// numeric strings are parsed. Returns false for nulls and non-numeric values.
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.num, true
	case KindDecimal:
		return v.dec.IntPart(), true
	case KindString:
		if i, err := strconv.ParseInt(strings.TrimSpace(v.str), 10, 64); err == nil {
			return i, true
		}
		if d, err := decimal.NewFromString(strings.TrimSpace(v.str)); err == nil {
			return d.IntPart(), true
		}
		return 0, false
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// AsTime parses the value as a timestamp. Date and time values are returned
// as-is; strings are tried against the accepted layouts. Returns false for
// nulls and unparseable values.
func (v Value) AsTime() (time.Time, bool) {
	switch v.kind {
	case KindDate, KindTime:
		return v.ts, true
	case KindString:
		s := strings.TrimSpace(v.str)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// Key returns the canonical join-key form of the value. Every join key is
// normalized through this text form so that an integer 7 on one side matches
// a "7" read as text on the other. Null keys never match anything.
func (v Value) Key() (string, bool) {
	switch v.kind {
	case KindNull:
		return "", false
	case KindString:
		return strings.TrimSpace(v.str), true
	case KindInt:
		return strconv.FormatInt(v.num, 10), true
	case KindDecimal:
		return v.dec.String(), true
	case KindBool:
		return strconv.FormatBool(v.b), true
	case KindDate:
		return v.ts.Format("2006-01-02"), true
	case KindTime:
		return v.ts.Format("2006-01-02 15:04:05"), true
	default:
		return "", false
	}
}

// Format returns the textual form of the value for tabular output. Nulls
// format as the empty string and decimals always use '.' as the fractional
// separator.
func (v Value) Format() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindDecimal:
		return v.dec.String()
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindDate:
		return v.ts.Format("2006-01-02")
	case KindTime:
		return v.ts.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// Compare orders two values. Nulls sort before everything; numeric kinds
// compare numerically; other matching kinds compare naturally; mixed kinds
// fall back to their canonical key form. The ordering is total and
// deterministic, which is what makes surrogate key assignment stable.
func (v Value) Compare(other Value) int {
	if v.kind == KindNull || other.kind == KindNull {
		switch {
		case v.kind == KindNull && other.kind == KindNull:
			return 0
		case v.kind == KindNull:
			return -1
		default:
			return 1
		}
	}

	if isNumeric(v.kind) && isNumeric(other.kind) {
		return v.asDecimal().Cmp(other.asDecimal())
	}

	if v.kind == other.kind {
		switch v.kind {
		case KindString:
			return strings.Compare(v.str, other.str)
		case KindBool:
			switch {
			case v.b == other.b:
				return 0
			case !v.b:
				return -1
			default:
				return 1
			}
		case KindDate, KindTime:
			switch {
			case v.ts.Before(other.ts):
				return -1
			case v.ts.After(other.ts):
				return 1
			default:
				return 0
			}
		}
	}

	a, _ := v.Key()
	b, _ := other.Key()
	return strings.Compare(a, b)
}

func isNumeric(k Kind) bool {
	return k == KindInt || k == KindDecimal
}

func (v Value) asDecimal() decimal.Decimal {
	if v.kind == KindInt {
		return decimal.NewFromInt(v.num)
	}
	return v.dec
}
