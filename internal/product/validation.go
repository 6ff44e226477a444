// AngelaMos | 2026
// validation.go

package product

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	msgNameRequired     = "Name is required"
	msgNameLength       = "Name must be at least 2 characters long"
	msgPriceRequired    = "Price is required"
	msgPriceInvalid     = "Price must be a non-negative number"
	msgSKURequired      = "SKU is required"
	msgSKUEmpty         = "SKU cannot be empty"
	msgCategoryRequired = "Category is required"
	msgCategoryEmpty    = "Category cannot be empty"
	msgStockInvalid     = "Stock must be a non-negative integer"
	msgWeightInvalid    = "Weight must be a non-negative number"
	msgDimensionsObject = "Dimensions must be an object"
	msgTagsInvalid      = "Tags must be an array of strings"
	msgDescription      = "Description must be a string"
	msgIsActive         = "isActive must be a boolean"
)

// Nullable distinguishes "not supplied" (Set false) from an explicit null
// (Set true, Value nil).
type Nullable[T any] struct {
	Set   bool
	Value *T
}

func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// ProductFields is a validated product payload. Nil pointers are fields
// the client did not send.
type ProductFields struct {
	Name        *string
	Description Nullable[string]
	Price       *float64
	SKU         *string
	Category    *string
	Stock       *int
	IsActive    *bool
	Weight      Nullable[float64]
	Dimensions  Nullable[Dimensions]
	Tags        *[]string
}

type mode int

const (
	modeCreate mode = iota
	modeUpdate
)

type fieldState int

const (
	fieldAbsent fieldState = iota
	fieldNull
	fieldValue
)

func (p Payload) field(key string) (json.RawMessage, fieldState) {
	raw, ok := p[key]
	if !ok {
		return nil, fieldAbsent
	}
	if isNull(raw) {
		return nil, fieldNull
	}
	return raw, fieldValue
}

// ValidateCreate checks a full product payload. Every violation is reported,
// in field order.
func ValidateCreate(p Payload) (*ProductFields, []string) {
	return validate(p, modeCreate)
}

// ValidateUpdate checks only the fields present in a partial payload.
func ValidateUpdate(p Payload) (*ProductFields, []string) {
	return validate(p, modeUpdate)
}

//nolint:gocognit,funlen // one block per field keeps the order readable
func validate(p Payload, m mode) (*ProductFields, []string) {
	f := &ProductFields{}
	var violations []string
	add := func(msg string) { violations = append(violations, msg) }

	switch raw, st := p.field("name"); {
	case st == fieldValue:
		if s, ok := decodeTrimmed(raw); ok && utf8.RuneCountInString(s) >= 2 {
			f.Name = &s
		} else {
			add(msgNameLength)
		}
	case m == modeCreate:
		add(msgNameRequired)
	case st == fieldNull:
		add(msgNameLength)
	}

	switch raw, st := p.field("price"); {
	case st == fieldValue:
		if v, ok := decodeNonNegative(raw); ok {
			f.Price = &v
		} else {
			add(msgPriceInvalid)
		}
	case m == modeCreate:
		add(msgPriceRequired)
	case st == fieldNull:
		add(msgPriceInvalid)
	}

	f.SKU = requiredText(p, "sku", m, msgSKURequired, msgSKUEmpty, add)
	f.Category = requiredText(
		p,
		"category",
		m,
		msgCategoryRequired,
		msgCategoryEmpty,
		add,
	)

	if raw, st := p.field("stock"); st != fieldAbsent {
		if v, ok := decodeNonNegativeInt(raw); st == fieldValue && ok {
			f.Stock = &v
		} else {
			add(msgStockInvalid)
		}
	}

	switch raw, st := p.field("weight"); st {
	case fieldNull:
		f.Weight = Null[float64]()
	case fieldValue:
		if v, ok := decodeNonNegative(raw); ok {
			f.Weight = Some(v)
		} else {
			add(msgWeightInvalid)
		}
	}

	switch raw, st := p.field("dimensions"); st {
	case fieldNull:
		f.Dimensions = Null[Dimensions]()
	case fieldValue:
		if dims, msgs := decodeDimensionsPayload(raw); len(msgs) > 0 {
			violations = append(violations, msgs...)
		} else {
			f.Dimensions = Some(*dims)
		}
	}

	switch raw, st := p.field("tags"); st {
	case fieldNull:
		if m == modeUpdate {
			add(msgTagsInvalid)
		}
	case fieldValue:
		var tags []string
		if err := json.Unmarshal(raw, &tags); err != nil || tags == nil {
			add(msgTagsInvalid)
		} else {
			f.Tags = &tags
		}
	}

	switch raw, st := p.field("description"); st {
	case fieldNull:
		f.Description = Null[string]()
	case fieldValue:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			add(msgDescription)
		} else {
			f.Description = Some(s)
		}
	}

	if raw, st := p.field("isActive"); st != fieldAbsent {
		var b bool
		if st == fieldNull || json.Unmarshal(raw, &b) != nil {
			add(msgIsActive)
		} else {
			f.IsActive = &b
		}
	}

	return f, violations
}

func requiredText(
	p Payload,
	key string,
	m mode,
	requiredMsg, emptyMsg string,
	add func(string),
) *string {
	msg := requiredMsg
	if m == modeUpdate {
		msg = emptyMsg
	}

	raw, st := p.field(key)
	switch {
	case st == fieldValue:
		if s, ok := decodeTrimmed(raw); ok && s != "" {
			return &s
		}
		add(msg)
	case m == modeCreate || st == fieldNull:
		add(msg)
	}
	return nil
}

func decodeDimensionsPayload(raw json.RawMessage) (*Dimensions, []string) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, []string{msgDimensionsObject}
	}

	dims := &Dimensions{}
	var violations []string

	for _, c := range []struct {
		key string
		dst **float64
	}{
		{"length", &dims.Length},
		{"width", &dims.Width},
		{"height", &dims.Height},
	} {
		v, ok := obj[c.key]
		if !ok || isNull(v) {
			continue
		}
		n, valid := decodeNonNegative(v)
		if !valid {
			violations = append(
				violations,
				"Dimensions "+c.key+" must be a non-negative number",
			)
			continue
		}
		*c.dst = &n
	}

	return dims, violations
}

// ParseStock accepts a non-negative integer given as a JSON number or a
// numeric string.
func ParseStock(raw json.RawMessage) (int, bool) {
	if len(bytes.TrimSpace(raw)) == 0 || isNull(raw) {
		return 0, false
	}
	return decodeNonNegativeInt(raw)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeTrimmed(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return strings.TrimSpace(s), true
}

func decodeNumber(raw json.RawMessage) (float64, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}

	var (
		f   float64
		err error
	)
	switch t := v.(type) {
	case json.Number:
		f, err = t.Float64()
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err = strconv.ParseFloat(s, 64)
	default:
		return 0, false
	}

	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func decodeNonNegative(raw json.RawMessage) (float64, bool) {
	f, ok := decodeNumber(raw)
	return f, ok && f >= 0
}

func decodeNonNegativeInt(raw json.RawMessage) (int, bool) {
	f, ok := decodeNonNegative(raw)
	if !ok || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
