package field

import (
	"context"
	"fmt"
	"math/big"

	modelkit "github.com/reoring/modelkit"
	js "github.com/reoring/modelkit/jsonschema"
)

// HashType holds a fixed-length hexadecimal digest as a *big.Int.
type HashType struct {
	Base
	name   string
	length int
}

// MD5 returns a field for 32 hex digit digests. The last spec wins.
func MD5(specs ...Spec) *HashType { return newHash("md5", 32, specs) }

// SHA1 returns a field for 40 hex digit digests. The last spec wins.
func SHA1(specs ...Spec) *HashType { return newHash("sha1", 40, specs) }

func newHash(name string, length int, specs []Spec) *HashType {
	var spec Spec
	if n := len(specs); n > 0 {
		spec = specs[n-1]
	}
	return &HashType{Base: NewBase(spec, hashMessages), name: name, length: length}
}

func (t *HashType) Convert(ctx context.Context, v any) (any, error) {
	switch x := v.(type) {
	case *big.Int:
		if x == nil || x.Sign() < 0 || x.BitLen() > t.length*4 {
			return nil, modelkit.NewConversionError(t.Message(ctx, MsgHashLength))
		}
		return x, nil
	case string:
		if len(x) != t.length {
			return nil, modelkit.NewConversionError(t.Message(ctx, MsgHashLength))
		}
		n, ok := new(big.Int).SetString(x, 16)
		if !ok || x[0] == '+' || x[0] == '-' {
			return nil, modelkit.NewConversionError(t.Message(ctx, MsgHashHex))
		}
		return n, nil
	}
	return nil, modelkit.NewConversionError(t.Message(ctx, MsgHashLength))
}

func (t *HashType) Validate(ctx context.Context, v any) error { return t.Check(ctx, v) }

// ToPrimitive renders the digest as zero-padded lowercase hex.
func (t *HashType) ToPrimitive(v any) any {
	if n, ok := v.(*big.Int); ok {
		return fmt.Sprintf("%0*x", t.length, n)
	}
	return v
}

func (t *HashType) Clone() Type {
	c := *t
	c.Base = t.CloneBase()
	return &c
}

func (t *HashType) JSONSchema() *js.Schema {
	return t.Annotate(&js.Schema{
		Type:      "string",
		Format:    t.name,
		MinLength: Ptr(t.length),
		MaxLength: Ptr(t.length),
		Pattern:   "^[0-9a-fA-F]+$",
	}, t.ToPrimitive)
}
