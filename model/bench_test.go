package model_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/reoring/modelkit/field"
	"github.com/reoring/modelkit/model"
)

func benchSchemas(tb testing.TB) *model.Schema {
	tb.Helper()
	address := model.New("Address").
		Field("street", field.String(field.StringConfig{Spec: field.Spec{Required: true}})).
		Field("zip", field.String(field.StringConfig{Regex: `[0-9]{5}`})).
		MustBuild()
	user, err := model.New("User").
		Field("id", field.UUID()).
		Field("name", field.String(field.StringConfig{Spec: field.Spec{Required: true}, MaxLength: field.Ptr(64)})).
		Field("age", field.Int(field.NumberConfig[int]{MinValue: field.Ptr(0)})).
		Field("email", field.Email()).
		Field("addresses", field.List(model.Embed(address))).
		Options(model.Options{Roles: map[string]model.Role{"public": model.Whitelist("name", "addresses")}}).
		Build()
	if err != nil {
		tb.Fatalf("schema build failed: %v", err)
	}
	return user
}

func benchInput(addresses int) map[string]any {
	list := make([]any, addresses)
	for i := range list {
		list[i] = map[string]any{"street": "street " + strconv.Itoa(i), "zip": "12345"}
	}
	return map[string]any{
		"id":        "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"name":      "alice",
		"age":       "33",
		"email":     "alice@example.com",
		"addresses": list,
	}
}

func BenchmarkValidate_Small(b *testing.B) {
	ctx := context.Background()
	s := benchSchemas(b)
	in := benchInput(1)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Validate(ctx, in); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkValidate_LargeList(b *testing.B) {
	ctx := context.Background()
	s := benchSchemas(b)
	in := benchInput(1000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Validate(ctx, in); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSerialize_Role(b *testing.B) {
	inst, err := benchSchemas(b).Load(context.Background(), benchInput(100))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := inst.Serialize("public"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFlatten(b *testing.B) {
	inst, err := benchSchemas(b).Load(context.Background(), benchInput(100))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := inst.Flatten(""); err != nil {
			b.Fatal(err)
		}
	}
}
