// Package modelkit provides:
//
// - Declarative record schemas built from typed fields (see model and field)
// - Conversion of untrusted input into validated native values with every
// failure aggregated per field (ModelValidationError)
// - Serialization back to primitive or native form under role filters and a
// null policy, and a flatten/expand transform for dotted-key maps
//
// Design policy:
// - The root package holds the error model, input Sources and the logger.
// - Field types live under field/, schemas and instances under model/,
// flat maps under flatten/, messages under i18n/ and the CLI under cmd/modelkit.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	person := model.New("Person").
//		Field("name", field.String(field.StringConfig{Spec: field.Spec{Required: true}})).
//		Field("age", field.Int()).
//		MustBuild()
//
//	src, err := modelkit.JSONBytes(data).Decode()
//	inst, err := person.Load(ctx, src, model.ValidateOpt{})
//	out, err := inst.Serialize("")
package modelkit
