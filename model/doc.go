// Package model compiles field declarations into schemas and runs the
// validation and projection engines over them.
//
// A Schema is built once with New(...).Field(...).Build(). Bases listed with
// Extends contribute their fields first, in their order; a redeclared field
// keeps its inherited position. Roles of the same name are unioned across
// levels, and the most derived Namespace and null policy win.
//
// Validation converts and checks each field in order, then runs instance
// validators, and reports every failure in one *modelkit.ModelValidationError
// keyed by wire name. Fields that passed are returned next to the error:
//
//	data, err := person.Validate(ctx, raw, model.ValidateOpt{Strict: true})
//	if mve, ok := modelkit.AsModelError(err); ok {
//		log.Print(mve.Flat())
//	}
//
// An Instance keeps raw input apart from validated values:
//
//	inst, err := person.Load(ctx, raw)
//	_ = inst.Set("name", "Ana")
//	err = inst.Validate(ctx)
//	out, err := inst.Serialize("public")
package model
