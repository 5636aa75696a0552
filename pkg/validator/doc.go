// Package validator provides declarative validation rules.
//
// Each rule pairs a Check func with the error reported when it fails. Apply
// evaluates a set of rules and aggregates failures into ValidationErrors,
// which implements error:
//
//	err := validator.Apply(
//	    validator.ValidEmail("email", email),
//	    validator.StrongPassword("password", password, validator.DefaultPasswordPolicy()),
//	)
//	if ve := validator.ExtractValidationErrors(err); ve != nil {
//	    // ve.Fields() -> map[string][]string
//	}
package validator
