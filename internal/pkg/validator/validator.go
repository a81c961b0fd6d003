package validator

// Validator validates structs based on their field tags.
type Validator interface {
	Validate(data any) error
}
