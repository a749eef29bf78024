package validator

// Validator validates a struct using its `validate` tags.
//
// Implementations return nil when data is valid, or an error describing the
// violated fields.
type Validator interface {
	Validate(data any) error
}
