package config

// Validator interface for configurations that need validation.
type Validator interface {
	Validate() error
}

// Defaulter supplies default values, keyed by dotted config path, applied
// before the file is read.
type Defaulter interface {
	Defaults() map[string]interface{}
}
