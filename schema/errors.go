package schema

import "errors"

// Sentinel errors for schema configuration problems. These are all
// ConfigurationError-class: they indicate the schema itself is
// invalid, never a runtime/driver failure.
var (
	// ErrUnsupportedType is returned when an Array wraps a non-scalar
	// item type (another Array, a JSON, or an Enum).
	ErrUnsupportedType = errors.New("schema: unsupported column type")

	// ErrUnsupportedDefault is returned when a column default cannot
	// be represented as a SQL literal.
	ErrUnsupportedDefault = errors.New("schema: default value is not representable as a literal")

	// ErrEmptyEnum is returned when an Enum column has no allowed values.
	ErrEmptyEnum = errors.New("schema: enum column has no allowed values")

	// ErrInvalidEnumDefault is returned when a column default does not
	// belong to its Enum's allowed-values set.
	ErrInvalidEnumDefault = errors.New("schema: enum default is not an allowed value")

	// ErrEmptyIdentifier is returned when a table or column name is empty.
	ErrEmptyIdentifier = errors.New("schema: table and column names must be non-empty")

	// ErrPrimaryKeyNullable is returned when a column is marked both
	// PrimaryKey and Nullable - primary keys always imply NOT NULL.
	ErrPrimaryKeyNullable = errors.New("schema: primary key column cannot be nullable")
)

// IsUnsupportedTypeErr returns true if err is or wraps ErrUnsupportedType.
func IsUnsupportedTypeErr(err error) bool { return errors.Is(err, ErrUnsupportedType) }

// IsUnsupportedDefaultErr returns true if err is or wraps ErrUnsupportedDefault.
func IsUnsupportedDefaultErr(err error) bool { return errors.Is(err, ErrUnsupportedDefault) }

// IsInvalidEnumDefaultErr returns true if err is or wraps ErrInvalidEnumDefault.
func IsInvalidEnumDefaultErr(err error) bool { return errors.Is(err, ErrInvalidEnumDefault) }
