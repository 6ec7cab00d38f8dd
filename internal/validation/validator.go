package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var instanceNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("instance_name", validateInstanceName)
	_ = validate.RegisterValidation("measurement_prefix", validateMeasurementPrefix)
}

// ValidateInstanceName checks a batch instance name. The name doubles as the
// scheduler's batch query key and the default working-directory name, so it is
// restricted to a filesystem- and query-safe alphabet.
func ValidateInstanceName(name string) error {
	if err := validate.Var(name, "required,max=128,instance_name"); err != nil {
		return fmt.Errorf("invalid instance name %q: %w", name, err)
	}
	return nil
}

// ValidateMeasurement checks a measurement identifier read from the list
// file. Identifiers name remote prefixes and are also flattened into local
// paths, so path traversal and absolute paths are rejected.
func ValidateMeasurement(measurement string) error {
	if err := validate.Var(measurement, "required,max=1024,measurement_prefix"); err != nil {
		return fmt.Errorf("invalid measurement %q: %w", measurement, err)
	}
	return nil
}

func validateInstanceName(fl validator.FieldLevel) bool {
	return instanceNameRe.MatchString(fl.Field().String())
}

func validateMeasurementPrefix(fl validator.FieldLevel) bool {
	m := fl.Field().String()

	if strings.HasPrefix(m, "/") || strings.Contains(m, "\\") {
		return false
	}

	for _, segment := range strings.Split(m, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return false
		}
	}

	for _, r := range m {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}

	return true
}
