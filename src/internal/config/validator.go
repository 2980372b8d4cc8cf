package config

import (
	"errors"
	"fmt"
	"net/netip"

	"github.com/go-playground/validator/v10"
)

// ValidateSettings validates the settings and returns all validation errors
func (s *Settings) ValidateSettings() error {
	var validationErrors ValidationErrors

	if err := validate.Struct(s); err != nil {
		validationErrors = append(validationErrors, fromValidator(err, "", "")...)
	}

	validationErrors = append(validationErrors, checkDuplicates("interfaces", s.Interfaces)...)
	validationErrors = append(validationErrors, checkDuplicates("tables", s.Tables)...)

	if len(validationErrors) > 0 {
		return validationErrors
	}
	return nil
}

// ValidateRouteSpec checks one protected route entry for structural errors.
// Name resolution happens later, against the kernel.
func ValidateRouteSpec(spec RouteSpec, itemName string) error {
	var validationErrors ValidationErrors

	if err := validate.Struct(spec); err != nil {
		validationErrors = append(validationErrors, fromValidator(err, "", itemName)...)
	}

	var dst netip.Addr
	if spec.Dst != "" {
		if addr, err := netip.ParseAddr(spec.Dst); err == nil {
			dst = addr.Unmap()
		}
	}

	if spec.DstLen != nil && dst.IsValid() && *spec.DstLen > dst.BitLen() {
		validationErrors = append(validationErrors, ValidationError{
			ItemName:  itemName,
			FieldPath: "dst_len",
			Message:   fmt.Sprintf("must be <= %d for %s", dst.BitLen(), spec.Dst),
		})
	}

	for _, field := range []struct {
		name  string
		value string
	}{{"gateway", spec.Gateway}, {"prefsrc", spec.PrefSrc}} {
		if field.value == "" || !dst.IsValid() {
			continue
		}
		addr, err := netip.ParseAddr(field.value)
		if err != nil {
			continue
		}
		if addr.Unmap().Is4() != dst.Is4() {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: field.name,
				Message:   fmt.Sprintf("address family of %s does not match dst %s", field.value, spec.Dst),
			})
		}
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}
	return nil
}

func checkDuplicates(field string, values []string) ValidationErrors {
	var validationErrors ValidationErrors
	seen := make(map[string]bool)
	for _, v := range values {
		if seen[v] {
			validationErrors = append(validationErrors, ValidationError{
				FieldPath: field,
				Message:   fmt.Sprintf("duplicate entry: %s", v),
			})
		}
		seen[v] = true
	}
	return validationErrors
}

// fromValidator flattens validator errors into ValidationErrors.
func fromValidator(err error, fieldPrefix string, itemName string) ValidationErrors {
	var validationErrors ValidationErrors

	var validatorErrs validator.ValidationErrors
	if errors.As(err, &validatorErrs) {
		for _, e := range validatorErrs {
			fieldPath := fieldPrefix
			if e.Field() != "" {
				if fieldPrefix != "" {
					fieldPath = fieldPrefix + "." + e.Field()
				} else {
					fieldPath = e.Field()
				}
			}

			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: fieldPath,
				Message:   validationMessage(e),
			})
		}
	}

	return validationErrors
}
