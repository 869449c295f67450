package provider

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidateConfigFields validates a provider configuration against the field
// definitions the provider declares
func ValidateConfigFields(providerName string, config map[string]string, requiredFields []ConfigField) error {
	for _, field := range requiredFields {
		value, exists := config[field.Key]

		if !field.Required {
			if exists && value != "" {
				if err := validateFieldValue(providerName, field, value); err != nil {
					return err
				}
			}
			continue
		}

		if !exists || strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s: required field '%s' is missing", providerName, field.Key)
		}

		if err := validateFieldValue(providerName, field, value); err != nil {
			return err
		}
	}

	return nil
}

func validateFieldValue(providerName string, field ConfigField, value string) error {
	if field.Type == "boolean" && value != "true" && value != "false" {
		return fmt.Errorf("%s: field '%s' must be 'true' or 'false'", providerName, field.Key)
	}

	if field.Pattern != "" {
		matched, err := regexp.MatchString(field.Pattern, value)
		if err != nil {
			return fmt.Errorf("%s: invalid pattern for field '%s': %v", providerName, field.Key, err)
		}
		if !matched {
			return fmt.Errorf("%s: field '%s' does not match required pattern", providerName, field.Key)
		}
	}

	if field.MinLength > 0 && len(value) < field.MinLength {
		return fmt.Errorf("%s: field '%s' must be at least %d characters", providerName, field.Key, field.MinLength)
	}
	if field.MaxLength > 0 && len(value) > field.MaxLength {
		return fmt.Errorf("%s: field '%s' must not exceed %d characters", providerName, field.Key, field.MaxLength)
	}

	return nil
}
