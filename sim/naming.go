package sim

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidName is returned for a name that does not follow the naming
// convention.
var ErrInvalidName = errors.New("invalid name")

// ValidateName checks that a name follows the naming convention.
//  1. It is a dot-separated hierarchy, e.g. "System.Cache".
//  2. No element is empty.
//  3. Every element starts with a capital letter and contains none of
//     `_ " ' -`.
//  4. Elements in a series carry integer indices in square brackets, e.g.
//     "Cache[0]" or "Bank[1][3]".
func ValidateName(name string) error {
	for _, elem := range strings.Split(name, ".") {
		if err := validateElement(elem); err != nil {
			return fmt.Errorf("%w: %q: %s", ErrInvalidName, name, err)
		}
	}

	return nil
}

func validateElement(elem string) error {
	base, rest, _ := strings.Cut(elem, "[")
	if base == "" {
		return errors.New("element must not be empty")
	}

	if strings.ContainsAny(base, "_\"'-]") {
		return errors.New("element must not contain _ \" ' - or ]")
	}

	if base[0] < 'A' || base[0] > 'Z' {
		return errors.New("element must start with a capital letter")
	}

	if rest == "" && !strings.Contains(elem, "[") {
		return nil
	}

	for _, index := range strings.Split("["+rest, "[")[1:] {
		digits, ok := strings.CutSuffix(index, "]")
		if !ok {
			return errors.New("brackets must match")
		}

		if _, err := strconv.Atoi(digits); err != nil {
			return errors.New("index must be an integer")
		}
	}

	return nil
}

// BuildName builds a name from a parent name and an element name.
func BuildName(parentName, elementName string) string {
	if parentName == "" {
		return elementName
	}

	return parentName + "." + elementName
}
