package weather

import (
	"errors"
	"strings"

	"github.com/TyumenevIF/Weather/internal/types"
)

var ErrEmptyCityName = errors.New("city name is empty")

// IconName maps a provider condition id to a display icon. It is defined for every int.
func IconName(conditionID int) string {
	return types.GroupForConditionID(conditionID).IconName()
}

// NormalizeCity trims user input and rejects empty names before a fetch is issued
func NormalizeCity(input string) (string, error) {
	city := strings.TrimSpace(input)
	if city == "" {
		return "", ErrEmptyCityName
	}
	return city, nil
}
