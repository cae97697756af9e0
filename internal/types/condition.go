package types

// ConditionGroup classifies a provider condition id.
// OpenWeatherMap ids are grouped by hundreds: https://openweathermap.org/weather-conditions
type ConditionGroup int

// Condition group constants
const (
	GroupUnknown ConditionGroup = iota
	GroupThunderstorm
	GroupDrizzle
	GroupRain
	GroupSnow
	GroupAtmosphere
	GroupClear
	GroupClouds
)

// Icon names shown for each condition group
const (
	IconThunderstorm = "thunderstorm"
	IconDrizzle      = "drizzle"
	IconRain         = "rain"
	IconSnow         = "snow"
	IconFog          = "fog"
	IconClear        = "clear"
	IconCloudy       = "cloudy"
	IconUnknown      = "unknown"
)

// groupDescriptions maps condition groups to their descriptions
var groupDescriptions = map[ConditionGroup]string{
	GroupUnknown:      "Unknown",
	GroupThunderstorm: "Thunderstorm",
	GroupDrizzle:      "Drizzle",
	GroupRain:         "Rain",
	GroupSnow:         "Snow",
	GroupAtmosphere:   "Atmosphere",
	GroupClear:        "Clear",
	GroupClouds:       "Clouds",
}

var groupIcons = map[ConditionGroup]string{
	GroupUnknown:      IconUnknown,
	GroupThunderstorm: IconThunderstorm,
	GroupDrizzle:      IconDrizzle,
	GroupRain:         IconRain,
	GroupSnow:         IconSnow,
	GroupAtmosphere:   IconFog,
	GroupClear:        IconClear,
	GroupClouds:       IconCloudy,
}

// Condition is a provider condition id with its group and icon resolved
type Condition struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// GroupForConditionID returns the group of a condition id. Every int maps to a group.
func GroupForConditionID(id int) ConditionGroup {
	switch {
	case id >= 200 && id <= 299:
		return GroupThunderstorm
	case id >= 300 && id <= 399:
		return GroupDrizzle
	case id >= 500 && id <= 599:
		return GroupRain
	case id >= 600 && id <= 699:
		return GroupSnow
	case id >= 700 && id <= 799:
		return GroupAtmosphere
	case id == 800:
		return GroupClear
	case id >= 801 && id <= 899:
		return GroupClouds
	default:
		return GroupUnknown
	}
}

func (g ConditionGroup) String() string {
	if desc, ok := groupDescriptions[g]; ok {
		return desc
	}
	return groupDescriptions[GroupUnknown]
}

// IconName returns the display icon for the group
func (g ConditionGroup) IconName() string {
	if icon, ok := groupIcons[g]; ok {
		return icon
	}
	return IconUnknown
}

// NewCondition creates a Condition from a provider condition id
func NewCondition(id int) Condition {
	group := GroupForConditionID(id)
	return Condition{
		ID:          id,
		Description: group.String(),
		Icon:        group.IconName(),
	}
}
