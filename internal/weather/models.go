package weather

import (
	"fmt"
	"math"

	"github.com/TyumenevIF/Weather/internal/types"
)

// QueryKind tags which variant a Query holds
type QueryKind int

const (
	QueryByCity QueryKind = iota + 1
	QueryByCoordinates
)

func (k QueryKind) String() string {
	switch k {
	case QueryByCity:
		return "city"
	case QueryByCoordinates:
		return "coordinates"
	default:
		return fmt.Sprintf("Unknown (%d)", int(k))
	}
}

// Query is either a city name or a coordinate pair. Build it with ByCity or ByCoordinates.
type Query struct {
	kind   QueryKind
	city   string
	coords types.Coords
}

func ByCity(name string) Query {
	return Query{kind: QueryByCity, city: name}
}

func ByCoordinates(latitude, longitude float64) Query {
	return Query{kind: QueryByCoordinates, coords: types.NewCoords(latitude, longitude)}
}

func (q Query) Kind() QueryKind {
	return q.kind
}

// City returns the city name; empty unless Kind is QueryByCity
func (q Query) City() string {
	return q.city
}

// Coords returns the coordinate pair; zero unless Kind is QueryByCoordinates
func (q Query) Coords() types.Coords {
	return q.coords
}

func (q Query) String() string {
	switch q.kind {
	case QueryByCity:
		return fmt.Sprintf("city %q", q.city)
	case QueryByCoordinates:
		return "coordinates " + q.coords.String()
	default:
		return "empty query"
	}
}

// Record is the decoded current weather for one request
type Record struct {
	CityName           string
	ConditionID        int
	TemperatureCelsius float64
}

// TemperatureString formats the temperature with no decimals, e.g. "11°"
func (r Record) TemperatureString() string {
	rounded := math.Round(r.TemperatureCelsius)
	if rounded == 0 {
		// avoid "-0°"
		rounded = 0
	}
	return fmt.Sprintf("%.0f°", rounded)
}

// ConditionIconName returns the icon for the record's condition id
func (r Record) ConditionIconName() string {
	return IconName(r.ConditionID)
}

// ConditionDescription returns the condition group label, e.g. "Clouds"
func (r Record) ConditionDescription() string {
	return types.GroupForConditionID(r.ConditionID).String()
}

// Result is what an asynchronous fetch delivers. Exactly one of Record and Err is set.
type Result struct {
	RequestID uint64
	Query     Query
	Record    *Record
	Err       error
}

// Continuation receives the result of one FetchAsync call
type Continuation func(Result)
