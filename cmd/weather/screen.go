package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/TyumenevIF/Weather/internal/location"
	"github.com/TyumenevIF/Weather/internal/weather"
)

// Commands understood besides a plain city name
const (
	commandHere    = "/here"
	commandHereAlt = "@"
	commandQuit    = "/quit"
)

const emptyInputNotice = "Type something"

// event is delivered to the interactive goroutine by service workers
type event any

type weatherEvent struct {
	result weather.Result
}

type locationEvent struct {
	fix location.Fix
	err error
}

// screen owns everything that is drawn. Only the goroutine running run touches its state.
type screen struct {
	out      io.Writer
	weather  weather.Service
	location location.Service
	logger   *slog.Logger

	events chan event
	// outstanding counts issued requests whose event has not been applied yet
	outstanding int

	// lastRendered is the request id of the newest result drawn so far
	lastRendered uint64
	current      *weather.Record
}

func newScreen(out io.Writer, weatherSvc weather.Service, locationSvc location.Service, logger *slog.Logger) *screen {
	return &screen{
		out:      out,
		weather:  weatherSvc,
		location: locationSvc,
		logger:   logger.With("component", "screen"),
		events:   make(chan event, 16),
	}
}

// run reads commands from in until /quit or ctx is cancelled. At EOF it stops reading
// and returns once every outstanding request has been drawn.
func (s *screen) run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	s.prompt()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			if s.outstanding == 0 {
				return nil
			}
			// input is exhausted, keep drawing results
			readErr = nil
			lines = nil
		case line := <-lines:
			if !s.submit(ctx, line) {
				return nil
			}
			s.prompt()
		case ev := <-s.events:
			s.apply(ctx, ev)
			if lines == nil && s.outstanding == 0 {
				return nil
			}
		}
	}
}

// submit handles one line of input and reports whether the loop should continue
func (s *screen) submit(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)

	switch input {
	case commandQuit:
		return false
	case commandHere, commandHereAlt:
		s.notice("Locating...")
		s.outstanding++
		s.location.RequestLocation(ctx, func(fix location.Fix, err error) {
			s.post(ctx, locationEvent{fix: fix, err: err})
		})
		return true
	}

	city, err := weather.NormalizeCity(input)
	if err != nil {
		s.notice(emptyInputNotice)
		return true
	}
	s.fetch(ctx, weather.ByCity(city))
	return true
}

func (s *screen) fetch(ctx context.Context, query weather.Query) uint64 {
	s.outstanding++
	id := s.weather.FetchAsync(ctx, query, func(result weather.Result) {
		s.post(ctx, weatherEvent{result: result})
	})
	s.logger.Debug("weather requested", "request_id", id, "query", query.String())
	return id
}

// post hands an event from a worker goroutine to the interactive goroutine
func (s *screen) post(ctx context.Context, ev event) {
	select {
	case s.events <- ev:
	case <-ctx.Done():
	}
}

// apply runs on the interactive goroutine
func (s *screen) apply(ctx context.Context, ev event) {
	if s.outstanding > 0 {
		s.outstanding--
	}
	switch ev := ev.(type) {
	case weatherEvent:
		s.applyWeather(ev.result)
	case locationEvent:
		s.applyLocation(ctx, ev)
	}
}

func (s *screen) applyWeather(result weather.Result) {
	if result.RequestID <= s.lastRendered {
		s.logger.Debug("discarding stale weather result",
			"request_id", result.RequestID,
			"last_rendered", s.lastRendered,
		)
		return
	}
	s.lastRendered = result.RequestID

	if result.Err != nil {
		// the previous display stays as it was
		s.notice(weatherNotice(result.Err))
		return
	}

	s.current = result.Record
	s.render()
}

func (s *screen) applyLocation(ctx context.Context, ev locationEvent) {
	if ev.err != nil {
		if errors.Is(ev.err, location.ErrSuperseded) {
			return
		}
		s.notice(locationNotice(ev.err))
		return
	}

	s.notice("Located at " + describeFix(ev.fix))
	s.fetch(ctx, weather.ByCoordinates(ev.fix.Coords.Latitude, ev.fix.Coords.Longitude))
}

func (s *screen) render() {
	r := s.current
	fmt.Fprintf(s.out, "\n  %s\n  [%s] %s\n  %s\n\n", r.CityName, r.ConditionIconName(), r.ConditionDescription(), r.TemperatureString())
}

func (s *screen) notice(msg string) {
	fmt.Fprintf(s.out, "! %s\n", msg)
}

func (s *screen) prompt() {
	fmt.Fprint(s.out, "city> ")
}

func describeFix(fix location.Fix) string {
	desc := fix.Coords.String()
	if fix.Place != nil {
		desc = fix.Place.String() + " " + desc
	}
	if fix.Timezone != "" {
		desc += " " + fix.Timezone
	}
	return desc
}

func weatherNotice(err error) string {
	switch {
	case errors.Is(err, weather.ErrTransportFailure):
		return "Could not reach the weather service"
	case errors.Is(err, weather.ErrDecodeFailure):
		return "The weather service sent a response that could not be read"
	case errors.Is(err, weather.ErrInvalidResponse):
		return "The weather service sent an incomplete response"
	case errors.Is(err, weather.ErrInvalidQuery):
		return emptyInputNotice
	default:
		return "Weather lookup failed: " + err.Error()
	}
}

func locationNotice(err error) string {
	switch {
	case errors.Is(err, location.ErrPermissionDenied):
		return "Location access is not allowed"
	case errors.Is(err, location.ErrFixUnavailable):
		return "Your location is unavailable right now"
	default:
		return "Location failed: " + err.Error()
	}
}
