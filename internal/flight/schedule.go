package flight

import (
	"fmt"
	"strconv"
	"strings"
)

// Line selects international or domestic flights.
type Line int

const (
	International Line = 1
	Domestic      Line = 2
)

func (l Line) String() string {
	switch l {
	case International:
		return "international"
	case Domestic:
		return "domestic"
	default:
		return "line(" + strconv.Itoa(int(l)) + ")"
	}
}

// Direction selects departures or arrivals.
type Direction int

const (
	Departure Direction = 1
	Arrival   Direction = 2
)

func (d Direction) String() string {
	switch d {
	case Departure:
		return "departure"
	case Arrival:
		return "arrival"
	default:
		return "direction(" + strconv.Itoa(int(d)) + ")"
	}
}

// ParseLine accepts the names printed by Line.String.
func ParseLine(s string) (Line, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "international":
		return International, nil
	case "domestic":
		return Domestic, nil
	}
	return 0, fmt.Errorf("unknown flight line %q", s)
}

// ParseDirection accepts the names printed by Direction.String.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "departure":
		return Departure, nil
	case "arrival":
		return Arrival, nil
	}
	return 0, fmt.Errorf("unknown flight direction %q", s)
}

// Query identifies one schedule board. It is comparable and serves as
// the resource key of the flight controller.
type Query struct {
	Line      Line
	Direction Direction
}

func (q Query) String() string {
	return q.Line.String() + "/" + q.Direction.String()
}

func (q Query) params() map[string]string {
	return map[string]string{
		"AirFlyLine": strconv.Itoa(int(q.Line)),
		"AirFlyIO":   strconv.Itoa(int(q.Direction)),
	}
}

// Schedule is one row of the instant schedule feed.
// Status and delay cause are free text in the feed's locale; the delay
// cause is empty when there is none.
type Schedule struct {
	ExpectTime      string  `json:"expectTime"`
	RealTime        string  `json:"realTime"`
	AirlineName     string  `json:"airLineName"`
	AirlineCode     string  `json:"airLineCode"`
	AirlineLogo     string  `json:"airLineLogo"`
	AirlineURL      string  `json:"airLineUrl"`
	AirlineNum      string  `json:"airLineNum"`
	OriginCode      *string `json:"upAirportCode"`
	OriginName      *string `json:"upAirportName"`
	DestinationCode *string `json:"goalAirportCode"`
	DestinationName *string `json:"goalAirportName"`
	AirplaneType    string  `json:"airPlaneType"`
	BoardingGate    string  `json:"airBoardingGate"`
	Status          string  `json:"airFlyStatus"`
	DelayCause      string  `json:"airFlyDelayCause"`
}

// Schedules keeps the order the feed returned.
type Schedules []Schedule

// InstantScheduleResponse represents the schedule API response body
type InstantScheduleResponse struct {
	InstantSchedule *Schedules `json:"InstantSchedule"`
}
