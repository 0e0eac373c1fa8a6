// Package booking drives the step-by-step collection of appointment details
// inside a chat conversation.
package booking

import "fmt"

// Stage is the current step of the booking flow.
type Stage int

const (
	StageNone Stage = iota
	StageName
	StageCity
	StageDescription
	StageDate
	StageCompleted
)

var stageNames = [...]string{
	StageNone:        "none",
	StageName:        "collecting-name",
	StageCity:        "collecting-city",
	StageDescription: "collecting-description",
	StageDate:        "collecting-date",
	StageCompleted:   "completed",
}

func (s Stage) valid() bool {
	return s >= StageNone && s <= StageCompleted
}

func (s Stage) String() string {
	if !s.valid() {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// Active reports whether the flow is waiting for an answer.
func (s Stage) Active() bool {
	return s >= StageName && s <= StageDate
}

// MarshalText encodes the stage by name.
func (s Stage) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStage, int(s))
	}
	return []byte(stageNames[s]), nil
}

// UnmarshalText rejects names outside the known set.
func (s *Stage) UnmarshalText(text []byte) error {
	parsed, err := ParseStage(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStage maps a stage name back to its Stage. An empty name is StageNone.
func ParseStage(name string) (Stage, error) {
	if name == "" {
		return StageNone, nil
	}
	for i, n := range stageNames {
		if n == name {
			return Stage(i), nil
		}
	}
	return StageNone, fmt.Errorf("%w: %q", ErrUnknownStage, name)
}
