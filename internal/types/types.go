package types

import "github.com/patlang/repat/syntax"

// Issue represents a problem found in a pattern-set file.
type Issue struct {
	Rule     string
	Category string
	Filename string
	Message  string
	Note     string
	Severity Severity
	Start    syntax.Position
	End      syntax.Position
}

// Severity is the weight of an issue.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityOff
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	case SeverityOff:
		return "OFF"
	}
	return "UNKNOWN"
}
