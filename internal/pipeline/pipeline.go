// Package pipeline defines the fixed ten-stage repair pipeline.
package pipeline

// Stage is a work order's position in the repair pipeline.
type Stage string

const (
	StageReception       Stage = "reception"
	StageDiagnosis       Stage = "diagnosis"
	StageInitialQuote    Stage = "initial_quote"
	StageWaitingApproval Stage = "waiting_approval"
	StageDisassembly     Stage = "disassembly"
	StageWaitingParts    Stage = "waiting_parts"
	StageAssembly        Stage = "assembly"
	StageTesting         Stage = "testing"
	StageReady           Stage = "ready"
	StageCompleted       Stage = "completed"
)

// stages is the pipeline in board order. The set is closed: no other stage
// value is ever rendered as a column or accepted as a drop target.
var stages = []Stage{
	StageReception,
	StageDiagnosis,
	StageInitialQuote,
	StageWaitingApproval,
	StageDisassembly,
	StageWaitingParts,
	StageAssembly,
	StageTesting,
	StageReady,
	StageCompleted,
}

var labels = map[Stage]string{
	StageReception:       "Reception",
	StageDiagnosis:       "Diagnosis",
	StageInitialQuote:    "Initial Quote",
	StageWaitingApproval: "Waiting Approval",
	StageDisassembly:     "Disassembly",
	StageWaitingParts:    "Waiting Parts",
	StageAssembly:        "Assembly",
	StageTesting:         "Testing",
	StageReady:           "Ready",
	StageCompleted:       "Completed",
}

// Stages returns the ten pipeline stages in board order.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}

// IsValid reports whether s is one of the ten pipeline stages.
func IsValid(s Stage) bool {
	_, ok := labels[s]
	return ok
}

// Label returns the human-readable name for a stage, or the raw value for
// anything outside the pipeline.
func Label(s Stage) string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

// Index returns the stage's position in the pipeline, or -1 if s is not a
// pipeline stage.
func Index(s Stage) int {
	for i, st := range stages {
		if st == s {
			return i
		}
	}
	return -1
}
