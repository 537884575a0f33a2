package ui

// Stage is the step a document is in during `mend fix`.
type Stage uint8

const (
	StageNone Stage = iota
	StageDiagnose
	StageFix
	StageWrite
)

type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusUnchanged
	StatusError
)

// Event moves one document (File != "") or the whole run (File == "")
// forward. Fixed counts applied fixes for a document.
type Event struct {
	File   string
	Stage  Stage
	Status Status
	Fixed  int
}
