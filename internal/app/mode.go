package app

import "strings"

// StudyMode selects which partition of the bank feeds a session queue.
type StudyMode string

const (
	ModeDue        StudyMode = "due"
	ModeNew        StudyMode = "new"
	ModeMarked     StudyMode = "marked"
	ModeStruggling StudyMode = "struggling"
	ModeAll        StudyMode = "all"
)

func NormalizeStudyMode(raw string) StudyMode {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(ModeNew):
		return ModeNew
	case string(ModeMarked), "flagged":
		return ModeMarked
	case string(ModeStruggling):
		return ModeStruggling
	case string(ModeAll):
		return ModeAll
	default:
		return ModeDue
	}
}
