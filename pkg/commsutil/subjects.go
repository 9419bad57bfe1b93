package commsutil

import (
	"fmt"
	"strings"
)

// Default COMMS subjects.
const (
	// SubjectSignal is the fire-and-forget intake subject: envelopes
	// published here are fed to the colony with the "entry" source.
	SubjectSignal = "colony.signal"
	// SubjectAPI is the request/reply subject for the colony operations
	// (send, fade, highways, stats).
	SubjectAPI = "colony.api.v1"
	// SubjectTrail is the global trail event subject.
	SubjectTrail = "colony.trail"
)

// BuildTrailSubject builds a granular trail event subject for a hop. The
// source may be task-qualified ("scout:observe"); only the unit id is used.
func BuildTrailSubject(source, target string) string {
	return fmt.Sprintf("colony.trail.%s.%s", subjectToken(source), subjectToken(target))
}

// subjectToken normalizes a unit reference into a single COMMS subject token.
func subjectToken(ref string) string {
	if i := strings.IndexByte(ref, ':'); i >= 0 {
		ref = ref[:i]
	}
	ref = strings.ReplaceAll(ref, ".", "_")
	return strings.ReplaceAll(ref, " ", "_")
}
