// Package catalog holds the fixed ordered challenge catalog and the
// deterministic per-day selection derived from it.
package catalog

import (
	"grindstone/internal/model"
	"grindstone/internal/seed"
)

const (
	saltChallenge   = "challenge"
	saltCrowdBase   = "crowd-base"
	saltCrowdWiggle = "crowd-wiggle"
)

// challenges is a stable ordered list. Selection indexes into it by
// position, so entries must never be reordered or removed; append only.
var challenges = []model.Challenge{
	{Title: "No social feeds", Description: "Stay off every social feed until midnight. Opening one to \"check something real quick\" counts."},
	{Title: "Inbox zero by sundown", Description: "Process every email in your inbox before the day ends. Archive, reply, or delete. No snoozing."},
	{Title: "Phone in another room", Description: "Keep your phone physically out of the room you work in for the whole day."},
	{Title: "One tab at a time", Description: "Browse with a single tab. Close before you open. All day."},
	{Title: "Cold start", Description: "Begin your hardest task of the day before touching anything easier. No warm-up busywork."},
	{Title: "No snooze", Description: "Get up with the first alarm. The day has already started without you."},
	{Title: "Walk before you scroll", Description: "Take a ten minute walk before any screen entertainment today."},
	{Title: "Say no once", Description: "Decline one request that would eat your focus time. Politely. Today."},
	{Title: "Write the dreaded thing", Description: "That message, doc, or apology you keep postponing: draft it and send it today."},
	{Title: "Silence is golden", Description: "Work without music, podcasts, or background video for every focused block today."},
	{Title: "Single-course lunch", Description: "Eat lunch away from every screen. Just you and the food."},
	{Title: "The fifteen minute rule", Description: "Stuck for fifteen minutes? Ask for help or change approach. No heroic wheel-spinning today."},
	{Title: "Shutdown ritual", Description: "End the workday with a written plan for tomorrow. Then actually stop."},
	{Title: "No complaints", Description: "Catch yourself before every complaint today. Reframe it as a request or drop it."},
	{Title: "Make your bed twice", Description: "Make your bed this morning, and reset your desk to empty tonight."},
	{Title: "Batch the pings", Description: "Check messages at most once per hour, in a single pass. Notifications off in between."},
}

// Size returns the catalog length.
func Size() int { return len(challenges) }

// ByID returns the catalog entry for a stored id, falling back to the
// first entry if the id is out of range (catalog shrank across versions).
func ByID(id int) model.Challenge {
	if id < 0 || id >= len(challenges) {
		id = 0
	}
	c := challenges[id]
	c.ID = id
	return c
}

// ChallengeFor picks the day's shared challenge. Stable for a given day
// key: every call, on every install, returns the same entry.
func ChallengeFor(dayKey string) model.Challenge {
	idx := seed.NewStream(dayKey, saltChallenge).Intn(len(challenges))
	return ByID(idx)
}

// CrowdSizeFor returns the day's simulated crowd size: a deterministic
// base plus an independent deterministic wiggle. Cosmetic, but stable
// across repeated calls within the same day.
func CrowdSizeFor(dayKey string) int {
	base := 120 + seed.NewStream(dayKey, saltCrowdBase).Intn(200)
	wiggle := seed.NewStream(dayKey, saltCrowdWiggle).Intn(30)
	return base + wiggle
}
