package entities

import (
	"fmt"
	"strings"
)

// Resident is one community member eligible to vote, with the public
// profile when one has been seen.
type Resident struct {
	ID      UserID
	Profile *UserProfile
}

// VoteReport is the user-facing vote status of one tracked poll at a
// point in time.
type VoteReport struct {
	VoterCount int
	NonVoters  []Resident
}

const everyoneVoted = "Everyone voted!"

// Text renders the report posted next to a relayed poll. Residents
// without a public handle are counted but not mentioned.
func (r VoteReport) Text() string {
	if len(r.NonVoters) == 0 {
		return everyoneVoted
	}
	mentions := make([]string, 0, len(r.NonVoters))
	for _, resident := range r.NonVoters {
		if resident.Profile == nil || resident.Profile.Username == "" {
			continue
		}
		mentions = append(mentions, "@"+resident.Profile.Username)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Voted %d users, Pending vote %d users: ", r.VoterCount, len(r.NonVoters))
	b.WriteString(strings.Join(mentions, " "))
	b.WriteString(".\n")
	return b.String()
}
