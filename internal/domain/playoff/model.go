package playoff

import "fmt"

type Round string

const (
	RoundSemifinal Round = "semifinal"
	RoundFinal     Round = "final"
)

// Match is one bracket node. The full bracket for a league is generated
// exactly once; the final is created only when both semifinal winners
// are known.
type Match struct {
	ID           string
	LeagueID     string
	Round        Round
	Slot         int
	HomeMemberID string
	AwayMemberID string

	HomeScore      *float64
	AwayScore      *float64
	WinnerMemberID *string
	Finalized      bool
}

func (m Match) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("playoff match id is required")
	}
	if m.LeagueID == "" {
		return fmt.Errorf("playoff match league id is required")
	}
	if m.Round != RoundSemifinal && m.Round != RoundFinal {
		return fmt.Errorf("unknown playoff round %q", m.Round)
	}
	if m.HomeMemberID == "" || m.AwayMemberID == "" {
		return fmt.Errorf("playoff match requires both members")
	}
	if m.HomeMemberID == m.AwayMemberID {
		return fmt.Errorf("playoff match cannot pair member %s with itself", m.HomeMemberID)
	}
	return nil
}
