package netcomponents

import "github.com/yohamta/donburi"

// NoParticipant is the unassigned sentinel for participant indices.
const NoParticipant = -1

type NetAvatarData struct {
	ParticipantIndex int // NoParticipant until the authority assigns a slot
	IsReady          bool
	Grounded         bool // owner-reported, for remote animation state
	DisplayName      string
	LastSequence     uint32 // last owner state report applied by the authority
}

var NetAvatar = donburi.NewComponentType[NetAvatarData]()
