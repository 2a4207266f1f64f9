package models

import "github.com/google/uuid"

const (
	EventMemberCreated     = "member_created"
	EventMembershipRenewed = "membership_renewed"
)

type Event struct {
	ID      uuid.UUID
	Type    string
	Payload string
}
