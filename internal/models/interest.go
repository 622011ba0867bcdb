package models

// Interest is a named tag attached to a single user.
type Interest struct {
	ID           int64  `json:"id"`
	InterestType string `json:"interestType"`
}

// InterestInput is the body of an interest rename.
type InterestInput struct {
	InterestType string `json:"interestType"`
}
