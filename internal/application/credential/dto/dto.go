package dto

import (
	"time"

	"portaria/internal/domain/credential"
)

// CredentialDTO is the presentation shape of a guest credential. Status and
// MinutesRemaining are derived at read time and must not be persisted or
// cached by callers.
type CredentialDTO struct {
	ID               string                `json:"id"`
	Code             string                `json:"code"`
	Name             string                `json:"name"`
	Document         string                `json:"document,omitempty"`
	Phone            string                `json:"phone,omitempty"`
	SponsorID        uint                  `json:"sponsor_id"`
	EmployeeID       uint                  `json:"employee_id,omitempty"`
	ValidFrom        time.Time             `json:"valid_from"`
	ValidUntil       time.Time             `json:"valid_until"`
	MaxEntries       int                   `json:"max_entries"`
	CurrentEntries   int                   `json:"current_entries"`
	Locations        []string              `json:"locations"`
	Status           string                `json:"status"`
	MinutesRemaining int                   `json:"minutes_remaining"`
	Biometric        bool                  `json:"biometric"`
	Notes            []credential.Note     `json:"notes,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// AccessEventDTO is the presentation shape of one gate decision.
type AccessEventDTO struct {
	ID           uint      `json:"id"`
	Code         string    `json:"code"`
	Direction    string    `json:"direction"`
	Location     string    `json:"location"`
	Outcome      string    `json:"outcome"`
	DenialReason string    `json:"denial_reason,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// AdmissionDecisionDTO is what a checkpoint terminal receives for an attempt.
// Granted responses carry the visitor name for display; denied responses
// carry only the machine-readable reason code.
type AdmissionDecisionDTO struct {
	Outcome      string `json:"outcome"`
	DenialReason string `json:"denial_reason,omitempty"`
	CredentialID string `json:"credential_id,omitempty"`
	VisitorName  string `json:"visitor_name,omitempty"`
}

// ToCredentialDTO converts a credential aggregate to its presentation shape,
// deriving the lifecycle status at the given instant.
func ToCredentialDTO(c *credential.Credential, now time.Time) *CredentialDTO {
	if c == nil {
		return nil
	}

	st := credential.DeriveStatus(c, now)
	return &CredentialDTO{
		ID:               c.ShortID(),
		Code:             c.Code(),
		Name:             c.Name(),
		Document:         c.Document(),
		Phone:            c.Phone(),
		SponsorID:        c.SponsorID(),
		EmployeeID:       c.EmployeeID(),
		ValidFrom:        c.ValidFrom(),
		ValidUntil:       c.ValidUntil(),
		MaxEntries:       c.MaxEntries(),
		CurrentEntries:   c.CurrentEntries(),
		Locations:        c.Locations(),
		Status:           st.Status.String(),
		MinutesRemaining: st.MinutesRemaining,
		Biometric:        c.BiometricRequested(),
		Notes:            c.Notes(),
		CreatedAt:        c.CreatedAt(),
		UpdatedAt:        c.UpdatedAt(),
	}
}

// ToCredentialDTOList converts a list of credentials, all derived against the
// same instant so a single response is internally consistent.
func ToCredentialDTOList(creds []*credential.Credential, now time.Time) []*CredentialDTO {
	dtos := make([]*CredentialDTO, 0, len(creds))
	for _, c := range creds {
		if c != nil {
			dtos = append(dtos, ToCredentialDTO(c, now))
		}
	}
	return dtos
}

// ToAccessEventDTO converts an access event to its presentation shape.
func ToAccessEventDTO(e *credential.AccessEvent) *AccessEventDTO {
	if e == nil {
		return nil
	}

	return &AccessEventDTO{
		ID:           e.ID(),
		Code:         e.Code(),
		Direction:    e.Direction().String(),
		Location:     e.Location(),
		Outcome:      e.Outcome().String(),
		DenialReason: e.DenialReason().String(),
		OccurredAt:   e.OccurredAt(),
	}
}

// ToAccessEventDTOList converts a list of access events.
func ToAccessEventDTOList(events []*credential.AccessEvent) []*AccessEventDTO {
	dtos := make([]*AccessEventDTO, 0, len(events))
	for _, e := range events {
		if e != nil {
			dtos = append(dtos, ToAccessEventDTO(e))
		}
	}
	return dtos
}
