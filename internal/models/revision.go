// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// RevisionAction records which mutation produced a template revision.
type RevisionAction string

const (
	RevisionCreate RevisionAction = "create"
	RevisionUpdate RevisionAction = "update"
	RevisionCopy   RevisionAction = "copy"
	RevisionRemove RevisionAction = "remove"
)

// TemplateRevision is a snapshot of a template taken after each mutation,
// kept so an edit made through the table can be inspected or undone.
type TemplateRevision struct {
	ID           uuid.UUID      `json:"id"`
	FileID       string         `json:"file_id"`
	TemplateName string         `json:"template_name"`
	PreviousName string         `json:"previous_name,omitempty"`
	Body         string         `json:"body"`
	Action       RevisionAction `json:"action"`
	CreatedAt    time.Time      `json:"created_at"`
}
