package models

import "testing"

func TestIsValidDocumentTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		// Happy path
		{DocumentStatusDraft, DocumentStatusUnderControl, true},
		{DocumentStatusUnderControl, DocumentStatusUnderValidation, true},
		{DocumentStatusUnderValidation, DocumentStatusValidated, true},
		{DocumentStatusUnderValidation, DocumentStatusRejected, true},

		// Skipping a step is never allowed
		{DocumentStatusDraft, DocumentStatusUnderValidation, false},
		{DocumentStatusDraft, DocumentStatusValidated, false},
		{DocumentStatusUnderControl, DocumentStatusValidated, false},
		{DocumentStatusUnderControl, DocumentStatusRejected, false},

		// No moving backwards
		{DocumentStatusUnderControl, DocumentStatusDraft, false},
		{DocumentStatusUnderValidation, DocumentStatusUnderControl, false},

		// Terminal states
		{DocumentStatusValidated, DocumentStatusDraft, false},
		{DocumentStatusValidated, DocumentStatusRejected, false},
		{DocumentStatusRejected, DocumentStatusDraft, false},
		{DocumentStatusRejected, DocumentStatusValidated, false},

		// Unknown statuses
		{"nonexistent", DocumentStatusUnderControl, false},
		{DocumentStatusDraft, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidDocumentTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidDocumentTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestAllDocumentStatusesHaveTransitionEntry(t *testing.T) {
	allStatuses := []string{
		DocumentStatusDraft, DocumentStatusUnderControl, DocumentStatusUnderValidation,
		DocumentStatusValidated, DocumentStatusRejected,
	}

	for _, status := range allStatuses {
		if _, ok := ValidDocumentTransitions[status]; !ok {
			t.Errorf("status %q missing from ValidDocumentTransitions map", status)
		}
	}
}
