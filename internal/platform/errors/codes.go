// Package errors provides structured error handling for domain failures.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Experience economy errors
	CodeXPInvalidAmount       Code = "XP_INVALID_AMOUNT"
	CodeXPInsufficient        Code = "XP_INSUFFICIENT"
	CodeXPAttributeBelowBase  Code = "XP_ATTRIBUTE_BELOW_BASE"
	CodeXPNegativeValue       Code = "XP_NEGATIVE_VALUE"
	CodeSkillAlreadyLearned   Code = "SKILL_ALREADY_LEARNED"
	CodeSkillPrerequisiteMiss Code = "SKILL_PREREQUISITE_NOT_MET"

	// Character errors
	CodeCharacterEmptyName           Code = "CHARACTER_EMPTY_NAME"
	CodeCharacterEmptyUserID         Code = "CHARACTER_EMPTY_USER_ID"
	CodeCharacterUnknownHeritage     Code = "CHARACTER_UNKNOWN_HERITAGE"
	CodeCharacterUnknownCulture      Code = "CHARACTER_UNKNOWN_CULTURE"
	CodeCharacterUnknownArchetype    Code = "CHARACTER_UNKNOWN_ARCHETYPE"
	CodeCharacterUnknownAttribute    Code = "CHARACTER_UNKNOWN_ATTRIBUTE"
	CodeCharacterInvalidTransition   Code = "CHARACTER_INVALID_STATUS_TRANSITION"
	CodeCharacterStatusDisallowsOp   Code = "CHARACTER_STATUS_DISALLOWS_OPERATION"
	CodeCharacterRetireReasonMissing Code = "CHARACTER_RETIREMENT_REASON_REQUIRED"
	CodeCharacterSecondArchetypeHeld Code = "CHARACTER_SECOND_ARCHETYPE_ALREADY_HELD"

	// Reference data errors
	CodeReferenceEmptyName           Code = "REFERENCE_EMPTY_NAME"
	CodeReferenceNegativeAttribute   Code = "REFERENCE_NEGATIVE_ATTRIBUTE"
	CodeReferenceUnknownHeritage     Code = "REFERENCE_UNKNOWN_HERITAGE"
	CodeReferencePrerequisiteCycle   Code = "REFERENCE_SKILL_PREREQUISITE_CYCLE"
	CodeReferencePrerequisiteUnknown Code = "REFERENCE_SKILL_PREREQUISITE_UNKNOWN"

	// Account errors
	CodeAccountEmptyEmail         Code = "ACCOUNT_EMPTY_EMAIL"
	CodeAccountEmptyPassword      Code = "ACCOUNT_EMPTY_PASSWORD"
	CodeAccountEmailTaken         Code = "ACCOUNT_EMAIL_TAKEN"
	CodeAccountInvalidCredentials Code = "ACCOUNT_INVALID_CREDENTIALS"
	CodeAccountInvalidToken       Code = "ACCOUNT_INVALID_TOKEN"
	CodeAccountPermissionDenied   Code = "ACCOUNT_PERMISSION_DENIED"

	// Chapter errors
	CodeChapterEmptyName Code = "CHAPTER_EMPTY_NAME"

	// Event errors
	CodeEventEmptyName       Code = "EVENT_EMPTY_NAME"
	CodeEventInvalidSchedule Code = "EVENT_INVALID_SCHEDULE"
	CodeEventInvalidAward    Code = "EVENT_INVALID_AWARD"
	CodeEventInvalidRSVP     Code = "EVENT_INVALID_RSVP_STATUS"

	// Candle currency errors
	CodeCandleInvalidAmount Code = "CANDLE_INVALID_AMOUNT"
	CodeCandleInsufficient  Code = "CANDLE_INSUFFICIENT"

	// Achievement errors
	CodeAchievementThresholdOrder Code = "ACHIEVEMENT_INVALID_THRESHOLD_ORDER"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodeXPInvalidAmount,
		CodeXPNegativeValue,
		CodeCharacterEmptyName,
		CodeCharacterEmptyUserID,
		CodeCharacterUnknownHeritage,
		CodeCharacterUnknownCulture,
		CodeCharacterUnknownArchetype,
		CodeCharacterUnknownAttribute,
		CodeCharacterRetireReasonMissing,
		CodeReferenceEmptyName,
		CodeReferenceNegativeAttribute,
		CodeReferenceUnknownHeritage,
		CodeReferencePrerequisiteCycle,
		CodeReferencePrerequisiteUnknown,
		CodeAccountEmptyEmail,
		CodeAccountEmptyPassword,
		CodeChapterEmptyName,
		CodeEventEmptyName,
		CodeEventInvalidSchedule,
		CodeEventInvalidAward,
		CodeEventInvalidRSVP,
		CodeCandleInvalidAmount,
		CodeAchievementThresholdOrder:
		return http.StatusBadRequest

	// Conflict - state doesn't allow the operation
	case CodeXPInsufficient,
		CodeXPAttributeBelowBase,
		CodeSkillAlreadyLearned,
		CodeSkillPrerequisiteMiss,
		CodeCharacterInvalidTransition,
		CodeCharacterStatusDisallowsOp,
		CodeCharacterSecondArchetypeHeld,
		CodeAccountEmailTaken,
		CodeCandleInsufficient:
		return http.StatusConflict

	case CodeAccountInvalidCredentials,
		CodeAccountInvalidToken:
		return http.StatusUnauthorized

	case CodeAccountPermissionDenied:
		return http.StatusForbidden

	case CodeNotFound:
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}
