package transport

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validPathRequest() PathRequest {
	return PathRequest{
		Title:       "Learn Go",
		Description: "A practical introduction to the Go programming language.",
		Category:    "programming",
		Difficulty:  "Beginner",
		Steps: []StepRequest{
			{Title: "Basics", Description: "Syntax and tooling"},
		},
	}
}

func TestValidatePathRequest(t *testing.T) {
	require.Nil(t, Validate(validPathRequest()))
}

func TestValidateRejectsBadDifficulty(t *testing.T) {
	req := validPathRequest()
	req.Difficulty = "Expert"

	details := Validate(req)
	require.Len(t, details, 1)
	require.Equal(t, "difficulty", details[0].Field)
	require.Contains(t, details[0].Message, "Beginner")
}

func TestValidateRejectsEmptySteps(t *testing.T) {
	req := validPathRequest()
	req.Steps = nil

	details := Validate(req)
	require.NotEmpty(t, details)
	require.Equal(t, "steps", details[0].Field)
}

func TestValidateNestedStepField(t *testing.T) {
	req := validPathRequest()
	req.Steps[0].Title = ""

	details := Validate(req)
	require.Len(t, details, 1)
	require.Equal(t, "steps[0].title", details[0].Field)
	require.Equal(t, "is required", details[0].Message)
}

func TestValidateRegisterRequest(t *testing.T) {
	details := Validate(RegisterRequest{Email: "not-an-email", Password: "short", Name: "A"})
	require.Len(t, details, 3)

	fields := map[string]bool{}
	for _, d := range details {
		fields[d.Field] = true
	}
	require.True(t, fields["email"])
	require.True(t, fields["password"])
	require.True(t, fields["name"])
}

func TestValidateToggleStepRequiresCompleted(t *testing.T) {
	require.NotEmpty(t, Validate(ToggleStepRequest{}))

	done := false
	require.Nil(t, Validate(ToggleStepRequest{Completed: &done}))
}

func TestValidateUpdateProfileRequest(t *testing.T) {
	require.Nil(t, Validate(UpdateProfileRequest{Name: "Ada"}))

	avatar := "/avatars/ada.png"
	require.Nil(t, Validate(UpdateProfileRequest{Name: "Ada", Avatar: &avatar}))

	details := Validate(UpdateProfileRequest{Name: "A"})
	require.Len(t, details, 1)
	require.Equal(t, "name", details[0].Field)
}

func TestValidateChangePasswordRequest(t *testing.T) {
	require.Nil(t, Validate(ChangePasswordRequest{CurrentPassword: "old-pass", NewPassword: "new-pass"}))

	details := Validate(ChangePasswordRequest{CurrentPassword: "old-pass", NewPassword: "short"})
	require.Len(t, details, 1)
	require.Equal(t, "new_password", details[0].Field)

	details = Validate(ChangePasswordRequest{NewPassword: "new-pass"})
	require.Len(t, details, 1)
	require.Equal(t, "current_password", details[0].Field)
}

func TestPathRequestToDomainDefaultsPublic(t *testing.T) {
	public := validPathRequest()
	require.True(t, public.ToDomain().IsPublic)

	private := validPathRequest()
	hidden := false
	private.IsPublic = &hidden
	require.False(t, private.ToDomain().IsPublic)
}
